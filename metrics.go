package aquinas

import (
	"time"
)

// ResolveHook observes every single-reference resolution, including cache
// hits and failures.
type ResolveHook func(reference string, duration time.Duration, err error)

// RegisterHook observes every binding written by Register, Override or Merge.
type RegisterHook func(reference string)
