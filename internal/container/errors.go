package container

import (
	"fmt"
	"strings"
)

type NotFoundError struct {
	Key Key
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no binding registered for %s", e.Key.Name)
}

type CycleError struct {
	Chain []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("circular resolution detected: %s", strings.Join(e.Chain, " -> "))
}

type ProviderError struct {
	Key   Key
	Cause error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider failed for %s: %v", e.Key.Name, e.Cause)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

type InconsistentError struct {
	Key Key
}

func (e *InconsistentError) Error() string {
	return fmt.Sprintf("reference %s is registered without a binding", e.Key.Name)
}
