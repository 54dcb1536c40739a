package container

import (
	"context"
	"slices"
	"strconv"
	"time"
)

type pathKey struct{}

// resolutionPath is the chain of keys being constructed on behalf of the
// current call. Providers must pass the context they receive to nested
// resolutions for cycles to be detected.
//
// A cycle is only seen by the resolution that would close it. A caller that
// joins a construction already in flight on another goroutine waits without
// its own path reaching that goroutine, so two goroutines each holding one
// half of a cycle wait on each other forever. Callers that fan out must
// reject cycles up front, see CycleFrom.
func resolutionPath(ctx context.Context) []Key {
	path, _ := ctx.Value(pathKey{}).([]Key)
	return path
}

func withStep(ctx context.Context, path []Key, key Key) context.Context {
	next := make([]Key, len(path), len(path)+1)
	copy(next, path)
	return context.WithValue(ctx, pathKey{}, append(next, key))
}

func (c *Container[O]) Resolve(ctx context.Context, key Key) (any, error) {
	start := time.Now()
	instance, err := c.resolve(ctx, key)
	c.callResolveHooks(key.Name, time.Since(start), err)
	return instance, err
}

func (c *Container[O]) callResolveHooks(name string, duration time.Duration, err error) {
	for _, hook := range c.onResolve {
		hook(name, duration, err)
	}
}

func (c *Container[O]) resolve(ctx context.Context, key Key) (any, error) {
	path := resolutionPath(ctx)
	if i := slices.IndexFunc(path, func(k Key) bool { return k.ID == key.ID }); i >= 0 {
		chain := append(names(path[i:]), key.Name)
		return nil, &CycleError{Chain: chain}
	}

	c.mu.RLock()
	b, exists := c.registry.Get(key)
	instance, built := c.registry.Instance(key)
	c.mu.RUnlock()

	if !exists {
		return nil, &NotFoundError{Key: key}
	}
	if built {
		return instance, nil
	}

	flight := key.ID.String() + "/" + strconv.FormatUint(b.generation, 10)
	instance, err, _ := c.flights.Do(
		flight, func() (any, error) {
			return c.construct(withStep(ctx, path, key), b)
		},
	)
	return instance, err
}

func (c *Container[O]) construct(ctx context.Context, b *Binding[O]) (any, error) {
	c.mu.RLock()
	instance, built := c.registry.Instance(b.Key)
	c.mu.RUnlock()
	if built {
		return instance, nil
	}

	c.logger.Debug("constructing instance", "reference", b.Key.Name)

	instance, err := b.Provider(ctx, c.owner)
	if err != nil {
		return nil, &ProviderError{Key: b.Key, Cause: err}
	}

	c.mu.Lock()
	cached := c.registry.Store(b, instance)
	c.mu.Unlock()

	if !cached {
		c.logger.Debug("binding changed during construction; instance not cached", "reference", b.Key.Name)
	}
	return instance, nil
}
