package container

import (
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/danpasecinic/aquinas/internal/graph"
)

type ResolveHook func(name string, duration time.Duration, err error)

type RegisterHook func(name string)

// Container stores bindings and constructs each of them at most once. It is
// safe for concurrent use; no lock is held while a provider runs.
type Container[O any] struct {
	mu       sync.RWMutex
	owner    O
	registry *Registry[O]
	graph    *graph.Graph
	flights  singleflight.Group
	logger   *slog.Logger

	onResolve  []ResolveHook
	onRegister []RegisterHook
}

type Config[O any] struct {
	Owner      O
	Logger     *slog.Logger
	OnResolve  []ResolveHook
	OnRegister []RegisterHook
}

func New[O any](cfg *Config[O]) *Container[O] {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Container[O]{
		owner:      cfg.Owner,
		registry:   NewRegistry[O](),
		graph:      graph.New(),
		logger:     logger,
		onResolve:  cfg.OnResolve,
		onRegister: cfg.OnRegister,
	}
}

// Bind registers provider for key, replacing any previous binding and its
// cached instance.
func (c *Container[O]) Bind(key Key, provider ProviderFunc[O], dependencies []Key) {
	c.mu.Lock()
	rebind := c.registry.Has(key)
	c.registry.Bind(key, provider, dependencies)
	c.graph.Set(key.Name, names(dependencies))
	c.mu.Unlock()

	c.logger.Debug("bound reference", "reference", key.Name, "rebind", rebind, "dependencies", len(dependencies))
	for _, hook := range c.onRegister {
		hook(key.Name)
	}
}

// Unbind removes key. Unbinding an unknown key is a no-op.
func (c *Container[O]) Unbind(key Key) {
	c.mu.Lock()
	bound := c.registry.Unbind(key)
	c.graph.Remove(key.Name)
	c.mu.Unlock()

	if bound {
		c.logger.Debug("unbound reference", "reference", key.Name)
	}
}

// Merge copies every binding of source into c, in source's registration
// order. Instances are never copied.
func (c *Container[O]) Merge(source *Container[O]) error {
	source.mu.RLock()
	snapshot, err := source.registry.Snapshot()
	source.mu.RUnlock()
	if err != nil {
		return err
	}

	for _, b := range snapshot {
		c.Bind(b.Key, b.Provider, b.Dependencies)
	}
	return nil
}

func (c *Container[O]) Has(key Key) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.registry.Has(key)
}

func (c *Container[O]) Instance(key Key) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.registry.Instance(key)
}

func (c *Container[O]) Keys() []Key {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.registry.Keys()
}

func (c *Container[O]) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.registry.Size()
}

// Graph returns a copy of the declared dependency graph.
func (c *Container[O]) Graph() *graph.Graph {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.graph.Clone()
}

// CycleFrom returns the first declared cycle reachable from keys, or nil.
func (c *Container[O]) CycleFrom(keys []Key) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.graph.CycleFrom(names(keys)...)
}

func names(keys []Key) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k.Name
	}
	return out
}
