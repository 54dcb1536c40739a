package container

import (
	"context"

	"github.com/google/uuid"

	"github.com/danpasecinic/aquinas/internal/ordered"
)

// ProviderFunc constructs the value of one binding. owner is the container's
// owner at resolution time, not at registration time, so a binding copied
// into another container constructs against that container.
type ProviderFunc[O any] func(ctx context.Context, owner O) (any, error)

// Key identifies a binding slot. ID is derived from Name; Name is carried for
// messages and graph nodes.
type Key struct {
	ID   uuid.UUID
	Name string
}

type Binding[O any] struct {
	Key          Key
	Provider     ProviderFunc[O]
	Dependencies []Key
	generation   uint64
}

// Registry holds the reference set, the binding table and the singleton
// table. It is not safe for concurrent use; Container guards it.
type Registry[O any] struct {
	references *ordered.Map[uuid.UUID, Key]
	bindings   map[uuid.UUID]*Binding[O]
	instances  map[uuid.UUID]any
	generation uint64
}

func NewRegistry[O any]() *Registry[O] {
	return &Registry[O]{
		references: ordered.New[uuid.UUID, Key](),
		bindings:   make(map[uuid.UUID]*Binding[O]),
		instances:  make(map[uuid.UUID]any),
	}
}

// Bind records key and provider together and evicts any cached instance.
// A reference that is already known keeps its registration position.
func (r *Registry[O]) Bind(key Key, provider ProviderFunc[O], dependencies []Key) *Binding[O] {
	r.generation++

	deps := make([]Key, len(dependencies))
	copy(deps, dependencies)

	b := &Binding[O]{
		Key:          key,
		Provider:     provider,
		Dependencies: deps,
		generation:   r.generation,
	}

	r.references.Set(key.ID, key)
	r.bindings[key.ID] = b
	delete(r.instances, key.ID)
	return b
}

// Unbind removes key from every table. It reports whether key was bound.
func (r *Registry[O]) Unbind(key Key) bool {
	_, bound := r.bindings[key.ID]

	r.references.Delete(key.ID)
	delete(r.bindings, key.ID)
	delete(r.instances, key.ID)
	return bound
}

func (r *Registry[O]) Has(key Key) bool {
	_, exists := r.bindings[key.ID]
	return exists
}

func (r *Registry[O]) Get(key Key) (*Binding[O], bool) {
	b, exists := r.bindings[key.ID]
	return b, exists
}

func (r *Registry[O]) Instance(key Key) (any, bool) {
	instance, ok := r.instances[key.ID]
	return instance, ok
}

// Store caches instance only while b is still the current binding of its key.
func (r *Registry[O]) Store(b *Binding[O], instance any) bool {
	current, exists := r.bindings[b.Key.ID]
	if !exists || current.generation != b.generation {
		return false
	}
	r.instances[b.Key.ID] = instance
	return true
}

// Keys returns every known reference in registration order.
func (r *Registry[O]) Keys() []Key {
	return r.references.Values()
}

func (r *Registry[O]) Size() int {
	return r.references.Len()
}

// Snapshot returns the bindings in registration order. It fails when a
// reference has no binding, which the Bind/Unbind pairing never produces.
func (r *Registry[O]) Snapshot() ([]Binding[O], error) {
	snapshot := make([]Binding[O], 0, r.references.Len())

	var missing *Key
	r.references.Each(
		func(id uuid.UUID, key Key) bool {
			b, exists := r.bindings[id]
			if !exists || b.Provider == nil {
				missing = &key
				return false
			}
			snapshot = append(snapshot, *b)
			return true
		},
	)

	if missing != nil {
		return nil, &InconsistentError{Key: *missing}
	}
	return snapshot, nil
}
