package aquinas

import (
	"encoding/json"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/danpasecinic/aquinas/internal/container"
	"github.com/danpasecinic/aquinas/internal/ident"
	"github.com/danpasecinic/aquinas/internal/reflect"
)

// Ref is the type-erased view of a Reference, used wherever references of
// different types travel together.
type Ref interface {
	Name() string
	ID() uuid.UUID
}

// Reference is a named handle for one binding slot. T only exists at compile
// time; identity is the name alone, so two references created with the same
// name anywhere in a program address the same slot.
type Reference[T any] struct {
	name string
	id   uuid.UUID
}

var (
	_ Ref              = Reference[any]{}
	_ json.Marshaler   = Reference[any]{}
	_ yaml.Marshaler   = Reference[any]{}
	_ yaml.Unmarshaler = (*Reference[any])(nil)
	_ json.Unmarshaler = (*Reference[any])(nil)
)

func NewReference[T any](name string) Reference[T] {
	return Reference[T]{name: name, id: ident.For(name)}
}

// Derived returns the reference named base + ":" + ref.Name(), for families
// of bindings such as "cache:UserRepository".
func Derived[T any](base string, ref Ref) Reference[T] {
	return NewReference[T](ident.Join(base, ref.Name()))
}

// Retype returns a reference to the same slot carrying a different type.
func Retype[U, T any](ref Reference[T]) Reference[U] {
	return Reference[U]{name: ref.name, id: ref.id}
}

func (r Reference[T]) Name() string {
	return r.name
}

func (r Reference[T]) ID() uuid.UUID {
	return r.id
}

// Valid reports whether r was built by NewReference rather than being a zero
// value.
func (r Reference[T]) Valid() bool {
	return r.id != uuid.Nil
}

func (r Reference[T]) String() string {
	return r.name
}

func (r Reference[T]) MarshalText() ([]byte, error) {
	return []byte(r.name), nil
}

func (r *Reference[T]) UnmarshalText(text []byte) error {
	*r = NewReference[T](string(text))
	return nil
}

func (r Reference[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.name)
}

func (r *Reference[T]) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	*r = NewReference[T](name)
	return nil
}

func (r Reference[T]) MarshalYAML() (any, error) {
	return r.name, nil
}

func (r *Reference[T]) UnmarshalYAML(node *yaml.Node) error {
	var name string
	if err := node.Decode(&name); err != nil {
		return err
	}
	*r = NewReference[T](name)
	return nil
}

func keyOf(ref Ref) (container.Key, error) {
	if reflect.IsNil(ref) || ref.ID() == uuid.Nil {
		return container.Key{}, errInvalidReference(ref)
	}
	return container.Key{ID: ref.ID(), Name: ref.Name()}, nil
}
