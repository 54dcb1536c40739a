package aquinas

import (
	"context"
	"slices"

	"github.com/danpasecinic/aquinas/internal/reflect"
)

// Resolver is the read side of a Dock. Implementations handed to
// implementation functions detached from any Dock fail every Resolve.
type Resolver interface {
	Resolve(ctx context.Context, ref Ref) (any, error)
	Has(ref Ref) bool
}

// Refs names a set of references, as declared by Builder.Deps or passed to
// Dock.ResolveAll.
type Refs map[string]Ref

// Values holds resolved dependency values and derived state by name.
type Values map[string]any

// ResolveReferences resolves every entry of refs through r, in key order.
// The first failure aborts; no partial result is returned.
func ResolveReferences(ctx context.Context, refs Refs, r Resolver) (Values, error) {
	if reflect.IsNil(r) {
		return nil, errInvalidArgument("expected a Resolver", r)
	}

	keys := make([]string, 0, len(refs))
	for key := range refs {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	for _, key := range keys {
		if _, err := keyOf(refs[key]); err != nil {
			return nil, errInvalidArgument("invalid dependency reference for key "+key, refs[key])
		}
	}

	resolved := make(Values, len(refs))
	for _, key := range keys {
		v, err := r.Resolve(ctx, refs[key])
		if err != nil {
			return nil, errDependencyFailed(key, err)
		}
		resolved[key] = v
	}
	return resolved, nil
}

// Get resolves ref through r and asserts the result to T.
func Get[T any](ctx context.Context, r Resolver, ref Reference[T]) (T, error) {
	var zero T

	if reflect.IsNil(r) {
		return zero, errInvalidArgument("expected a Resolver", r)
	}

	instance, err := r.Resolve(ctx, ref)
	if err != nil {
		return zero, err
	}

	return typed[T](ref.Name(), instance)
}

func typed[T any](name string, instance any) (T, error) {
	if instance == nil {
		var zero T
		return zero, nil
	}

	v, ok := instance.(T)
	if !ok {
		var zero T
		return zero, errTypeMismatch(name, reflect.TypeName[T](), instance)
	}
	return v, nil
}

func MustGet[T any](ctx context.Context, r Resolver, ref Reference[T]) T {
	v, err := Get(ctx, r, ref)
	if err != nil {
		panic(err)
	}
	return v
}

// SafeGet is Get for optional dependencies: a failure, including a missing
// binding, yields an absent Optional. It panics with an
// ErrCodeDockUnavailable *Error when r is the Resolver of an Env built by
// Instantiate, since nothing there can ever be resolved.
func SafeGet[T any](ctx context.Context, r Resolver, ref Reference[T]) Optional[T] {
	v, err := Get(ctx, r, ref)
	if err != nil {
		if _, ok := r.(detached); ok {
			panic(err)
		}
		return None[T]()
	}
	return Some(v)
}

// GetAll resolves refs through r. It is ResolveReferences under the name a
// Dock user expects.
func GetAll(ctx context.Context, r Resolver, refs Refs) (Values, error) {
	return ResolveReferences(ctx, refs, r)
}

type Optional[T any] struct {
	value   T
	present bool
}

func (o Optional[T]) Get() (T, bool) {
	return o.value, o.present
}

func (o Optional[T]) Value() T {
	return o.value
}

func (o Optional[T]) Present() bool {
	return o.present
}

func (o Optional[T]) OrElse(defaultValue T) T {
	if o.present {
		return o.value
	}
	return defaultValue
}

func (o Optional[T]) OrElseFunc(fn func() T) T {
	if o.present {
		return o.value
	}
	return fn()
}

func Some[T any](value T) Optional[T] {
	return Optional[T]{value: value, present: true}
}

func None[T any]() Optional[T] {
	return Optional[T]{}
}
