package aquinas

import "context"

// Env is what an implementation function receives: its resolved
// dependencies and derived state by name, and a Resolver bound to the Dock
// constructing it for anything it did not declare.
type Env struct {
	ctx      context.Context
	values   Values
	resolver Resolver
	dock     *Dock
}

// Context returns the context of the resolution in progress. Pass it to any
// nested resolution.
func (e *Env) Context() context.Context {
	return e.ctx
}

func (e *Env) Values() Values {
	return e.values
}

func (e *Env) Value(key string) (any, bool) {
	v, ok := e.values[key]
	return v, ok
}

func (e *Env) Resolver() Resolver {
	return e.resolver
}

// Dock returns the Dock constructing the value. It reports false when the
// value is being built by Instantiate.
func (e *Env) Dock() (*Dock, bool) {
	return e.dock, e.dock != nil
}

func (e *Env) Get(ref Ref) (any, error) {
	return e.resolver.Resolve(e.ctx, ref)
}

// SafeGet resolves ref and reports false instead of failing when it cannot.
// The error is only set when there is no Dock to resolve against, as under
// Instantiate, which is never the same as an absent value.
func (e *Env) SafeGet(ref Ref) (any, bool, error) {
	v, err := e.resolver.Resolve(e.ctx, ref)
	if err != nil {
		if e.dock == nil {
			return nil, false, err
		}
		return nil, false, nil
	}
	return v, true, nil
}

// Dep returns the dependency or state value named key as a T.
func Dep[T any](e *Env, key string) (T, error) {
	v, ok := e.values[key]
	if !ok {
		var zero T
		return zero, newError(
			ErrCodeInvalidArgument,
			"no dependency or state named "+key,
			nil,
		)
	}
	return typed[T](key, v)
}

func MustDep[T any](e *Env, key string) T {
	v, err := Dep[T](e, key)
	if err != nil {
		panic(err)
	}
	return v
}

// Lookup resolves ref from inside an implementation, typed. It is the escape
// hatch for dependencies that were not declared.
func Lookup[T any](e *Env, ref Reference[T]) (T, error) {
	return Get(e.ctx, e.resolver, ref)
}

// LookupOptional is Lookup for optional dependencies. Like Env.SafeGet it
// only fails when there is no Dock to resolve against.
func LookupOptional[T any](e *Env, ref Reference[T]) (Optional[T], error) {
	v, err := Get(e.ctx, e.resolver, ref)
	if err != nil {
		if e.dock == nil {
			return None[T](), err
		}
		return None[T](), nil
	}
	return Some(v), nil
}
