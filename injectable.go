package aquinas

import (
	"context"
	"maps"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/danpasecinic/aquinas/internal/ordered"
)

// InitFunc derives extra named state from the resolved dependencies. It runs
// once per construction, after every dependency resolved.
type InitFunc func(ctx context.Context, deps Values) (Values, error)

// Implementation builds the value of an Injectable from its environment.
type Implementation[T any] func(env *Env) (T, error)

// Builder accumulates the declaration of an Injectable. Use it in order:
// Deps or Dep any number of times, Init at most once, then Implements.
// Nothing declared here runs until the Injectable is resolved.
type Builder[T any] struct {
	reference Reference[T]
	deps      *ordered.Map[string, Ref]
	init      InitFunc
	parallel  bool
}

func NewInjectable[T any](ref Reference[T]) *Builder[T] {
	return &Builder[T]{
		reference: ref,
		deps:      ordered.New[string, Ref](),
	}
}

// Deps declares named dependencies. A key declared again keeps its original
// position and takes the later reference. Keys of a single call are added in
// lexical order; use Dep to control order exactly.
func (b *Builder[T]) Deps(refs Refs) *Builder[T] {
	keys := slices.Sorted(maps.Keys(refs))
	for _, key := range keys {
		b.deps.Set(key, refs[key])
	}
	return b
}

// Dep declares a single named dependency after those already declared.
func (b *Builder[T]) Dep(key string, ref Ref) *Builder[T] {
	b.deps.Set(key, ref)
	return b
}

// Init sets the derivation of extra state. A later call replaces an earlier
// one.
func (b *Builder[T]) Init(fn InitFunc) *Builder[T] {
	b.init = fn
	return b
}

// Parallel resolves the declared dependencies concurrently. Only use it when
// constructing them has no ordering side effects between each other.
func (b *Builder[T]) Parallel() *Builder[T] {
	b.parallel = true
	return b
}

// Implements finishes the declaration. The Injectable keeps a snapshot of
// the builder, so later builder calls do not change it.
func (b *Builder[T]) Implements(impl Implementation[T]) *Injectable[T] {
	return &Injectable[T]{
		reference: b.reference,
		deps:      b.deps.Clone(),
		init:      b.init,
		parallel:  b.parallel,
		impl:      impl,
	}
}

// Injectable pairs a reference with the deferred construction of its value.
type Injectable[T any] struct {
	reference Reference[T]
	deps      *ordered.Map[string, Ref]
	init      InitFunc
	parallel  bool
	impl      Implementation[T]
}

// Bind makes an Injectable straight from a factory, for values that declare
// no dependencies of their own.
func Bind[T any](ref Reference[T], fn func(ctx context.Context, d *Dock) (T, error)) *Injectable[T] {
	if fn == nil {
		return &Injectable[T]{reference: ref, deps: ordered.New[string, Ref]()}
	}

	return NewInjectable(ref).Implements(
		func(env *Env) (T, error) {
			d, ok := env.Dock()
			if !ok {
				var zero T
				return zero, errDockUnavailable(ref.Name())
			}
			return fn(env.Context(), d)
		},
	)
}

// Value makes an Injectable that always yields v.
func Value[T any](ref Reference[T], v T) *Injectable[T] {
	return NewInjectable(ref).Implements(
		func(*Env) (T, error) {
			return v, nil
		},
	)
}

func (i *Injectable[T]) Reference() Reference[T] {
	return i.reference
}

// Factory constructs the value against d: every declared dependency is
// resolved through d in declaration order, Init runs, then the
// implementation. The first failing dependency aborts construction.
func (i *Injectable[T]) Factory(ctx context.Context, d *Dock) (T, error) {
	var zero T

	if d == nil {
		return zero, errInvalidArgument("expected a Dock", d)
	}

	deps, err := i.resolve(ctx, d)
	if err != nil {
		return zero, err
	}

	return i.build(ctx, deps, d, d)
}

// Instantiate constructs the value from already resolved dependencies, with
// no Dock involved. Resolutions through the Env fail with
// ErrCodeDockUnavailable.
func (i *Injectable[T]) Instantiate(ctx context.Context, deps Values) (T, error) {
	return i.build(ctx, maps.Clone(deps), detached{}, nil)
}

func (i *Injectable[T]) BindingReference() Ref {
	return i.reference
}

func (i *Injectable[T]) BindingFactory() Factory {
	if i.impl == nil {
		return nil
	}

	return func(ctx context.Context, d *Dock) (any, error) {
		return i.Factory(ctx, d)
	}
}

// Dependencies returns the declared references in declaration order.
func (i *Injectable[T]) Dependencies() []Ref {
	return i.deps.Values()
}

func (i *Injectable[T]) resolve(ctx context.Context, d *Dock) (Values, error) {
	keys := i.deps.Keys()
	refs := i.deps.Values()
	values := make([]any, len(refs))

	if i.parallel {
		// Sibling goroutines do not share a resolution path, so a cycle
		// between them would join each other's construction and block.
		if declared, err := keysOf(refs); err == nil {
			if cycle := d.internal.CycleFrom(declared); cycle != nil {
				return nil, errCircularDependency(cycle)
			}
		}

		errs := make([]error, len(refs))
		g, gctx := errgroup.WithContext(ctx)
		for n, ref := range refs {
			g.Go(
				func() error {
					values[n], errs[n] = d.Resolve(gctx, ref)
					return errs[n]
				},
			)
		}
		_ = g.Wait()

		for n, err := range errs {
			if err != nil {
				return nil, errDependencyFailed(keys[n], err)
			}
		}
	} else {
		for n, ref := range refs {
			v, err := d.Resolve(ctx, ref)
			if err != nil {
				return nil, errDependencyFailed(keys[n], err)
			}
			values[n] = v
		}
	}

	resolved := make(Values, len(keys))
	for n, key := range keys {
		resolved[key] = values[n]
	}
	return resolved, nil
}

func (i *Injectable[T]) build(ctx context.Context, deps Values, r Resolver, d *Dock) (T, error) {
	var zero T

	if i.impl == nil {
		return zero, errInvalidArgument("expected an Injectable with an implementation", i).WithReference(i.reference.Name())
	}
	if deps == nil {
		deps = Values{}
	}

	if i.init != nil {
		state, err := i.init(ctx, maps.Clone(deps))
		if err != nil {
			return zero, err
		}
		maps.Copy(deps, state)
	}

	return i.impl(
		&Env{
			ctx:      ctx,
			values:   deps,
			resolver: r,
			dock:     d,
		},
	)
}

type detached struct{}

func (detached) Resolve(_ context.Context, ref Ref) (any, error) {
	name := ""
	if ref != nil {
		name = ref.Name()
	}
	return nil, errDockUnavailable(name)
}

func (detached) Has(Ref) bool {
	return false
}
