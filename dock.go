package aquinas

import (
	"context"
	"errors"
	"log/slog"

	"github.com/danpasecinic/aquinas/internal/container"
	"github.com/danpasecinic/aquinas/internal/reflect"
)

// Factory constructs the value bound to a reference. d is the Dock doing the
// resolution, which after Merge or Clone is not the Dock the factory was
// first registered on. Nested resolutions must use ctx.
type Factory func(ctx context.Context, d *Dock) (any, error)

// Bindable is anything Register accepts: a reference, the factory that
// constructs it and the references the factory declares it will resolve.
// *Injectable is the usual implementation.
type Bindable interface {
	BindingReference() Ref
	BindingFactory() Factory
	Dependencies() []Ref
}

// Dock holds reference bindings and their singleton instances. Each
// reference is constructed at most once per Dock, on first resolution. A
// Dock is safe for concurrent use.
//
// Circular dependencies are reported when one resolution runs into itself.
// Warm and Parallel Injectables reject cycles in the declared dependencies
// before resolving concurrently. A cycle split between independent
// concurrent callers, or between undeclared Env lookups running on separate
// goroutines, is not detected and blocks those callers; run Validate first
// when that can happen.
type Dock struct {
	internal *container.Container[*Dock]
	config   *dockConfig
}

type dockConfig struct {
	logger     *slog.Logger
	onResolve  []ResolveHook
	onRegister []RegisterHook
}

func New(opts ...Option) *Dock {
	cfg := &dockConfig{
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return newDock(cfg)
}

func newDock(cfg *dockConfig) *Dock {
	d := &Dock{config: cfg}

	internalCfg := &container.Config[*Dock]{
		Owner:  d,
		Logger: cfg.logger,
	}
	for _, hook := range cfg.onResolve {
		internalCfg.OnResolve = append(internalCfg.OnResolve, container.ResolveHook(hook))
	}
	for _, hook := range cfg.onRegister {
		internalCfg.OnRegister = append(internalCfg.OnRegister, container.RegisterHook(hook))
	}

	d.internal = container.New(internalCfg)
	return d
}

// Clone returns a new Dock with the options and bindings of source and an
// empty singleton table. Constructing a value in either Dock never affects
// the other.
func Clone(source *Dock) (*Dock, error) {
	if source == nil {
		return nil, errInvalidArgument("expected a Dock to clone", source)
	}

	cfg := *source.config
	d := newDock(&cfg)
	if err := d.Merge(source); err != nil {
		return nil, err
	}
	return d, nil
}

type binding struct {
	key     container.Key
	factory Factory
	deps    []container.Key
}

func bindingOf(item Bindable) (binding, error) {
	if reflect.IsNil(item) {
		return binding{}, errInvalidArgument("expected an Injectable", item)
	}

	key, err := keyOf(item.BindingReference())
	if err != nil {
		return binding{}, errInvalidArgument("expected an Injectable with a well-formed Reference", item.BindingReference())
	}

	factory := item.BindingFactory()
	if factory == nil {
		return binding{}, errInvalidArgument("expected an Injectable with a factory", item).WithReference(key.Name)
	}

	deps, err := keysOf(item.Dependencies())
	if err != nil {
		return binding{}, err
	}

	return binding{key: key, factory: factory, deps: deps}, nil
}

func keysOf(refs []Ref) ([]container.Key, error) {
	keys := make([]container.Key, 0, len(refs))
	for _, ref := range refs {
		key, err := keyOf(ref)
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func (d *Dock) bind(b binding) {
	d.internal.Bind(b.key, container.ProviderFunc[*Dock](b.factory), b.deps)
}

// Register binds every item to its own reference. Items are checked before
// any is bound, so a malformed item leaves the Dock unchanged. Registering a
// reference that is already bound replaces the binding and drops its
// instance.
func (d *Dock) Register(items ...Bindable) error {
	bindings := make([]binding, 0, len(items))
	for _, item := range items {
		b, err := bindingOf(item)
		if err != nil {
			return err
		}
		bindings = append(bindings, b)
	}

	for _, b := range bindings {
		d.bind(b)
	}
	return nil
}

// Merge copies the bindings of every source into d, as if each had been
// registered on d in the source's registration order. Later sources win.
// Instances are never copied.
func (d *Dock) Merge(sources ...*Dock) error {
	for _, source := range sources {
		if source == nil {
			return errInvalidArgument("expected a Dock to merge", source)
		}
	}

	for _, source := range sources {
		if err := d.internal.Merge(source.internal); err != nil {
			var inconsistent *container.InconsistentError
			if errors.As(err, &inconsistent) {
				return errMergeInconsistent(inconsistent.Key.Name)
			}
			return err
		}
		d.config.logger.Debug("merged dock", "count", source.internal.Size())
	}
	return nil
}

// Delete unbinds ref and drops its instance. Deleting a reference that is
// not bound does nothing.
func (d *Dock) Delete(ref Ref) error {
	key, err := keyOf(ref)
	if err != nil {
		return err
	}

	d.internal.Unbind(key)
	return nil
}

// Resolve returns the singleton bound to ref, constructing it on first use.
func (d *Dock) Resolve(ctx context.Context, ref Ref) (any, error) {
	key, err := keyOf(ref)
	if err != nil {
		return nil, err
	}

	instance, err := d.internal.Resolve(ctx, key)
	if err != nil {
		return nil, translate(key.Name, err)
	}
	return instance, nil
}

// ResolveAll resolves a named set of references into a same-shaped set of
// values. The first failure aborts the whole call.
func (d *Dock) ResolveAll(ctx context.Context, refs Refs) (Values, error) {
	return ResolveReferences(ctx, refs, d)
}

// ResolveEach resolves refs in order. The first failure aborts the whole
// call.
func (d *Dock) ResolveEach(ctx context.Context, refs ...Ref) ([]any, error) {
	values := make([]any, 0, len(refs))
	for _, ref := range refs {
		v, err := d.Resolve(ctx, ref)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

// Find resolves every bound reference matching pred, in registration order.
// References that fail to resolve are skipped.
func (d *Dock) Find(ctx context.Context, pred func(ref Ref) bool) []any {
	var found []any
	for _, ref := range d.References() {
		if !pred(ref) {
			continue
		}

		v, err := d.Resolve(ctx, ref)
		if err != nil {
			d.config.logger.Debug("skipping reference in find", "reference", ref.Name(), "error", err)
			continue
		}
		found = append(found, v)
	}
	return found
}

func (d *Dock) Has(ref Ref) bool {
	key, err := keyOf(ref)
	if err != nil {
		return false
	}
	return d.internal.Has(key)
}

// References returns every bound reference in registration order.
func (d *Dock) References() []Ref {
	keys := d.internal.Keys()
	refs := make([]Ref, len(keys))
	for i, key := range keys {
		refs[i] = NewReference[any](key.Name)
	}
	return refs
}

func (d *Dock) Size() int {
	return d.internal.Size()
}
