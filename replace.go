package aquinas

import (
	"context"

	"github.com/danpasecinic/aquinas/internal/reflect"
)

// Override rebinds ref. with is a Bindable, a Factory or a plain
// func(context.Context, *Dock) (any, error). A Bindable's own reference is
// ignored: ref is always the slot that gets rebound. The previous instance,
// if any, is discarded.
func (d *Dock) Override(ref Ref, with any) error {
	key, err := keyOf(ref)
	if err != nil {
		return err
	}

	b := binding{key: key}
	switch w := with.(type) {
	case Factory:
		b.factory = w
	case func(context.Context, *Dock) (any, error):
		b.factory = w
	case Bindable:
		if reflect.IsNil(w) {
			return errInvalidArgument("expected an Injectable or a factory", with)
		}
		b.factory = w.BindingFactory()
		if b.deps, err = keysOf(w.Dependencies()); err != nil {
			return err
		}
	default:
		return errInvalidArgument("expected an Injectable or a factory", with)
	}

	if b.factory == nil {
		return errInvalidArgument("expected an Injectable or a factory", with).WithReference(key.Name)
	}

	d.bind(b)
	return nil
}

// OverrideFunc is the typed form of Override for a bare factory.
func OverrideFunc[T any](d *Dock, ref Reference[T], fn func(ctx context.Context, d *Dock) (T, error)) error {
	if fn == nil {
		return errInvalidArgument("expected a factory", fn).WithReference(ref.Name())
	}
	return d.Override(ref, Bind(ref, fn))
}

// OverrideValue rebinds ref to an already constructed value.
func OverrideValue[T any](d *Dock, ref Reference[T], value T) error {
	return d.Override(ref, Value(ref, value))
}
