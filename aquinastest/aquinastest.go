// Package aquinastest provides a Dock wrapper for tests that fails the test
// instead of returning errors.
package aquinastest

import (
	"context"

	"github.com/danpasecinic/aquinas"
)

type TB interface {
	Helper()
	Fatal(args ...any)
	Fatalf(format string, args ...any)
	Cleanup(f func())
}

type TestDock struct {
	*aquinas.Dock
	tb TB
}

func New(tb TB, opts ...aquinas.Option) *TestDock {
	tb.Helper()

	return &TestDock{
		Dock: aquinas.New(opts...),
		tb:   tb,
	}
}

// Fork clones source for one test, so overrides made by that test stay
// local to it. The clone is validated when the test ends.
func Fork(tb TB, source *aquinas.Dock) *TestDock {
	tb.Helper()

	d, err := aquinas.Clone(source)
	if err != nil {
		tb.Fatalf("failed to clone dock: %v", err)
	}

	td := &TestDock{Dock: d, tb: tb}
	tb.Cleanup(
		func() {
			if err := d.Validate(); err != nil {
				tb.Fatalf("forked dock is no longer valid: %v", err)
			}
		},
	)
	return td
}

func (td *TestDock) MustRegister(items ...aquinas.Bindable) {
	td.tb.Helper()

	if err := td.Register(items...); err != nil {
		td.tb.Fatalf("failed to register: %v", err)
	}
}

func (td *TestDock) RequireValidate() {
	td.tb.Helper()

	if err := td.Validate(); err != nil {
		td.tb.Fatalf("dock validation failed: %v", err)
	}
}

func (td *TestDock) RequireWarm(ctx context.Context) {
	td.tb.Helper()

	if err := td.Warm(ctx); err != nil {
		td.tb.Fatalf("failed to warm dock: %v", err)
	}
}

func MustGet[T any](td *TestDock, ref aquinas.Reference[T]) T {
	td.tb.Helper()

	v, err := aquinas.Get(context.Background(), td.Dock, ref)
	if err != nil {
		td.tb.Fatalf("failed to get %s: %v", ref, err)
	}
	return v
}

// Override rebinds ref to value.
func Override[T any](td *TestDock, ref aquinas.Reference[T], value T) {
	td.tb.Helper()

	if err := aquinas.OverrideValue(td.Dock, ref, value); err != nil {
		td.tb.Fatalf("failed to override %s: %v", ref, err)
	}
}

func OverrideFunc[T any](td *TestDock, ref aquinas.Reference[T], fn func(ctx context.Context, d *aquinas.Dock) (T, error)) {
	td.tb.Helper()

	if err := aquinas.OverrideFunc(td.Dock, ref, fn); err != nil {
		td.tb.Fatalf("failed to override %s: %v", ref, err)
	}
}

func AssertBound(td *TestDock, ref aquinas.Ref) {
	td.tb.Helper()

	if !td.Has(ref) {
		td.tb.Fatalf("expected dock to bind %s", ref.Name())
	}
}

func AssertNotBound(td *TestDock, ref aquinas.Ref) {
	td.tb.Helper()

	if td.Has(ref) {
		td.tb.Fatalf("expected dock to not bind %s", ref.Name())
	}
}

// AssertFails fails the test unless resolving ref fails.
func AssertFails(td *TestDock, ref aquinas.Ref) error {
	td.tb.Helper()

	_, err := td.Resolve(context.Background(), ref)
	if err == nil {
		td.tb.Fatalf("expected resolving %s to fail", ref.Name())
	}
	return err
}
