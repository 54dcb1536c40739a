package aquinas_test

import (
	"context"
	"testing"

	"github.com/danpasecinic/aquinas"
)

func TestOverride(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run(
		"discards the cached instance", func(t *testing.T) {
			t.Parallel()

			d := aquinas.New()
			_ = d.Register(configInjectable(1))
			before := aquinas.MustGet(ctx, d, ConfigRef)

			if err := d.Override(ConfigRef, configInjectable(2)); err != nil {
				t.Fatalf("Override failed: %v", err)
			}

			after := aquinas.MustGet(ctx, d, ConfigRef)
			if after == before {
				t.Fatal("expected a fresh instance after Override")
			}
			if after.Port != 2 {
				t.Errorf("expected port 2, got %d", after.Port)
			}
		},
	)

	t.Run(
		"with a factory", func(t *testing.T) {
			t.Parallel()

			d := aquinas.New()
			_ = d.Register(configInjectable(1))

			err := d.Override(
				ConfigRef, aquinas.Factory(
					func(ctx context.Context, d *aquinas.Dock) (any, error) {
						return &Config{Port: 3}, nil
					},
				),
			)
			if err != nil {
				t.Fatalf("Override failed: %v", err)
			}
			if got := aquinas.MustGet(ctx, d, ConfigRef).Port; got != 3 {
				t.Errorf("expected port 3, got %d", got)
			}
		},
	)

	t.Run(
		"with a plain function", func(t *testing.T) {
			t.Parallel()

			d := aquinas.New()
			err := d.Override(
				ConfigRef, func(ctx context.Context, d *aquinas.Dock) (any, error) {
					return &Config{Port: 4}, nil
				},
			)
			if err != nil {
				t.Fatalf("Override failed: %v", err)
			}
			if got := aquinas.MustGet(ctx, d, ConfigRef).Port; got != 4 {
				t.Errorf("expected override of an unbound reference to bind it, got %d", got)
			}
		},
	)

	t.Run(
		"target reference wins", func(t *testing.T) {
			t.Parallel()

			other := aquinas.NewReference[*Config]("OtherConfig")
			d := aquinas.New()
			_ = d.Register(configInjectable(1))

			if err := d.Override(ConfigRef, aquinas.Value(other, &Config{Port: 5})); err != nil {
				t.Fatalf("Override failed: %v", err)
			}
			if d.Has(other) {
				t.Error("the injectable's own reference must not be bound")
			}
			if got := aquinas.MustGet(ctx, d, ConfigRef).Port; got != 5 {
				t.Errorf("expected port 5, got %d", got)
			}
		},
	)

	t.Run(
		"dependents keep their instance", func(t *testing.T) {
			t.Parallel()

			d := aquinas.New()
			_ = d.Register(configInjectable(1), repoInjectable, serviceInjectable)
			svc := aquinas.MustGet(ctx, d, ServiceRef)

			_ = aquinas.OverrideValue(d, ConfigRef, &Config{Port: 9})

			if aquinas.MustGet(ctx, d, ServiceRef) != svc {
				t.Error("overriding a dependency must not rebuild its dependents")
			}
			if aquinas.MustGet(ctx, d, ConfigRef).Port != 9 {
				t.Error("expected the overridden value")
			}
		},
	)

	t.Run(
		"rejects anything else", func(t *testing.T) {
			t.Parallel()

			d := aquinas.New()
			var nilInjectable *aquinas.Injectable[*Config]
			var nilFactory aquinas.Factory
			var zero aquinas.Reference[*Config]

			cases := map[string]error{
				"string":         d.Override(ConfigRef, "not a factory"),
				"wrong func":     d.Override(ConfigRef, func() *Config { return nil }),
				"nil":            d.Override(ConfigRef, nil),
				"nil injectable": d.Override(ConfigRef, nilInjectable),
				"nil factory":    d.Override(ConfigRef, nilFactory),
				"zero reference": d.Override(zero, configInjectable(1)),
			}
			for name, err := range cases {
				if !aquinas.IsInvalidArgument(err) {
					t.Errorf("%s: expected invalid argument, got %v", name, err)
				}
			}
			if d.Size() != 0 {
				t.Errorf("expected nothing bound, got %d", d.Size())
			}
		},
	)
}

func TestOverrideFunc(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	d := aquinas.New()
	_ = d.Register(configInjectable(1))

	err := aquinas.OverrideFunc(
		d, ConfigRef, func(ctx context.Context, d *aquinas.Dock) (*Config, error) {
			return &Config{Port: 6}, nil
		},
	)
	if err != nil {
		t.Fatalf("OverrideFunc failed: %v", err)
	}
	if got := aquinas.MustGet(ctx, d, ConfigRef).Port; got != 6 {
		t.Errorf("expected port 6, got %d", got)
	}

	if err := aquinas.OverrideFunc[*Config](d, ConfigRef, nil); !aquinas.IsInvalidArgument(err) {
		t.Errorf("expected invalid argument for nil func, got %v", err)
	}
}
