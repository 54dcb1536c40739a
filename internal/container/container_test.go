package container

import (
	"context"
	"errors"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
)

type owner struct {
	name string
}

func key(name string) Key {
	return Key{ID: uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)), Name: name}
}

func value(v any) ProviderFunc[*owner] {
	return func(ctx context.Context, o *owner) (any, error) {
		return v, nil
	}
}

func newTestContainer(name string) *Container[*owner] {
	return New(&Config[*owner]{Owner: &owner{name: name}})
}

func TestContainer_BindAndResolve(t *testing.T) {
	t.Parallel()

	c := newTestContainer("main")
	c.Bind(key("config"), value(map[string]string{"port": "8080"}), nil)

	instance, err := c.Resolve(context.Background(), key("config"))
	if err != nil {
		t.Fatalf("failed to resolve: %v", err)
	}

	cfg, ok := instance.(map[string]string)
	if !ok {
		t.Fatal("expected map[string]string")
	}
	if cfg["port"] != "8080" {
		t.Errorf("expected port 8080, got %s", cfg["port"])
	}
}

func TestContainer_ResolveIsSingleton(t *testing.T) {
	t.Parallel()

	c := newTestContainer("main")

	var calls atomic.Int32
	c.Bind(
		key("cache"), func(ctx context.Context, o *owner) (any, error) {
			calls.Add(1)
			return &[]string{}, nil
		}, nil,
	)

	first, _ := c.Resolve(context.Background(), key("cache"))
	second, _ := c.Resolve(context.Background(), key("cache"))

	if first != second {
		t.Error("expected the same instance on every resolve")
	}
	if calls.Load() != 1 {
		t.Errorf("expected provider to run once, ran %d times", calls.Load())
	}
}

func TestContainer_ProviderReceivesOwner(t *testing.T) {
	t.Parallel()

	c := newTestContainer("main")
	c.Bind(
		key("who"), func(ctx context.Context, o *owner) (any, error) {
			return o.name, nil
		}, nil,
	)

	got, err := c.Resolve(context.Background(), key("who"))
	if err != nil {
		t.Fatalf("failed to resolve: %v", err)
	}
	if got != "main" {
		t.Errorf("expected owner main, got %v", got)
	}
}

func TestContainer_NotFound(t *testing.T) {
	t.Parallel()

	c := newTestContainer("main")

	_, err := c.Resolve(context.Background(), key("missing"))

	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if notFound.Key.Name != "missing" {
		t.Errorf("expected key missing, got %s", notFound.Key.Name)
	}
}

func TestContainer_ProviderError(t *testing.T) {
	t.Parallel()

	c := newTestContainer("main")
	boom := errors.New("boom")

	var calls int
	c.Bind(
		key("broken"), func(ctx context.Context, o *owner) (any, error) {
			calls++
			return nil, boom
		}, nil,
	)

	_, err := c.Resolve(context.Background(), key("broken"))

	var providerErr *ProviderError
	if !errors.As(err, &providerErr) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if !errors.Is(err, boom) {
		t.Error("expected cause to be preserved")
	}

	if _, err := c.Resolve(context.Background(), key("broken")); err == nil {
		t.Error("expected failures not to be cached as instances")
	}
	if calls != 2 {
		t.Errorf("expected a failed provider to be retried, ran %d times", calls)
	}
}

func TestContainer_CircularResolution(t *testing.T) {
	t.Parallel()

	c := newTestContainer("main")

	c.Bind(
		key("A"), func(ctx context.Context, o *owner) (any, error) {
			return c.Resolve(ctx, key("B"))
		}, []Key{key("B")},
	)
	c.Bind(
		key("B"), func(ctx context.Context, o *owner) (any, error) {
			return c.Resolve(ctx, key("A"))
		}, []Key{key("A")},
	)

	_, err := c.Resolve(context.Background(), key("A"))

	var cycle *CycleError
	if !errors.As(err, &cycle) {
		t.Fatalf("expected CycleError in chain, got %v", err)
	}
	if !slices.Equal(cycle.Chain, []string{"A", "B", "A"}) {
		t.Errorf("expected chain [A B A], got %v", cycle.Chain)
	}
}

func TestContainer_RebindEvictsInstance(t *testing.T) {
	t.Parallel()

	c := newTestContainer("main")
	c.Bind(key("value"), value("v1"), nil)

	got, _ := c.Resolve(context.Background(), key("value"))
	if got != "v1" {
		t.Fatalf("expected v1, got %v", got)
	}

	c.Bind(key("value"), value("v2"), nil)

	if _, built := c.Instance(key("value")); built {
		t.Error("rebind should evict the cached instance")
	}

	got, _ = c.Resolve(context.Background(), key("value"))
	if got != "v2" {
		t.Errorf("expected v2, got %v", got)
	}
	if c.Size() != 1 {
		t.Errorf("expected one reference, got %d", c.Size())
	}
}

func TestContainer_Unbind(t *testing.T) {
	t.Parallel()

	c := newTestContainer("main")
	c.Bind(key("value"), value("v1"), nil)
	_, _ = c.Resolve(context.Background(), key("value"))

	c.Unbind(key("value"))
	c.Unbind(key("never-bound"))

	if c.Has(key("value")) {
		t.Error("expected value to be unbound")
	}
	if c.Graph().Has("value") {
		t.Error("expected graph node to be removed")
	}

	_, err := c.Resolve(context.Background(), key("value"))
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Errorf("expected NotFoundError after unbind, got %v", err)
	}
}

func TestContainer_Merge(t *testing.T) {
	t.Parallel()

	a := newTestContainer("a")
	a.Bind(key("shared"), value("from-a"), nil)
	a.Bind(key("only-a"), value("a"), nil)

	b := newTestContainer("b")
	b.Bind(
		key("shared"), func(ctx context.Context, o *owner) (any, error) {
			return "from-b@" + o.name, nil
		}, nil,
	)

	target := newTestContainer("target")
	if err := target.Merge(a); err != nil {
		t.Fatalf("merge a failed: %v", err)
	}
	if err := target.Merge(b); err != nil {
		t.Fatalf("merge b failed: %v", err)
	}

	got, err := target.Resolve(context.Background(), key("shared"))
	if err != nil {
		t.Fatalf("failed to resolve: %v", err)
	}
	if got != "from-b@target" {
		t.Errorf("expected later source constructed against target, got %v", got)
	}

	keys := target.Keys()
	if len(keys) != 2 || keys[0].Name != "shared" || keys[1].Name != "only-a" {
		t.Errorf("expected [shared only-a], got %v", keys)
	}

	if _, built := b.Instance(key("shared")); built {
		t.Error("merge must not construct or share instances with the source")
	}
}

func TestContainer_MergeInconsistentSource(t *testing.T) {
	t.Parallel()

	source := newTestContainer("source")
	source.registry.references.Set(key("orphan").ID, key("orphan"))

	target := newTestContainer("target")
	err := target.Merge(source)

	var inconsistent *InconsistentError
	if !errors.As(err, &inconsistent) {
		t.Fatalf("expected InconsistentError, got %v", err)
	}
	if inconsistent.Key.Name != "orphan" {
		t.Errorf("expected orphan, got %s", inconsistent.Key.Name)
	}
}

func TestContainer_ConcurrentResolveConstructsOnce(t *testing.T) {
	t.Parallel()

	c := newTestContainer("main")

	var calls atomic.Int32
	c.Bind(
		key("slow"), func(ctx context.Context, o *owner) (any, error) {
			calls.Add(1)
			time.Sleep(20 * time.Millisecond)
			return &struct{ n int }{}, nil
		}, nil,
	)

	const workers = 16
	results := make([]any, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], _ = c.Resolve(context.Background(), key("slow"))
		}()
	}
	wg.Wait()

	if calls.Load() != 1 {
		t.Errorf("expected one construction, got %d", calls.Load())
	}
	for i, r := range results {
		if r != results[0] {
			t.Fatalf("worker %d got a different instance", i)
		}
	}
}

func TestContainer_RebindDuringConstructionIsNotCached(t *testing.T) {
	t.Parallel()

	c := newTestContainer("main")

	started := make(chan struct{})
	release := make(chan struct{})
	c.Bind(
		key("value"), func(ctx context.Context, o *owner) (any, error) {
			close(started)
			<-release
			return "stale", nil
		}, nil,
	)

	done := make(chan any)
	go func() {
		v, _ := c.Resolve(context.Background(), key("value"))
		done <- v
	}()

	<-started
	c.Bind(key("value"), value("fresh"), nil)
	close(release)

	if got := <-done; got != "stale" {
		t.Errorf("expected in-flight caller to receive stale, got %v", got)
	}

	got, _ := c.Resolve(context.Background(), key("value"))
	if got != "fresh" {
		t.Errorf("expected fresh after rebind, got %v", got)
	}
}

func TestContainer_ResolveHooks(t *testing.T) {
	t.Parallel()

	var resolved []string
	var registered []string
	c := New(
		&Config[*owner]{
			Owner: &owner{},
			OnResolve: []ResolveHook{
				func(name string, d time.Duration, err error) {
					resolved = append(resolved, name)
				},
			},
			OnRegister: []RegisterHook{
				func(name string) {
					registered = append(registered, name)
				},
			},
		},
	)

	c.Bind(key("a"), value(1), nil)
	_, _ = c.Resolve(context.Background(), key("a"))
	_, _ = c.Resolve(context.Background(), key("missing"))

	if !slices.Equal(registered, []string{"a"}) {
		t.Errorf("expected register hook for a, got %v", registered)
	}
	if !slices.Equal(resolved, []string{"a", "missing"}) {
		t.Errorf("expected resolve hooks [a missing], got %v", resolved)
	}
}
