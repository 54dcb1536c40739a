// Package aquinas provides a reference-keyed dependency injection runtime for
// Go 1.25+.
//
// Bindings are addressed by References: typed, named handles whose identity
// is the name alone. Implementations declare their own dependencies with a
// builder and are registered on a Dock, which constructs each of them once,
// on first use, and returns the same instance afterwards.
//
// # References
//
// Create references once, usually at package level:
//
//	var (
//	    LoggerRef = aquinas.NewReference[*slog.Logger]("Logger")
//	    RepoRef   = aquinas.NewReference[UserRepository]("UserRepository")
//	)
//
// Two references with the same name address the same slot, even when they
// are created in different packages. Derived references namespace a family
// of bindings:
//
//	CachedRepoRef := aquinas.Derived[UserRepository]("cache", RepoRef) // "cache:UserRepository"
//
// A reference marshals to its bare name in text, JSON and YAML.
//
// # Injectables
//
// Declare dependencies, optional derived state and the implementation:
//
//	var UserService = aquinas.NewInjectable(ServiceRef).
//	    Deps(aquinas.Refs{"repo": RepoRef, "log": LoggerRef}).
//	    Init(func(ctx context.Context, deps aquinas.Values) (aquinas.Values, error) {
//	        return aquinas.Values{"seen": map[string]bool{}}, nil
//	    }).
//	    Implements(func(env *aquinas.Env) (*Service, error) {
//	        return &Service{
//	            repo: aquinas.MustDep[UserRepository](env, "repo"),
//	            seen: aquinas.MustDep[map[string]bool](env, "seen"),
//	        }, nil
//	    })
//
// Nothing runs until the reference is resolved. Dependencies are resolved in
// declaration order and the first failure aborts construction; Parallel
// resolves them concurrently instead. Anything not declared can still be
// reached through env.Get or aquinas.Lookup.
//
// Instantiate builds the value without a Dock, for unit tests:
//
//	svc, err := UserService.Instantiate(ctx, aquinas.Values{"repo": fakeRepo})
//
// For values without dependencies, Bind and Value skip the builder:
//
//	aquinas.Bind(LoggerRef, func(ctx context.Context, d *aquinas.Dock) (*slog.Logger, error) {
//	    return slog.Default(), nil
//	})
//	aquinas.Value(ConfigRef, &Config{Port: 8080})
//
// # Docks
//
//	d := aquinas.New(aquinas.WithLogger(logger))
//	err := d.Register(UserService, UserRepo, Logger)
//
//	svc, err := aquinas.Get(ctx, d, ServiceRef)  // value and error
//	svc := aquinas.MustGet(ctx, d, ServiceRef)   // panics on error
//	opt := aquinas.SafeGet(ctx, d, CacheRef)     // absent on failure
//	vals, err := d.ResolveAll(ctx, aquinas.Refs{"svc": ServiceRef, "log": LoggerRef})
//
// Bindings change with Override, Delete and Merge:
//
//	d.Override(RepoRef, FakeRepo)          // FakeRepo's own reference is ignored
//	aquinas.OverrideValue(d, ConfigRef, testConfig)
//	d.Delete(CacheRef)
//	d.Merge(usersDock, billingDock)        // later docks win
//	clone, err := aquinas.Clone(d)         // same bindings, separate instances
//
// Overriding or deleting a reference discards its instance; the next
// resolution constructs a fresh one.
//
// # Errors
//
// Every failure is an *Error. Failures compose: the error of a service whose
// repository is missing names the service, the dependency key and the
// repository. IsNotFound, IsResolutionFailed, IsCircularDependency and
// IsInvalidArgument inspect the whole chain.
//
// # Introspection
//
//	err := d.Validate()    // missing or circular declared dependencies
//	err := d.Warm(ctx)     // construct everything now, level by level
//	d.PrintGraph()         // table of bindings
//	d.FprintGraphDOT(w)    // Graphviz DOT
//
// # Observers
//
//	d := aquinas.New(
//	    aquinas.WithResolveObserver(func(ref string, d time.Duration, err error) {
//	        metrics.RecordResolve(ref, d, err)
//	    }),
//	    aquinas.WithRegisterObserver(func(ref string) {
//	        metrics.RecordRegister(ref)
//	    }),
//	)
package aquinas
