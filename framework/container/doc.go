// Package container provides a lifetime-aware dependency container and a
// Service Provider system for Go.
//
// # Overview
//
// Services are registered under a Key with a Lifetime and a Factory. Go has
// no runtime constructor reflection worth relying on, so auto-wiring is
// replaced by explicit factories that resolve their own dependencies:
//
//	c.Bind(servicesKey, func(r container.Resolver) (any, error) {
//	    log, err := container.Resolve[logging.OutputLogger](r, logging.Key)
//	    if err != nil {
//	        return nil, err
//	    }
//	    return services.New(log), nil
//	})
//
// The dependency graph is therefore a plain call graph. A factory that ends
// up resolving a key already being built fails with a
// *CircularDependencyError naming the chain.
//
// # Container Lifecycle
//
//  1. Create: c := container.New()
//  2. Register providers: registry.Register(&MyProvider{})
//  3. Boot: registry.Boot()        (safe to resolve everything after this)
//  4. Serve requests, one Scope each
//  5. Close: c.Close()             (releases singletons)
//
// # Lifetimes
//
//	// Transient: new instance every Resolve
//	c.Bind("Foo", factory)
//
//	// Scoped: one instance per Scope
//	c.Scoped("unitOfWork", factory)
//
//	// Singleton: created once on first Resolve, reused everywhere
//	c.Singleton("cache", factory)
//
//	// SingletonInstance: built now, reused everywhere
//	c.Instance("config", cfg)
//	c.InstanceFunc("clock", func() any { return clock.New() })
//
// # Scopes
//
//	scope := c.NewScope()
//	defer scope.Dispose()
//
//	uow, err := container.Resolve[*UnitOfWork](scope, "unitOfWork")
//
// Dispose releases every scoped instance that implements Releaser or
// io.Closer. Resolving from a disposed scope fails with a
// *ScopeDisposedError.
//
// # Multi-bind
//
// Registering several factories under one key keeps all of them. Resolve
// returns the last one; ResolveAll returns one instance per registration in
// registration order, and an empty slice when the key is unknown.
//
//	c.Instance("plugin", alpha)
//	c.Instance("plugin", beta)
//	plugins, _ := container.ResolveAll[Plugin](scope, "plugin")  // [alpha beta]
//
// # Service Providers
//
//	type AppServiceProvider struct{ container.BaseProvider }
//
//	func (p *AppServiceProvider) Register(app *container.Container) {
//	    app.Singleton("mailer", func(r container.Resolver) (any, error) {
//	        cfg, err := container.Resolve[*config.Config](r, "config")
//	        if err != nil {
//	            return nil, err
//	        }
//	        return mail.NewSMTP(cfg.Mail), nil
//	    })
//	}
//
//	registry := container.NewProviderRegistry(c)
//	registry.Register(&AppServiceProvider{})
//	registry.Boot()
package container
