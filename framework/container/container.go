package container

import (
	"errors"
	"fmt"
	"sync/atomic"
)

// SelfKey is the key under which every Container registers itself.
// Resolving through the *Container from inside a factory is allowed: a key
// that re-enters its own running factory that way still fails with a
// *CircularDependencyError, but the reported chain starts at the re-entry
// rather than at the outermost Resolve. Prefer the Resolver the factory
// receives.
const SelfKey Key = "container"

// ── Observer ──────────────────────────────────────────────────────────────────

// Observer receives container events. Implementations must be safe for
// concurrent use and must not call back into the Container.
type Observer interface {
	// Resolved fires after every successful resolution of a registration.
	Resolved(key Key, lifetime Lifetime)
	// Constructed fires when a factory produced a new instance.
	Constructed(key Key, lifetime Lifetime)
	// ScopeOpened and ScopeDisposed bracket every Scope from NewScope.
	ScopeOpened()
	ScopeDisposed()
}

type nopObserver struct{}

func (nopObserver) Resolved(Key, Lifetime)    {}
func (nopObserver) Constructed(Key, Lifetime) {}
func (nopObserver) ScopeOpened()              {}
func (nopObserver) ScopeDisposed()            {}

// ── Container ─────────────────────────────────────────────────────────────────

// Container is the root of a dependency graph. It owns the Registry, the
// singleton store and a root Scope used to build singletons.
//
// It supports:
//   - Register / Bind / Scoped / Singleton / Instance / InstanceFunc / Alias
//   - NewScope, and Resolve / ResolveAll against a Scope
//   - Multi-bind: several registrations under one key, resolved with ResolveAll
//   - Cycle detection across factory-driven dependency chains
//
// Registration and resolution are safe for concurrent use.
type Container struct {
	registry   *Registry
	singletons *singletonStore
	building   *buildTracker
	root       *Scope
	observer   Observer
	closed     atomic.Bool
}

// Option configures a Container.
type Option func(*Container)

// WithObserver installs o to receive resolution and scope events.
func WithObserver(o Observer) Option {
	return func(c *Container) {
		if o != nil {
			c.observer = o
		}
	}
}

// New creates an empty container.
func New(opts ...Option) *Container {
	c := &Container{
		registry:   NewRegistry(),
		singletons: newSingletonStore(),
		building:   newBuildTracker(),
		observer:   nopObserver{},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.root = newScope(c, true)
	// Bind the container to itself so factories can reach it.
	c.Instance(SelfKey, c)
	return c
}

// ── Registration ──────────────────────────────────────────────────────────────

// Register appends a registration for key. Registering a SingletonInstance
// runs factory immediately; if it fails nothing is registered and the
// error is returned.
func (c *Container) Register(key Key, lifetime Lifetime, factory Factory) error {
	reg, err := c.registry.Register(key, lifetime, factory)
	if err != nil {
		return err
	}
	if lifetime != SingletonInstance {
		return nil
	}

	chain := []Key{reg.Key}
	_, _, err = c.singletons.getOrCreate(reg, func() (any, error) {
		return c.root.build(reg, chain)
	})
	if err != nil {
		c.registry.remove(reg)
		return err
	}
	return nil
}

// Bind registers a transient factory: a new instance on every resolution.
//
//	c.Bind("mailer", func(r container.Resolver) (any, error) { return &SMTP{}, nil })
func (c *Container) Bind(key Key, factory Factory) {
	c.mustRegister(key, Transient, factory)
}

// Scoped registers a factory whose result is cached per Scope.
func (c *Container) Scoped(key Key, factory Factory) {
	c.mustRegister(key, Scoped, factory)
}

// Singleton registers a factory whose result is cached container-wide after
// the first resolution.
func (c *Container) Singleton(key Key, factory Factory) {
	c.mustRegister(key, Singleton, factory)
}

// Instance registers a pre-built value.
//
//	c.Instance("config", cfg)
func (c *Container) Instance(key Key, instance any) {
	c.mustRegister(key, SingletonInstance, func(Resolver) (any, error) { return instance, nil })
}

// InstanceFunc registers a SingletonInstance built right now by fn.
func (c *Container) InstanceFunc(key Key, fn func() any) {
	if fn == nil {
		panic(fmt.Sprintf("container: nil instance func for [%s]", key))
	}
	c.mustRegister(key, SingletonInstance, func(Resolver) (any, error) { return fn(), nil })
}

func (c *Container) mustRegister(key Key, lifetime Lifetime, factory Factory) {
	if err := c.Register(key, lifetime, factory); err != nil {
		panic(err)
	}
}

// Alias registers an alternative name for key. Aliasing a name that already
// has registrations panics.
//
//	c.Alias("cache", "cacheManager")
func (c *Container) Alias(key, alias Key) {
	c.registry.Alias(key, alias)
}

// ── Scopes & resolution ───────────────────────────────────────────────────────

// NewScope creates a Scope with an empty cache. The caller must Dispose it.
//
//	scope := c.NewScope()
//	defer scope.Dispose()
func (c *Container) NewScope() *Scope {
	c.observer.ScopeOpened()
	return newScope(c, false)
}

// Resolve resolves key against the root scope. Scoped services resolved this
// way live until Close; prefer a Scope for per-request work.
func (c *Container) Resolve(key Key) (any, error) {
	return c.root.Resolve(key)
}

// ResolveAll resolves every registration under key against the root scope.
func (c *Container) ResolveAll(key Key) ([]any, error) {
	return c.root.ResolveAll(key)
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// Registry exposes the underlying registry.
func (c *Container) Registry() *Registry { return c.registry }

// Bound returns true if key has at least one registration.
func (c *Container) Bound(key Key) bool { return c.registry.Bound(key) }

// Bindings returns all registered keys, sorted (for debugging).
func (c *Container) Bindings() []Key { return c.registry.Keys() }

// Close disposes the root scope and releases every singleton, newest first.
// Further resolution fails with ErrContainerClosed. Calling Close again is a
// no-op.
func (c *Container) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return errors.Join(c.root.Dispose(), c.singletons.release())
}
