package container

import (
	"fmt"
	"reflect"
	"slices"
	"sync"
)

// Key identifies a requested service, typically an interface contract.
type Key string

// TypeKey returns the package-qualified name of T, useful as a stable key
// for interfaces.
//
//	key := container.TypeKey[UserRepository]()  // "example.com/app.UserRepository"
//	c.Scoped(key, factory)
func TypeKey[T any]() Key {
	t := reflect.TypeOf((*T)(nil)).Elem()
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return Key(t.PkgPath() + "." + t.Name())
}

// Factory builds an instance. Dependencies are resolved through r, which
// carries the in-progress chain so a cycle is reported from its first key.
// A factory that instead resolves through a captured *Container or *Scope
// is still stopped on re-entry into a factory already running on the same
// goroutine, with a shorter chain in the error.
type Factory func(r Resolver) (any, error)

// Registration binds a key to a lifetime and a factory. It is immutable once
// Register returns.
type Registration struct {
	Key      Key
	Lifetime Lifetime
	Factory  Factory

	// seq is unique per Container and orders registrations; instance caches
	// are keyed by it so multi-bound registrations never share an instance.
	seq uint64
}

// Registry maps keys to their registrations in registration order.
// Safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[Key][]*Registration
	aliases map[Key]Key
	seq     uint64
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[Key][]*Registration),
		aliases: make(map[Key]Key),
	}
}

// Register appends a registration for key. Earlier registrations under the
// same key stay available to LookupAll.
func (r *Registry) Register(key Key, lifetime Lifetime, factory Factory) (*Registration, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}
	if factory == nil {
		return nil, fmt.Errorf("%w for [%s]", ErrNilFactory, key)
	}
	if !lifetime.valid() {
		return nil, fmt.Errorf("%w %s for [%s]", ErrInvalidLifetime, lifetime, key)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	reg := &Registration{Key: r.canonical(key), Lifetime: lifetime, Factory: factory, seq: r.seq}
	r.entries[reg.Key] = append(r.entries[reg.Key], reg)
	return reg, nil
}

// Alias makes alias resolve to key's registrations. It panics if alias
// equals key or already has registrations of its own, which the alias
// would otherwise hide.
func (r *Registry) Alias(key, alias Key) {
	if key == alias {
		panic(fmt.Sprintf("container: [%s] is aliased to itself", key))
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.entries[alias]) > 0 {
		panic(fmt.Sprintf("container: cannot alias [%s] to [%s]: [%s] has registrations", alias, key, alias))
	}
	r.aliases[alias] = r.canonical(key)
}

// Lookup returns every registration under key, or an
// *UnregisteredServiceError when there are none.
func (r *Registry) Lookup(key Key) ([]*Registration, error) {
	regs := r.LookupAll(key)
	if len(regs) == 0 {
		return nil, &UnregisteredServiceError{Key: key}
	}
	return regs, nil
}

// LookupAll returns every registration under key; empty when none.
func (r *Registry) LookupAll(key Key) []*Registration {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.entries[r.canonical(key)])
}

// Bound reports whether key has at least one registration.
func (r *Registry) Bound(key Key) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries[r.canonical(key)]) > 0
}

// Keys returns all registered keys, sorted.
func (r *Registry) Keys() []Key {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Key, 0, len(r.entries))
	for k := range r.entries {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// remove drops a registration; used when an eager SingletonInstance build fails.
func (r *Registry) remove(reg *Registration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	regs := r.entries[reg.Key]
	if i := slices.Index(regs, reg); i >= 0 {
		regs = slices.Delete(regs, i, i+1)
	}
	if len(regs) == 0 {
		delete(r.entries, reg.Key)
		return
	}
	r.entries[reg.Key] = regs
}

// canonical resolves an alias to its key (caller holds mu).
func (r *Registry) canonical(key Key) Key {
	if target, ok := r.aliases[key]; ok {
		return target
	}
	return key
}
