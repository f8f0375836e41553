package container

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"
)

// Releaser is implemented by instances that hold resources which must be
// freed when their owning Scope (or, for singletons, the Container) ends.
// Instances implementing io.Closer are released the same way.
type Releaser interface {
	Release() error
}

// Scope is a resolution context for one unit of work, typically one HTTP
// request. It caches Scoped instances and releases them on Dispose.
//
// The cache is guarded, so a Scope tolerates concurrent calls, but no lock is
// held while a factory runs: two goroutines resolving the same scoped key for
// the first time may both run the factory. The first instance stored is the
// one every caller gets; the other is released immediately. Give each
// goroutine its own Scope when factories have side effects.
type Scope struct {
	root *Container

	mu       sync.Mutex
	cache    map[uint64]any
	created  []any // scoped instances in construction order
	disposed bool
	isRoot   bool
}

func newScope(root *Container, isRoot bool) *Scope {
	return &Scope{
		root:   root,
		cache:  make(map[uint64]any),
		isRoot: isRoot,
	}
}

// Resolve returns the instance for key's last registration.
//
//	session, err := scope.Resolve("session")
func (s *Scope) Resolve(key Key) (any, error) {
	return s.resolve(key, nil)
}

// ResolveAll returns one instance per registration under key, in
// registration order. An unregistered key yields an empty slice.
func (s *Scope) ResolveAll(key Key) ([]any, error) {
	return s.resolveAll(key, nil)
}

// Disposed reports whether Dispose has been called.
func (s *Scope) Disposed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disposed
}

// Dispose ends the scope. Cached scoped instances become unreachable and
// those implementing Releaser or io.Closer are released, newest first.
// Every release runs; their errors are joined. Calling Dispose again is a
// no-op.
func (s *Scope) Dispose() error {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return nil
	}
	s.disposed = true
	created := s.created
	s.created = nil
	s.cache = nil
	s.mu.Unlock()

	var errs []error
	for _, instance := range slices.Backward(created) {
		if err := release(instance); err != nil {
			errs = append(errs, err)
		}
	}
	if !s.isRoot {
		s.root.observer.ScopeDisposed()
	}
	return errors.Join(errs...)
}

// scoped returns the cached instance for reg, building it on first use.
func (s *Scope) scoped(reg *Registration, chain []Key) (any, error) {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return nil, &ScopeDisposedError{Key: reg.Key}
	}
	if instance, ok := s.cache[reg.seq]; ok {
		s.mu.Unlock()
		return instance, nil
	}
	s.mu.Unlock()

	instance, err := s.build(reg, chain)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		_ = release(instance)
		return nil, &ScopeDisposedError{Key: reg.Key}
	}
	if existing, ok := s.cache[reg.seq]; ok {
		_ = release(instance)
		return existing, nil
	}
	s.cache[reg.seq] = instance
	s.created = append(s.created, instance)
	return instance, nil
}

// build runs reg's factory against this scope.
func (s *Scope) build(reg *Registration, chain []Key) (any, error) {
	gid := goroutineID()
	if err := s.root.building.push(gid, reg.Key); err != nil {
		return nil, err
	}
	defer s.root.building.pop(gid)

	instance, err := reg.Factory(&resolution{scope: s, chain: chain})
	if err != nil {
		return nil, &FactoryError{Key: reg.Key, Err: err}
	}
	s.root.observer.Constructed(reg.Key, reg.Lifetime)
	return instance, nil
}

func release(instance any) error {
	switch v := instance.(type) {
	case Releaser:
		if err := v.Release(); err != nil {
			return fmt.Errorf("release %T: %w", instance, err)
		}
	case io.Closer:
		if err := v.Close(); err != nil {
			return fmt.Errorf("close %T: %w", instance, err)
		}
	}
	return nil
}
