package container

import (
	"errors"
	"slices"
	"sync"
)

// singletonEntry holds one shared instance. While a factory runs, builder
// is the goroutine running it and ready is closed when it finishes.
type singletonEntry struct {
	key      Key
	done     bool
	instance any
	builder  uint64
	ready    chan struct{}
}

// singletonStore caches Singleton and SingletonInstance instances for the
// lifetime of the Container. An entry is written at most once. All entry
// state is guarded by mu; no lock is held while a factory runs.
type singletonStore struct {
	mu      sync.Mutex
	entries map[uint64]*singletonEntry
	waiting map[uint64]*singletonEntry // goroutine → entry it is blocked on
	order   []*singletonEntry          // construction order, for Close
}

func newSingletonStore() *singletonStore {
	return &singletonStore{
		entries: make(map[uint64]*singletonEntry),
		waiting: make(map[uint64]*singletonEntry),
	}
}

// entry returns reg's entry, creating it. s.mu must be held.
func (s *singletonStore) entry(reg *Registration) *singletonEntry {
	e, ok := s.entries[reg.seq]
	if !ok {
		e = &singletonEntry{key: reg.Key}
		s.entries[reg.seq] = e
	}
	return e
}

// getOrCreate returns the cached instance for reg or runs build once.
// Concurrent first callers wait for the goroutine running build. A caller
// that would wait on its own build, directly or through other goroutines'
// builds, fails with a *CircularDependencyError instead.
// A failed build leaves the entry empty so a later call may retry.
func (s *singletonStore) getOrCreate(reg *Registration, build func() (any, error)) (any, bool, error) {
	s.mu.Lock()
	e := s.entry(reg)
	if e.done {
		s.mu.Unlock()
		return e.instance, false, nil
	}
	s.mu.Unlock()

	gid := goroutineID()

	s.mu.Lock()
	for !e.done && e.builder != 0 {
		if chain := s.waitCycle(gid, e); chain != nil {
			s.mu.Unlock()
			return nil, false, &CircularDependencyError{Chain: chain}
		}
		ready := e.ready
		s.waiting[gid] = e
		s.mu.Unlock()

		<-ready

		s.mu.Lock()
		delete(s.waiting, gid)
	}
	if e.done {
		s.mu.Unlock()
		return e.instance, false, nil
	}
	e.builder, e.ready = gid, make(chan struct{})
	s.mu.Unlock()

	finished := false
	defer func() {
		if !finished { // build panicked
			s.finish(e, nil, false)
		}
	}()
	instance, err := build()
	finished = true

	s.finish(e, instance, err == nil)
	if err != nil {
		return nil, false, err
	}
	return instance, true, nil
}

func (s *singletonStore) finish(e *singletonEntry, instance any, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ok {
		e.instance, e.done = instance, true
		s.order = append(s.order, e)
	}
	e.builder = 0
	close(e.ready)
}

// waitCycle follows builder → entry-it-waits-on links starting at e. If they
// lead back to gid, waiting would never end; the keys along the way are
// returned. s.mu must be held.
func (s *singletonStore) waitCycle(gid uint64, e *singletonEntry) []Key {
	chain := []Key{e.key}
	for cur := e; ; {
		if cur.builder == gid {
			return append(chain, e.key)
		}
		next, ok := s.waiting[cur.builder]
		if !ok || len(chain) > len(s.waiting) {
			return nil
		}
		chain = append(chain, next.key)
		cur = next
	}
}

// release releases every stored instance in reverse construction order and
// empties the store.
func (s *singletonStore) release() error {
	s.mu.Lock()
	order := s.order
	s.order = nil
	s.entries = make(map[uint64]*singletonEntry)
	s.mu.Unlock()

	var errs []error
	for _, e := range slices.Backward(order) {
		if err := release(e.instance); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
