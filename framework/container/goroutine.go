package container

import (
	"bytes"
	"runtime"
	"slices"
	"strconv"
	"sync"
)

// goroutineID returns the id of the calling goroutine, parsed from the
// "goroutine N [running]:" header of its stack trace.
func goroutineID() uint64 {
	var buf [64]byte
	b := bytes.TrimPrefix(buf[:runtime.Stack(buf[:], false)], []byte("goroutine "))
	if i := bytes.IndexByte(b, ' '); i >= 0 {
		b = b[:i]
	}
	id, _ := strconv.ParseUint(string(b), 10, 64)
	return id
}

// buildTracker records, per goroutine, the keys whose factories are running.
// It catches re-entry that bypasses the Resolver handed to a factory, such
// as a factory calling a captured *Container or *Scope.
type buildTracker struct {
	mu     sync.Mutex
	stacks map[uint64][]Key
}

func newBuildTracker() *buildTracker {
	return &buildTracker{stacks: make(map[uint64][]Key)}
}

// push marks key as being built on goroutine gid. It fails if key is already
// being built there.
func (t *buildTracker) push(gid uint64, key Key) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	stack := t.stacks[gid]
	if slices.Contains(stack, key) {
		return &CircularDependencyError{Chain: append(slices.Clone(stack), key)}
	}
	t.stacks[gid] = append(stack, key)
	return nil
}

func (t *buildTracker) pop(gid uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	stack := t.stacks[gid]
	if len(stack) <= 1 {
		delete(t.stacks, gid)
		return
	}
	t.stacks[gid] = stack[:len(stack)-1]
}

// building returns a copy of the keys being built on gid.
func (t *buildTracker) building(gid uint64) []Key {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.stacks[gid])
}
