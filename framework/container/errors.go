package container

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinels for errors.Is. The typed errors below match them.
var (
	ErrUnregisteredService = errors.New("container: service not registered")
	ErrScopeDisposed       = errors.New("container: scope disposed")
	ErrCircularDependency  = errors.New("container: circular dependency")
	ErrContainerClosed     = errors.New("container: closed")

	ErrEmptyKey        = errors.New("container: empty service key")
	ErrNilFactory      = errors.New("container: nil factory")
	ErrInvalidLifetime = errors.New("container: invalid lifetime")
)

// UnregisteredServiceError is returned when a single-value resolution finds
// no registration for Key.
type UnregisteredServiceError struct {
	Key Key
}

func (e *UnregisteredServiceError) Error() string {
	return fmt.Sprintf("container: no registration for [%s]", e.Key)
}

func (e *UnregisteredServiceError) Is(target error) bool { return target == ErrUnregisteredService }

// ScopeDisposedError is returned when a disposed Scope is asked for Key.
type ScopeDisposedError struct {
	Key Key
}

func (e *ScopeDisposedError) Error() string {
	return fmt.Sprintf("container: resolve [%s]: scope already disposed", e.Key)
}

func (e *ScopeDisposedError) Is(target error) bool { return target == ErrScopeDisposed }

// CircularDependencyError carries the resolution chain that led back to a
// key already being built. The last element repeats an earlier one.
type CircularDependencyError struct {
	Chain []Key
}

func (e *CircularDependencyError) Error() string {
	parts := make([]string, len(e.Chain))
	for i, k := range e.Chain {
		parts[i] = string(k)
	}
	return "container: circular dependency: " + strings.Join(parts, " -> ")
}

func (e *CircularDependencyError) Is(target error) bool { return target == ErrCircularDependency }

// TypeMismatchError is returned by the generic helpers when the resolved
// instance does not implement the requested type.
type TypeMismatchError struct {
	Key  Key
	Want string
	Got  string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("container: [%s] resolved to %s, want %s", e.Key, e.Got, e.Want)
}

// FactoryError wraps an error returned by a registration's factory.
type FactoryError struct {
	Key Key
	Err error
}

func (e *FactoryError) Error() string {
	return fmt.Sprintf("container: build [%s]: %v", e.Key, e.Err)
}

func (e *FactoryError) Unwrap() error { return e.Err }
