package container

import (
	"fmt"
	"reflect"
	"slices"
)

// Resolver resolves services. Both *Scope and *Container implement it, and
// factories receive one that carries the current dependency chain.
type Resolver interface {
	Resolve(key Key) (any, error)
	ResolveAll(key Key) ([]any, error)
}

// resolution is the Resolver handed to factories: the scope being resolved
// against plus the keys already being built in this call tree.
type resolution struct {
	scope *Scope
	chain []Key
}

func (r *resolution) Resolve(key Key) (any, error) {
	return r.scope.resolve(key, r.chain)
}

func (r *resolution) ResolveAll(key Key) ([]any, error) {
	return r.scope.resolveAll(key, r.chain)
}

func (s *Scope) resolve(key Key, chain []Key) (any, error) {
	if err := s.usable(key); err != nil {
		return nil, err
	}
	regs, err := s.root.registry.Lookup(key)
	if err != nil {
		return nil, err
	}
	reg := regs[len(regs)-1]

	next, err := enter(chain, reg.Key)
	if err != nil {
		return nil, err
	}
	return s.resolveRegistration(reg, next)
}

func (s *Scope) resolveAll(key Key, chain []Key) ([]any, error) {
	if err := s.usable(key); err != nil {
		return nil, err
	}
	regs := s.root.registry.LookupAll(key)
	if len(regs) == 0 {
		return []any{}, nil
	}

	next, err := enter(chain, regs[0].Key)
	if err != nil {
		return nil, err
	}

	out := make([]any, 0, len(regs))
	for _, reg := range regs {
		instance, err := s.resolveRegistration(reg, next)
		if err != nil {
			return nil, err
		}
		out = append(out, instance)
	}
	return out, nil
}

// resolveRegistration applies reg's lifetime rule.
func (s *Scope) resolveRegistration(reg *Registration, chain []Key) (any, error) {
	var (
		instance any
		err      error
	)
	switch reg.Lifetime {
	case Transient:
		instance, err = s.build(reg, chain)
	case Scoped:
		instance, err = s.scoped(reg, chain)
	case Singleton, SingletonInstance:
		root := s.root.root
		instance, _, err = s.root.singletons.getOrCreate(reg, func() (any, error) {
			return root.build(reg, chain)
		})
	default:
		err = fmt.Errorf("%w %s for [%s]", ErrInvalidLifetime, reg.Lifetime, reg.Key)
	}
	if err != nil {
		return nil, err
	}
	s.root.observer.Resolved(reg.Key, reg.Lifetime)
	return instance, nil
}

func (s *Scope) usable(key Key) error {
	if s.root.closed.Load() {
		return fmt.Errorf("%w: resolve [%s]", ErrContainerClosed, key)
	}
	if s.Disposed() {
		return &ScopeDisposedError{Key: key}
	}
	return nil
}

// enter pushes key onto a copy of chain, failing if key is already on it.
func enter(chain []Key, key Key) ([]Key, error) {
	if slices.Contains(chain, key) {
		cycle := append(slices.Clone(chain), key)
		return nil, &CircularDependencyError{Chain: cycle}
	}
	next := make([]Key, len(chain), len(chain)+1)
	copy(next, chain)
	return append(next, key), nil
}

// ── Generics helpers ──────────────────────────────────────────────────────────

// Resolve resolves key and type-asserts the result.
//
//	// Instead of: v, err := scope.Resolve("mailer"); m := v.(*Mailer)
//	m, err := container.Resolve[*Mailer](scope, "mailer")
func Resolve[T any](r Resolver, key Key) (T, error) {
	var zero T
	instance, err := r.Resolve(key)
	if err != nil {
		return zero, err
	}
	typed, ok := instance.(T)
	if !ok {
		return zero, &TypeMismatchError{Key: key, Want: typeName[T](), Got: fmt.Sprintf("%T", instance)}
	}
	return typed, nil
}

// MustResolve is like Resolve but panics on error. Meant for bootstrap code
// where a missing service is a programming error.
func MustResolve[T any](r Resolver, key Key) T {
	typed, err := Resolve[T](r, key)
	if err != nil {
		panic(err)
	}
	return typed
}

// ResolveAll resolves every registration under key as T.
func ResolveAll[T any](r Resolver, key Key) ([]T, error) {
	instances, err := r.ResolveAll(key)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(instances))
	for _, instance := range instances {
		typed, ok := instance.(T)
		if !ok {
			return nil, &TypeMismatchError{Key: key, Want: typeName[T](), Got: fmt.Sprintf("%T", instance)}
		}
		out = append(out, typed)
	}
	return out, nil
}

func typeName[T any]() string {
	return reflect.TypeOf((*T)(nil)).Elem().String()
}
