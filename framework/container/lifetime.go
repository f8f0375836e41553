package container

import "fmt"

// Lifetime controls how many instances a registration produces and how long
// each one is reused.
type Lifetime uint8

const (
	// Transient gives a new instance on every resolution, never cached.
	Transient Lifetime = iota
	// Scoped keeps one instance per Scope, released when the Scope is disposed.
	Scoped
	// Singleton keeps one instance per Container, built on first resolution.
	Singleton
	// SingletonInstance keeps one instance per Container, built at registration.
	SingletonInstance
)

func (l Lifetime) String() string {
	switch l {
	case Transient:
		return "transient"
	case Scoped:
		return "scoped"
	case Singleton:
		return "singleton"
	case SingletonInstance:
		return "singleton_instance"
	default:
		return fmt.Sprintf("lifetime(%d)", uint8(l))
	}
}

func (l Lifetime) valid() bool { return l <= SingletonInstance }

// shared reports whether instances live in the container-wide singleton store.
func (l Lifetime) shared() bool { return l == Singleton || l == SingletonInstance }
