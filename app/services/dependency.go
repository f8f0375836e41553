// Package services holds the sample consumers that report which operation
// instances they were given.
package services

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/km-arc/go-lifetime/app/operation"
	"github.com/km-arc/go-lifetime/framework/container"
	"github.com/km-arc/go-lifetime/framework/logging"
)

// Container keys for the two sample services.
const (
	Service1Key container.Key = "services.dependency1"
	Service2Key container.Key = "services.dependency2"
)

// DependencyService captures one operation of each lifetime at construction
// and reports their ids to an OutputLogger.
type DependencyService struct {
	name              string
	transient         *operation.Operation
	scoped            *operation.Operation
	singleton         *operation.Operation
	singletonInstance *operation.Operation
	out               logging.OutputLogger
}

// Snapshot is the set of operation ids a service holds.
type Snapshot struct {
	Service           string    `json:"service"`
	Transient         uuid.UUID `json:"transient"`
	Scoped            uuid.UUID `json:"scoped"`
	Singleton         uuid.UUID `json:"singleton"`
	SingletonInstance uuid.UUID `json:"singletonInstance"`
}

// Factory returns a container factory that builds a DependencyService
// called name from the four operation keys and the OutputLogger.
func Factory(name string) container.Factory {
	return func(r container.Resolver) (any, error) {
		ops := make([]*operation.Operation, 0, 4)
		for _, key := range []container.Key{
			operation.TransientKey,
			operation.ScopedKey,
			operation.SingletonKey,
			operation.SingletonInstanceKey,
		} {
			op, err := container.Resolve[*operation.Operation](r, key)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
			ops = append(ops, op)
		}
		out, err := container.Resolve[logging.OutputLogger](r, logging.Key)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return &DependencyService{
			name:              name,
			transient:         ops[0],
			scoped:            ops[1],
			singleton:         ops[2],
			singletonInstance: ops[3],
			out:               out,
		}, nil
	}
}

// Name returns the service's display name.
func (s *DependencyService) Name() string { return s.name }

// Write sends a five-line report, preceded by a blank line, to the
// OutputLogger:
//
//	From Dependency Service 1
//	Transient → <id>
//	Scoped → <id>
//	Singleton → <id>
//	SingletonInstance → <id>
func (s *DependencyService) Write() {
	var sb strings.Builder
	fmt.Fprintf(&sb, "\nFrom %s\n", s.name)
	fmt.Fprintf(&sb, "Transient → %s\n", s.transient.ID())
	fmt.Fprintf(&sb, "Scoped → %s\n", s.scoped.ID())
	fmt.Fprintf(&sb, "Singleton → %s\n", s.singleton.ID())
	fmt.Fprintf(&sb, "SingletonInstance → %s\n", s.singletonInstance.ID())
	s.out.Log(sb.String())
}

// Snapshot returns the ids held by the service.
func (s *DependencyService) Snapshot() Snapshot {
	return Snapshot{
		Service:           s.name,
		Transient:         s.transient.ID(),
		Scoped:            s.scoped.ID(),
		Singleton:         s.singleton.ID(),
		SingletonInstance: s.singletonInstance.ID(),
	}
}
