// Package operation holds the sample service whose identity reveals which
// lifetime produced it.
package operation

import (
	"github.com/google/uuid"

	"github.com/km-arc/go-lifetime/framework/container"
)

// Container keys, one per lifetime under test.
const (
	TransientKey         container.Key = "operation.transient"
	ScopedKey            container.Key = "operation.scoped"
	SingletonKey         container.Key = "operation.singleton"
	SingletonInstanceKey container.Key = "operation.singleton_instance"
)

// Operation is an identity captured at construction.
type Operation struct {
	id uuid.UUID
}

// New returns an Operation with a fresh random id.
func New() *Operation { return &Operation{id: uuid.New()} }

// NewWithID returns an Operation with the given id.
func NewWithID(id uuid.UUID) *Operation { return &Operation{id: id} }

// ID returns the id assigned at construction. It never changes.
func (o *Operation) ID() uuid.UUID { return o.id }

// Factory builds a fresh Operation per invocation.
func Factory(container.Resolver) (any, error) { return New(), nil }
