// Package component declares the typed component handles stored in an
// ecs.World, and the component value types of the platformer.
package component

import (
	"errors"
	"sync/atomic"
)

var (
	ErrEntityNotAlive       = errors.New("ecs: entity not alive")
	ErrNilComponent         = errors.New("ecs: component is nil")
	ErrInvalidComponentKind = errors.New("ecs: invalid component kind")
)

// ComponentID names a storage slot in the world. Zero is never issued.
type ComponentID uint32

var nextComponentID atomic.Uint32

// ComponentHandle ties a ComponentID to the Go type stored under it.
type ComponentHandle[T any] struct {
	id   ComponentID
	name string
}

// NewComponent issues a fresh id; name only shows up in logs.
func NewComponent[T any](name string) ComponentHandle[T] {
	return ComponentHandle[T]{id: ComponentID(nextComponentID.Add(1)), name: name}
}

func (h ComponentHandle[T]) ID() ComponentID {
	return h.id
}

func (h ComponentHandle[T]) Valid() bool {
	return h.id != 0
}

func (h ComponentHandle[T]) String() string {
	return h.name
}
