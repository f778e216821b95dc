// Package behavior provides time-stepped strategies that are attached to an actor,
// advance it once per simulation tick and report when they have reached their goal.
//
// A host drives every behavior through the same lifecycle:
//
//	b.Attach(actor)   // captures a baseline from the actor
//	for !b.Update() { // one call per tick
//	}
//	b.Detach()        // once, after Update returned true
//
// Calling Update before Attach or after completion is a programming error and panics.
package behavior

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

var (
	// ErrInvalidConfiguration is returned by constructors given a speed or distance
	// that would never let the behavior complete.
	ErrInvalidConfiguration = errors.New("behavior: invalid configuration")
	// ErrNotAttached is the panic value of Update calls made before Attach.
	ErrNotAttached = errors.New("behavior: update called before attach")
	// ErrAlreadyAttached is the panic value of a second Attach call.
	ErrAlreadyAttached = errors.New("behavior: already attached")
	// ErrCompleted is the panic value of Update calls made after completion.
	ErrCompleted = errors.New("behavior: update called after completion")
)

// Actor is the part of a game actor a behavior reads and writes.
// Rotation is expressed in degrees.
type Actor interface {
	Position() mgl64.Vec2
	SetPosition(mgl64.Vec2)
	Rotation() float64
	SetRotation(float64)
}

// Behavior is a strategy that can be attached to an actor.
type Behavior interface {
	// Attach binds the behavior to the actor and reads its baseline state.
	Attach(actor Actor)
	// Update advances the actor by one tick and returns true on the tick the goal is reached.
	Update() bool
	// Detach is called once after the Update that returned true.
	Detach()
}

// Field identifies actor state written by a behavior.
type Field uint8

const (
	FieldPosition Field = 1 << iota
	FieldRotation
)

// Overlaps reports whether f and other share any field.
func (f Field) Overlaps(other Field) bool {
	return f&other != 0
}

func (f Field) String() string {
	switch f {
	case 0:
		return "none"
	case FieldPosition:
		return "position"
	case FieldRotation:
		return "rotation"
	case FieldPosition | FieldRotation:
		return "position|rotation"
	}
	return "unknown"
}

// Claimer is implemented by behaviors that declare which actor fields they write.
// Hosts use it to refuse two writers of the same field on one actor.
type Claimer interface {
	Claims() Field
}

// ClaimsOf returns the fields b writes, or zero if b does not declare them.
func ClaimsOf(b Behavior) Field {
	if c, ok := b.(Claimer); ok {
		return c.Claims()
	}
	return 0
}
