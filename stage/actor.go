package stage

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/stagehand/behavior"
)

// ActorId identifies an actor within a Stage. Zero is never assigned.
type ActorId uint64

// Actor is a positioned, rotated object that behaviors act on.
type Actor struct {
	id       ActorId
	name     string
	position mgl64.Vec2
	rotation float64
}

var _ behavior.Actor = (*Actor)(nil)

func (a *Actor) Id() ActorId          { return a.id }
func (a *Actor) Name() string         { return a.name }
func (a *Actor) Position() mgl64.Vec2 { return a.position }
func (a *Actor) Rotation() float64    { return a.rotation }

func (a *Actor) SetPosition(p mgl64.Vec2) {
	a.position = p
}

// SetRotation sets the rotation in degrees.
func (a *Actor) SetRotation(degrees float64) {
	a.rotation = degrees
}
