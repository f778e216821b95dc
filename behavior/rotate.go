package behavior

import (
	"math"

	"github.com/pkg/errors"
)

// RotateToAngle turns an actor at a constant angular speed until it faces an absolute angle.
// The actor rotates towards the target from whichever side it starts on, and the final tick
// lands exactly on the target.
type RotateToAngle struct {
	lifecycle

	target float64
	speed  float64

	actor     Actor
	start     float64
	direction float64
	distance  float64
	ticks     int
}

// NewRotateToAngle creates a rotation to target degrees at speed degrees per tick.
func NewRotateToAngle(target, speed float64) (*RotateToAngle, error) {
	if math.IsNaN(target) || math.IsInf(target, 0) {
		return nil, errors.Wrapf(ErrInvalidConfiguration, "rotate: target %v is not finite", target)
	}
	if !(speed > 0) || math.IsInf(speed, 0) {
		return nil, errors.Wrapf(ErrInvalidConfiguration, "rotate: speed %v must be positive", speed)
	}
	return &RotateToAngle{target: target, speed: speed}, nil
}

// Target returns the absolute angle the behavior rotates to.
func (r *RotateToAngle) Target() float64 { return r.target }

// Speed returns the angular speed in degrees per tick.
func (r *RotateToAngle) Speed() float64 { return r.speed }

// Claims implements Claimer.
func (r *RotateToAngle) Claims() Field { return FieldRotation }

// Attach records the actor's current rotation as the starting angle.
func (r *RotateToAngle) Attach(actor Actor) {
	r.attach()
	r.actor = actor
	r.start = actor.Rotation()
	r.distance = math.Abs(r.target - r.start)
	r.direction = 1
	if r.target < r.start {
		r.direction = -1
	}
}

// Update rotates the actor by one step.
func (r *RotateToAngle) Update() bool {
	r.beginUpdate()
	r.ticks++

	// Derived from the tick count so long rotations do not accumulate drift.
	travelled := r.speed * float64(r.ticks)
	if travelled >= r.distance {
		r.actor.SetRotation(r.target)
		r.complete()
		return true
	}

	r.actor.SetRotation(r.start + r.direction*travelled)
	return false
}
