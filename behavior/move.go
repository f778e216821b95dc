package behavior

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

// DefaultMoveSpeed is the linear speed used when none is configured.
const DefaultMoveSpeed = 5.0

// MoveAlongHeading moves an actor a fixed distance in the direction given by a heading.
//
// Each axis is clamped independently to the distance still left on it, so close to arrival
// the path can bend slightly away from the pure heading. The behavior completes once both
// axes are within speed+1 of the target and places the actor exactly on it.
type MoveAlongHeading struct {
	lifecycle

	heading   float64
	steps     float64
	speed     float64
	direction mgl64.Vec2

	actor  Actor
	target mgl64.Vec2
}

// NewMoveAlongHeading creates a movement of steps units along heading degrees at speed units per tick.
func NewMoveAlongHeading(heading, steps, speed float64) (*MoveAlongHeading, error) {
	if math.IsNaN(heading) || math.IsInf(heading, 0) {
		return nil, errors.Wrapf(ErrInvalidConfiguration, "move: heading %v is not finite", heading)
	}
	if !(steps >= 0) || math.IsInf(steps, 0) {
		return nil, errors.Wrapf(ErrInvalidConfiguration, "move: steps %v must be non-negative", steps)
	}
	if !(speed > 0) || math.IsInf(speed, 0) {
		return nil, errors.Wrapf(ErrInvalidConfiguration, "move: speed %v must be positive", speed)
	}

	radians := mgl64.DegToRad(heading)
	return &MoveAlongHeading{
		heading:   heading,
		steps:     steps,
		speed:     speed,
		direction: mgl64.Vec2{math.Cos(radians), math.Sin(radians)},
	}, nil
}

// Heading returns the heading in degrees.
func (m *MoveAlongHeading) Heading() float64 { return m.heading }

// Steps returns the distance to travel.
func (m *MoveAlongHeading) Steps() float64 { return m.steps }

// Speed returns the distance travelled per tick.
func (m *MoveAlongHeading) Speed() float64 { return m.speed }

// Direction returns the unit vector of the heading.
func (m *MoveAlongHeading) Direction() mgl64.Vec2 { return m.direction }

// Target returns the destination computed at attach time.
func (m *MoveAlongHeading) Target() mgl64.Vec2 { return m.target }

// Claims implements Claimer.
func (m *MoveAlongHeading) Claims() Field { return FieldPosition }

// Attach computes the destination from the actor's current position.
func (m *MoveAlongHeading) Attach(actor Actor) {
	m.attach()
	m.actor = actor
	m.target = actor.Position().Add(m.direction.Mul(m.steps))
}

// Update moves the actor one step towards the destination.
func (m *MoveAlongHeading) Update() bool {
	m.beginUpdate()

	pos := m.actor.Position()
	remainingX := math.Abs(m.target.X() - pos.X())
	remainingY := math.Abs(m.target.Y() - pos.Y())

	if remainingX < m.speed+1 && remainingY < m.speed+1 {
		m.actor.SetPosition(m.target)
		m.complete()
		return true
	}

	m.actor.SetPosition(mgl64.Vec2{
		pos.X() + clampStep(m.direction.X()*m.speed, remainingX),
		pos.Y() + clampStep(m.direction.Y()*m.speed, remainingY),
	})
	return false
}

// clampStep limits step to remaining in magnitude while keeping its sign.
func clampStep(step, remaining float64) float64 {
	if math.Abs(step) > remaining {
		return math.Copysign(remaining, step)
	}
	return step
}
