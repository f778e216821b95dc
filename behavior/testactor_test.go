package behavior_test

import "github.com/go-gl/mathgl/mgl64"

type testActor struct {
	pos mgl64.Vec2
	rot float64

	rotationWrites []float64
	positionWrites []mgl64.Vec2
}

func (a *testActor) Position() mgl64.Vec2 { return a.pos }

func (a *testActor) SetPosition(p mgl64.Vec2) {
	a.pos = p
	a.positionWrites = append(a.positionWrites, p)
}

func (a *testActor) Rotation() float64 { return a.rot }

func (a *testActor) SetRotation(r float64) {
	a.rot = r
	a.rotationWrites = append(a.rotationWrites, r)
}
