package claw

import "github.com/tomz197/clawmachine/internal/physics"

// TweenBackend moves a kinematic body straight toward the end of the cable
// at a fixed speed. No swing.
type TweenBackend struct {
	FollowSpeed float64

	pos    physics.Vec3
	anchor physics.Vec3
	cable  float64
	floorY float64
}

// NewTweenBackend creates a tween backend.
func NewTweenBackend(floorY, followSpeed float64) *TweenBackend {
	return &TweenBackend{FollowSpeed: followSpeed, floorY: floorY}
}

func (t *TweenBackend) SetAnchorPosition(anchor physics.Vec3) { t.anchor = anchor }

func (t *TweenBackend) SetCableLength(length float64) { t.cable = max(length, 0) }

func (t *TweenBackend) BodyPosition() physics.Vec3 { return t.pos }

func (t *TweenBackend) Step(dt float64) {
	if dt <= 0 {
		return
	}
	target := hangingPoint(t.anchor, t.cable, t.floorY)
	t.pos = physics.MoveTowardsVec(t.pos, target, t.FollowSpeed*dt)
}

func (t *TweenBackend) Reset(anchor physics.Vec3, cable float64) {
	t.anchor = anchor
	t.cable = max(cable, 0)
	t.pos = hangingPoint(anchor, t.cable, t.floorY)
}
