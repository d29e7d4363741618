package claw

import "github.com/tomz197/clawmachine/internal/physics"

// RigidBackend hangs a dynamic body from the anchor by a slack rope: the
// body falls freely until the separation reaches the cable length, then is
// held on that sphere. Moving the anchor makes the body swing.
type RigidBackend struct {
	body   *physics.Body
	anchor physics.Vec3
	cable  float64
}

// NewRigidBackend creates a rigid-limit backend.
func NewRigidBackend(floorY, drag float64) *RigidBackend {
	b := physics.NewBody(physics.Vec3{}, floorY)
	b.Drag = drag
	return &RigidBackend{body: b}
}

func (r *RigidBackend) SetAnchorPosition(anchor physics.Vec3) { r.anchor = anchor }

func (r *RigidBackend) SetCableLength(length float64) { r.cable = max(length, 0) }

func (r *RigidBackend) BodyPosition() physics.Vec3 { return r.body.Pos }

func (r *RigidBackend) Step(dt float64) {
	if dt <= 0 {
		return
	}
	r.body.Integrate(dt)

	d := r.body.Pos.Sub(r.anchor)
	l := d.Len()
	if l > r.cable && l > 0 {
		n := d.Scale(1 / l)
		r.body.Pos = r.anchor.Add(n.Scale(r.cable))
		// Drop the outward radial velocity; tangential swing is kept.
		if vr := r.body.Vel.Dot(n); vr > 0 {
			r.body.Vel = r.body.Vel.Sub(n.Scale(vr))
		}
	}
	r.body.ResolveFloor()
}

func (r *RigidBackend) Reset(anchor physics.Vec3, cable float64) {
	r.anchor = anchor
	r.cable = max(cable, 0)
	r.body.Pos = hangingPoint(anchor, r.cable, r.body.FloorY)
	r.body.Stop()
}
