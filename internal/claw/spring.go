package claw

import "github.com/tomz197/clawmachine/internal/physics"

// SpringBackend pulls a dynamic body toward the anchor with a tension-only
// damped spring once the separation exceeds the cable length.
type SpringBackend struct {
	Stiffness float64
	Damping   float64

	body   *physics.Body
	anchor physics.Vec3
	cable  float64
}

// NewSpringBackend creates a spring backend.
func NewSpringBackend(floorY, drag, stiffness, damping float64) *SpringBackend {
	b := physics.NewBody(physics.Vec3{}, floorY)
	b.Drag = drag
	return &SpringBackend{
		Stiffness: stiffness,
		Damping:   damping,
		body:      b,
	}
}

func (s *SpringBackend) SetAnchorPosition(anchor physics.Vec3) { s.anchor = anchor }

func (s *SpringBackend) SetCableLength(length float64) { s.cable = max(length, 0) }

func (s *SpringBackend) BodyPosition() physics.Vec3 { return s.body.Pos }

func (s *SpringBackend) Step(dt float64) {
	if dt <= 0 {
		return
	}

	d := s.body.Pos.Sub(s.anchor)
	l := d.Len()
	if l > s.cable && l > 0 {
		n := d.Scale(1 / l)
		stretch := l - s.cable
		f := -(s.Stiffness*stretch + s.Damping*s.body.Vel.Dot(n))
		if f < 0 { // A rope never pushes
			s.body.ApplyImpulse(n.Scale(f * dt))
		}
	}
	s.body.Integrate(dt)
}

func (s *SpringBackend) Reset(anchor physics.Vec3, cable float64) {
	s.anchor = anchor
	s.cable = max(cable, 0)
	s.body.Pos = hangingPoint(anchor, s.cable, s.body.FloorY)
	s.body.Stop()
}
