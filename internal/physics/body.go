package physics

import "math"

// Gravity is the default downward acceleration in cabinet units per second².
const Gravity = 9.81

// Body is a point mass integrated with semi-implicit Euler.
type Body struct {
	Pos Vec3
	Vel Vec3

	Gravity float64 // Downward acceleration (0 disables gravity)
	Drag    float64 // Velocity retained per second (1.0 = no drag, 0.5 = 50% speed loss/sec)
	FloorY  float64 // Lowest allowed Y for the body's center

	// Kinematic bodies ignore forces; their position is driven externally.
	Kinematic bool
}

// NewBody creates a dynamic body at pos resting on the given floor.
func NewBody(pos Vec3, floorY float64) *Body {
	return &Body{
		Pos:     pos,
		Gravity: Gravity,
		Drag:    0.6,
		FloorY:  floorY,
	}
}

// ApplyImpulse adds a velocity change to a dynamic body.
func (b *Body) ApplyImpulse(dv Vec3) {
	if b.Kinematic {
		return
	}
	b.Vel = b.Vel.Add(dv)
}

// Integrate advances a dynamic body by dt seconds and resolves the floor contact.
// Returns true if the body is resting on the floor after the step.
func (b *Body) Integrate(dt float64) bool {
	if b.Kinematic || dt <= 0 {
		return false
	}

	b.Vel.Y -= b.Gravity * dt

	if b.Drag > 0 && b.Drag < 1 {
		f := math.Pow(b.Drag, dt)
		b.Vel = b.Vel.Scale(f)
	}

	b.Pos = b.Pos.Add(b.Vel.Scale(dt))
	return b.ResolveFloor()
}

// ResolveFloor pushes the body back above the floor and removes downward velocity.
func (b *Body) ResolveFloor() bool {
	if b.Pos.Y > b.FloorY {
		return false
	}
	b.Pos.Y = b.FloorY
	if b.Vel.Y < 0 {
		b.Vel.Y = 0
	}
	return true
}

// Stop clears the body's velocity.
func (b *Body) Stop() {
	b.Vel = Vec3{}
}
