// Package claw implements the claw rig: the grip actuator, the swappable
// movement backends, the rig itself and the drop sequencer that drives it.
package claw

import "github.com/tomz197/clawmachine/internal/physics"

// DefaultOpenAngle is the finger angle of a fully open grip, in degrees.
const DefaultOpenAngle = 60.0

// Grip is the claw's gripping mechanism. Its state is the finger angle:
// 0 is closed and OpenAngle is fully open.
type Grip struct {
	OpenAngle float64 // Degrees when fully open
	Speed     float64 // Degrees per second (<= 0 switches instantly)

	angle  float64
	target float64
}

// NewGrip creates a closed grip.
func NewGrip(openAngle, speed float64) *Grip {
	if openAngle <= 0 {
		openAngle = DefaultOpenAngle
	}
	return &Grip{OpenAngle: openAngle, Speed: speed}
}

// Open starts opening the grip.
func (g *Grip) Open() { g.setTarget(g.OpenAngle) }

// Close starts closing the grip.
func (g *Grip) Close() { g.setTarget(0) }

// Toggle reverses the current direction of travel.
func (g *Grip) Toggle() {
	if g.target > 0 {
		g.Close()
	} else {
		g.Open()
	}
}

func (g *Grip) setTarget(a float64) {
	g.target = a
	if g.Speed <= 0 {
		g.angle = a
	}
}

// Step moves the fingers toward the target angle.
func (g *Grip) Step(dt float64) {
	if dt <= 0 || g.angle == g.target {
		return
	}
	if g.Speed <= 0 {
		g.angle = g.target
		return
	}
	g.angle = physics.MoveTowards(g.angle, g.target, g.Speed*dt)
}

// IsOpen reports whether the grip is fully open.
func (g *Grip) IsOpen() bool { return g.angle >= g.OpenAngle }

// IsClosed reports whether the grip is fully closed.
func (g *Grip) IsClosed() bool { return g.angle <= 0 }

// Opening reports whether the grip is open or on its way to open.
func (g *Grip) Opening() bool { return g.target > 0 }

// Angle returns the current finger angle in degrees.
func (g *Grip) Angle() float64 { return g.angle }

// Openness returns the current angle as a fraction of fully open.
func (g *Grip) Openness() float64 {
	return physics.Clamp(g.angle/g.OpenAngle, 0, 1)
}

func (g *Grip) reset() {
	g.angle = 0
	g.target = 0
}
