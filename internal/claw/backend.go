package claw

import (
	"errors"
	"fmt"

	"github.com/tomz197/clawmachine/internal/physics"
)

// ErrUnknownBackend is returned by NewBackend for an unrecognized kind.
var ErrUnknownBackend = errors.New("claw: unknown movement backend")

// Backend kinds accepted by NewBackend.
const (
	BackendRigid  = "rigid"  // Dynamic body on a slack rope with a hard length limit
	BackendSpring = "spring" // Dynamic body on a damped spring, more lag and swing
	BackendTween  = "tween"  // Kinematic body chasing the cable end
)

// Backend moves the claw body in response to the anchor and the cable length.
type Backend interface {
	// SetAnchorPosition moves the top end of the cable.
	SetAnchorPosition(anchor physics.Vec3)
	// SetCableLength sets the maximum anchor-body separation.
	SetCableLength(length float64)
	// BodyPosition returns the claw body's center.
	BodyPosition() physics.Vec3
	// Step advances the body simulation by dt seconds.
	Step(dt float64)
	// Reset places the body at rest hanging from anchor.
	Reset(anchor physics.Vec3, cable float64)
}

// BackendConfig selects and tunes a movement backend.
type BackendConfig struct {
	Kind   string
	FloorY float64 // Lowest Y of the body center

	Drag        float64 // Velocity retained per second (rigid, spring)
	Stiffness   float64 // Spring constant per unit stretch (spring)
	Damping     float64 // Damping along the cable (spring)
	FollowSpeed float64 // Units per second (tween)
}

// DefaultBackendConfig returns the tuning used when a value is left zero.
func DefaultBackendConfig(kind string) BackendConfig {
	return BackendConfig{
		Kind:        kind,
		Drag:        0.5,
		Stiffness:   60,
		Damping:     4,
		FollowSpeed: 6,
	}
}

// NewBackend builds the backend named by cfg.Kind. Zero tuning values fall
// back to DefaultBackendConfig.
func NewBackend(cfg BackendConfig) (Backend, error) {
	def := DefaultBackendConfig(cfg.Kind)
	if cfg.Drag <= 0 || cfg.Drag > 1 {
		cfg.Drag = def.Drag
	}
	if cfg.Stiffness <= 0 {
		cfg.Stiffness = def.Stiffness
	}
	if cfg.Damping < 0 {
		cfg.Damping = def.Damping
	}
	if cfg.FollowSpeed <= 0 {
		cfg.FollowSpeed = def.FollowSpeed
	}

	switch cfg.Kind {
	case BackendRigid, "":
		return NewRigidBackend(cfg.FloorY, cfg.Drag), nil
	case BackendSpring:
		return NewSpringBackend(cfg.FloorY, cfg.Drag, cfg.Stiffness, cfg.Damping), nil
	case BackendTween:
		return NewTweenBackend(cfg.FloorY, cfg.FollowSpeed), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Kind)
	}
}

// hangingPoint is where a body at rest sits below the anchor.
func hangingPoint(anchor physics.Vec3, cable, floorY float64) physics.Vec3 {
	p := anchor.Sub(physics.Vec3{Y: cable})
	if p.Y < floorY {
		p.Y = floorY
	}
	return p
}
