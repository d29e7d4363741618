package claw

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tomz197/clawmachine/internal/physics"
	"github.com/tomz197/clawmachine/internal/prize"
)

// ErrMissingBackend is returned by NewRig when no movement backend is given.
var ErrMissingBackend = errors.New("claw: rig has no movement backend")

// GrabPolicy chooses among several prizes in reach of the grab point.
type GrabPolicy int

const (
	GrabFirst   GrabPolicy = iota // First candidate in query order
	GrabNearest                   // Candidate closest to the grab point
)

func (p GrabPolicy) String() string {
	switch p {
	case GrabNearest:
		return "nearest"
	default:
		return "first"
	}
}

// ParseGrabPolicy parses "first" or "nearest" (case-insensitive).
func ParseGrabPolicy(s string) (GrabPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "first":
		return GrabFirst, nil
	case "nearest":
		return GrabNearest, nil
	default:
		return GrabFirst, fmt.Errorf("claw: unknown grab policy %q", s)
	}
}

// Finder answers the rig's grab query.
type Finder interface {
	Within(point physics.Vec3, radius float64, mask prize.Layer) []*prize.Prize
}

// Bounds is the rectangle the anchor may travel in.
type Bounds struct {
	MinX, MaxX float64
	MinZ, MaxZ float64
}

// Clamp limits the X/Z of p to the bounds.
func (b Bounds) Clamp(p physics.Vec3) physics.Vec3 {
	p.X = physics.Clamp(p.X, b.MinX, b.MaxX)
	p.Z = physics.Clamp(p.Z, b.MinZ, b.MaxZ)
	return p
}

// Contains reports whether the X/Z of p lies inside the bounds (inclusive).
func (b Bounds) Contains(p physics.Vec3) bool {
	return p.X >= b.MinX && p.X <= b.MaxX && p.Z >= b.MinZ && p.Z <= b.MaxZ
}

// RigConfig is the immutable geometry and tuning of a rig.
type RigConfig struct {
	Origin          physics.Vec3 // Anchor home; Y is the fixed anchor height
	Bounds          Bounds
	MoveSpeed       float64 // Anchor units per second at full input
	MinCableLength  float64
	MaxDropDistance float64
	GrabOffset      float64 // Grab point distance below the body center
	GrabPolicy      GrabPolicy
}

// Rig is a claw body hanging from a movable anchor by a cable of variable
// length. While it holds a prize the rig owns it exclusively.
type Rig struct {
	cfg     RigConfig
	backend Backend
	grip    *Grip
	finder  Finder

	anchor physics.Vec3
	cable  float64
	held   *prize.Prize
}

// NewRig creates a rig resting at its origin. A nil grip gets an instant one;
// a nil finder makes every grab miss.
func NewRig(cfg RigConfig, backend Backend, grip *Grip, finder Finder) (*Rig, error) {
	if backend == nil {
		return nil, ErrMissingBackend
	}
	if cfg.MoveSpeed <= 0 {
		cfg.MoveSpeed = 1
	}
	if cfg.MinCableLength < 0 {
		cfg.MinCableLength = 0
	}
	if cfg.MaxDropDistance < cfg.MinCableLength {
		cfg.MaxDropDistance = cfg.MinCableLength
	}
	cfg.Origin = cfg.Bounds.Clamp(cfg.Origin)
	if grip == nil {
		grip = NewGrip(DefaultOpenAngle, 0)
	}

	r := &Rig{
		cfg:     cfg,
		backend: backend,
		grip:    grip,
		finder:  finder,
	}
	r.Reset()
	return r, nil
}

// Reset drops anything held and puts the rig back at its origin at rest.
func (r *Rig) Reset() {
	if r.held != nil {
		r.held.Drop()
		r.held = nil
	}
	r.anchor = r.cfg.Origin
	r.cable = r.cfg.MinCableLength
	r.grip.reset()
	r.backend.Reset(r.anchor, r.cable)
}

// MoveAnchor translates the anchor by (dx, dz)*MoveSpeed*dt and clamps it
// into the bounds. The body follows through the backend.
func (r *Rig) MoveAnchor(dx, dz, dt float64) {
	if (dx == 0 && dz == 0) || dt <= 0 {
		return
	}
	step := r.cfg.MoveSpeed * dt
	r.anchor.X += dx * step
	r.anchor.Z += dz * step
	r.anchor = r.cfg.Bounds.Clamp(r.anchor)
	r.backend.SetAnchorPosition(r.anchor)
}

// SetCableLength clamps length into [MinCableLength, MaxDropDistance] and
// forwards it to the backend.
func (r *Rig) SetCableLength(length float64) {
	r.cable = physics.Clamp(length, r.cfg.MinCableLength, r.cfg.MaxDropDistance)
	r.backend.SetCableLength(r.cable)
}

// TryGrab looks for grabbable prizes matching mask within radius of point
// and takes one according to the grab policy. Returns nil when nothing is in
// reach or a prize is already held.
func (r *Rig) TryGrab(point physics.Vec3, radius float64, mask prize.Layer) *prize.Prize {
	if r.held != nil || r.finder == nil {
		return nil
	}
	candidates := r.finder.Within(point, radius, mask)
	pr := pick(candidates, point, r.cfg.GrabPolicy)
	if pr == nil {
		return nil
	}
	pr.Hold()
	pr.MoveTo(r.GrabPoint())
	r.held = pr
	return pr
}

func pick(candidates []*prize.Prize, point physics.Vec3, policy GrabPolicy) *prize.Prize {
	var best *prize.Prize
	bestDist := 0.0
	for _, c := range candidates {
		if c.State != prize.StateFree {
			continue
		}
		if policy == GrabFirst {
			return c
		}
		d := c.Position().Sub(point).LenSq()
		if best == nil || d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// Release lets go of the held prize where it is and returns it.
func (r *Rig) Release() *prize.Prize {
	pr := r.held
	if pr == nil {
		return nil
	}
	r.held = nil
	pr.Drop()
	return pr
}

// Step advances the grip and the body, then carries the held prize along.
func (r *Rig) Step(dt float64) {
	if dt <= 0 {
		return
	}
	r.grip.Step(dt)
	r.backend.Step(dt)
	if r.held != nil {
		r.held.MoveTo(r.GrabPoint())
	}
}

// GrabPoint is the point between the fingers, GrabOffset below the body.
func (r *Rig) GrabPoint() physics.Vec3 {
	return r.backend.BodyPosition().Sub(physics.Vec3{Y: r.cfg.GrabOffset})
}

// BodyPosition returns the claw body's center.
func (r *Rig) BodyPosition() physics.Vec3 { return r.backend.BodyPosition() }

// Anchor returns the anchor position.
func (r *Rig) Anchor() physics.Vec3 { return r.anchor }

// Origin returns the anchor's home position.
func (r *Rig) Origin() physics.Vec3 { return r.cfg.Origin }

// CableLength returns the current cable length.
func (r *Rig) CableLength() float64 { return r.cable }

// Held returns the held prize, or nil.
func (r *Rig) Held() *prize.Prize { return r.held }

// Grip returns the rig's grip actuator.
func (r *Rig) Grip() *Grip { return r.grip }

// Config returns the rig configuration after normalization.
func (r *Rig) Config() RigConfig { return r.cfg }
