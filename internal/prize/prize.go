// Package prize holds the prize model, the reusable per-type prize pool, the
// weighted spawner and the free-prize physics field.
package prize

import (
	"github.com/tomz197/clawmachine/internal/physics"
)

// Layer classifies prizes for spatial queries.
type Layer uint32

const (
	LayerGrabbable Layer = 1 << iota // Eligible for the claw's grab query
	LayerScenery                     // Visible and collidable but never grabbed
)

// LayerAll matches every layer.
const LayerAll Layer = ^Layer(0)

// Matches reports whether l is selected by mask.
func (l Layer) Matches(mask Layer) bool { return l&mask != 0 }

// DefaultBaseRadius is the radius of a prize before score-band scaling.
const DefaultBaseRadius = 0.5

// Type describes one kind of prize.
type Type struct {
	Key    string
	Name   string
	Score  int
	Radius float64
	Layer  Layer // Layer of every instance; 0 means LayerGrabbable
}

// NewType builds a prize type whose radius is scaled from baseRadius by its score band.
func NewType(key, name string, score int, baseRadius float64) Type {
	if baseRadius <= 0 {
		baseRadius = DefaultBaseRadius
	}
	return Type{
		Key:    key,
		Name:   name,
		Score:  score,
		Radius: baseRadius * ScaleForScore(score),
	}
}

// ScaleForScore maps a score value to a size factor: cheap prizes are big and
// easy to grab, valuable ones are small.
func ScaleForScore(score int) float64 {
	switch {
	case score <= 10:
		return 1.2
	case score <= 20:
		return 1.0
	case score <= 50:
		return 0.8
	default:
		return 0.6
	}
}

// State is the lifecycle state of a pooled prize.
type State int

const (
	StateInactive State = iota // Parked in the pool
	StateFree                  // Simulated by the field
	StateHeld                  // Owned by the claw, physics disabled
	StateScored                // Entered the chute and was retired to the pool
)

func (s State) String() string {
	switch s {
	case StateInactive:
		return "inactive"
	case StateFree:
		return "free"
	case StateHeld:
		return "held"
	case StateScored:
		return "scored"
	default:
		return "unknown"
	}
}

// Prize is a pooled physical prize instance.
type Prize struct {
	ID    int
	Type  *Type
	Body  *physics.Body
	State State
	Layer Layer
}

// Active reports whether the prize is in play (free or held).
func (p *Prize) Active() bool {
	return p.State == StateFree || p.State == StateHeld
}

// Position returns the prize center.
func (p *Prize) Position() physics.Vec3 { return p.Body.Pos }

// Radius returns the collision radius of the prize.
func (p *Prize) Radius() float64 { return p.Type.Radius }

// Score returns the prize's score value.
func (p *Prize) Score() int { return p.Type.Score }

// Hold hands the prize to the claw: its independent simulation is disabled.
func (p *Prize) Hold() {
	p.State = StateHeld
	p.Body.Kinematic = true
	p.Body.Stop()
}

// MoveTo places a held prize at pos.
func (p *Prize) MoveTo(pos physics.Vec3) {
	p.Body.Pos = pos
}

// Drop returns a held prize to the simulation where it currently is.
func (p *Prize) Drop() {
	p.State = StateFree
	p.Body.Kinematic = false
	p.Body.Stop()
}
