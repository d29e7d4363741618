package claw

import (
	"errors"

	"github.com/tomz197/clawmachine/internal/prize"
	"github.com/tomz197/clawmachine/internal/random"
)

// ErrMissingRig is returned by NewController when no rig is given.
var ErrMissingRig = errors.New("claw: controller has no rig")

// Phase is the step of the drop sequence the controller is in.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseDescending
	PhaseWaitAtBottom
	PhaseGrabbing
	PhaseAscending
	PhaseSlipCheck
	PhaseReturning
	PhaseReleasing
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseDescending:
		return "descending"
	case PhaseWaitAtBottom:
		return "wait-at-bottom"
	case PhaseGrabbing:
		return "grabbing"
	case PhaseAscending:
		return "ascending"
	case PhaseSlipCheck:
		return "slip-check"
	case PhaseReturning:
		return "returning"
	case PhaseReleasing:
		return "releasing"
	default:
		return "unknown"
	}
}

// SequencerConfig tunes the drop sequence.
type SequencerConfig struct {
	DropSpeed       float64 // Cable growth per second while descending
	LiftSpeed       float64 // Cable shrink per second while ascending
	GrabDelay       float64 // Seconds at the bottom before closing
	GripSettle      float64 // Seconds after closing before lifting
	Cooldown        float64 // Seconds after releasing before the next drop
	GrabRadius      float64
	GripStrength    float64 // A slip happens when the draw exceeds this
	ReturnTolerance float64 // Anchor distance from origin counted as arrived
}

// Outcome summarizes one finished drop.
type Outcome struct {
	Grabbed   bool    // Something was picked up
	Slipped   bool    // It fell out during the slip check
	Delivered bool    // It was carried home and released
	PrizeID   int     // Zero when nothing was grabbed
	Score     int     // Value of the grabbed prize
	Duration  float64 // Seconds from drop to idle
}

// Controller runs the drop sequence on a rig. It is advanced by Tick once
// per simulation step; while a sequence is active it owns the rig and player
// input is ignored.
type Controller struct {
	rig *Rig
	cfg SequencerConfig
	rng random.Source

	phase   Phase
	timer   float64
	elapsed float64
	outcome Outcome

	onOutcome func(Outcome)
}

// NewController creates an idle controller. A nil rng uses random.Default.
func NewController(rig *Rig, cfg SequencerConfig, rng random.Source) (*Controller, error) {
	if rig == nil {
		return nil, ErrMissingRig
	}
	if rng == nil {
		rng = random.Default()
	}
	// Every phase must make progress for the sequence to end.
	if cfg.DropSpeed <= 0 {
		cfg.DropSpeed = 1
	}
	if cfg.LiftSpeed <= 0 {
		cfg.LiftSpeed = 1
	}
	if cfg.ReturnTolerance <= 0 {
		cfg.ReturnTolerance = 0.01
	}
	return &Controller{rig: rig, cfg: cfg, rng: rng}, nil
}

// OnOutcome registers a callback invoked when a sequence finishes.
func (c *Controller) OnOutcome(fn func(Outcome)) { c.onOutcome = fn }

// Phase returns the current phase.
func (c *Controller) Phase() Phase { return c.phase }

// Active reports whether a drop sequence is running.
func (c *Controller) Active() bool { return c.phase != PhaseIdle }

// Rig returns the controlled rig.
func (c *Controller) Rig() *Rig { return c.rig }

// Drop starts a sequence. Returns false, with no effect, if one is active.
func (c *Controller) Drop() bool {
	if c.Active() {
		return false
	}
	c.phase = PhaseDescending
	c.elapsed = 0
	c.outcome = Outcome{}
	c.rig.Grip().Open()
	return true
}

// ToggleGrip opens or closes the grip by hand. Only allowed while idle.
func (c *Controller) ToggleGrip() bool {
	if c.Active() {
		return false
	}
	c.rig.Grip().Toggle()
	return true
}

// Update applies one step of player input, then advances the sequence.
// Movement and drop requests are ignored while a sequence is active.
func (c *Controller) Update(moveX, moveZ float64, drop bool, dt float64) {
	if !c.Active() {
		c.rig.MoveAnchor(moveX, moveZ, dt)
		if drop {
			c.Drop()
		}
	}
	c.Tick(dt)
}

// Reset abandons any running sequence without reporting an outcome.
func (c *Controller) Reset() {
	c.phase = PhaseIdle
	c.timer = 0
	c.elapsed = 0
	c.outcome = Outcome{}
}

// Tick advances the sequence by dt seconds. dt <= 0 is a no-op.
func (c *Controller) Tick(dt float64) {
	if dt <= 0 || c.phase == PhaseIdle {
		return
	}
	c.elapsed += dt
	rig := c.rig

	switch c.phase {
	case PhaseDescending:
		rig.SetCableLength(rig.CableLength() + c.cfg.DropSpeed*dt)
		if rig.CableLength() >= rig.cfg.MaxDropDistance {
			c.wait(PhaseWaitAtBottom, c.cfg.GrabDelay)
		}

	case PhaseWaitAtBottom:
		if c.countdown(dt) {
			if pr := rig.TryGrab(rig.GrabPoint(), c.cfg.GrabRadius, prize.LayerGrabbable); pr != nil {
				c.outcome.Grabbed = true
				c.outcome.PrizeID = pr.ID
				c.outcome.Score = pr.Score()
			}
			rig.Grip().Close()
			c.wait(PhaseGrabbing, c.cfg.GripSettle)
		}

	case PhaseGrabbing:
		if c.countdown(dt) {
			c.phase = PhaseAscending
		}

	case PhaseAscending:
		rig.SetCableLength(rig.CableLength() - c.cfg.LiftSpeed*dt)
		if rig.CableLength() <= rig.cfg.MinCableLength {
			if rig.Held() == nil {
				c.finish()
			} else {
				c.phase = PhaseSlipCheck
			}
		}

	case PhaseSlipCheck:
		if c.rng.Float64() > c.cfg.GripStrength {
			rig.Release()
			c.outcome.Slipped = true
			c.finish()
			return
		}
		c.phase = PhaseReturning

	case PhaseReturning:
		delta := rig.Origin().Sub(rig.Anchor()).Horizontal()
		dist := delta.Len()
		if dist <= c.cfg.ReturnTolerance {
			rig.Grip().Open()
			rig.Release()
			c.outcome.Delivered = true
			c.wait(PhaseReleasing, c.cfg.Cooldown)
			return
		}
		// Full speed, except on the last step where the direction is
		// shortened to land on the origin.
		step := rig.cfg.MoveSpeed * dt
		dir := delta.Scale(1 / dist)
		if dist <= step {
			dir = delta.Scale(1 / step)
		}
		rig.MoveAnchor(dir.X, dir.Z, dt)

	case PhaseReleasing:
		if c.countdown(dt) {
			c.finish()
		}
	}
}

func (c *Controller) wait(next Phase, seconds float64) {
	c.phase = next
	c.timer = seconds
}

// countdown consumes dt from the phase timer and reports whether it ran out.
func (c *Controller) countdown(dt float64) bool {
	c.timer -= dt
	return c.timer <= 0
}

func (c *Controller) finish() {
	c.phase = PhaseIdle
	c.outcome.Duration = c.elapsed
	if c.onOutcome != nil {
		c.onOutcome(c.outcome)
	}
}
