// Package session runs one claw machine game: the cabinet simulation on a
// fixed step, the collection chute and the scoreboard.
package session

import (
	"errors"

	"github.com/charmbracelet/log"
	"github.com/tomz197/clawmachine/internal/claw"
	"github.com/tomz197/clawmachine/internal/physics"
	"github.com/tomz197/clawmachine/internal/prize"
)

var ErrMissingDependency = errors.New("session: missing dependency")

// maxFrame caps the time consumed per Update so a stalled caller does not
// trigger a burst of catch-up steps.
const maxFrame = 0.25

// Input is the player input for one frame. Drop and ToggleGrip are pulses.
type Input struct {
	MoveX, MoveZ float64 // -1..1
	Drop         bool
	ToggleGrip   bool
}

// EventKind identifies a session event.
type EventKind int

const (
	EventPrizeScored EventKind = iota
	EventDropFinished
	EventGameOver
)

// Event is something the presentation layer may want to react to.
type Event struct {
	Kind    EventKind
	Prize   string // Name of the scored prize
	Points  int
	Pos     physics.Vec3 // Where it happened
	Outcome claw.Outcome
	State   GameState
}

// Deps are the components a session drives.
type Deps struct {
	Controller *claw.Controller
	Pool       *prize.Pool
	Field      *prize.Field
	Spawner    *prize.Spawner
	Chute      Chute
	Scoreboard *Scoreboard
	FixedStep  float64
	Logger     *log.Logger
}

// Session owns a cabinet. It is not safe for concurrent use; Snapshot
// returns copies that are.
type Session struct {
	ctrl    *claw.Controller
	rig     *claw.Rig
	pool    *prize.Pool
	field   *prize.Field
	spawner *prize.Spawner
	chute   Chute
	board   *Scoreboard
	logger  *log.Logger

	step        float64
	accumulator float64
	pendingDrop bool
	pendingGrip bool
	events      []Event
}

// New wires a session from its components and spawns the first prizes.
func New(d Deps) (*Session, error) {
	if d.Controller == nil || d.Pool == nil || d.Field == nil || d.Spawner == nil || d.Scoreboard == nil {
		return nil, ErrMissingDependency
	}
	if d.FixedStep <= 0 {
		d.FixedStep = 1.0 / 60.0
	}
	if d.Logger == nil {
		d.Logger = log.Default()
	}
	s := &Session{
		ctrl:    d.Controller,
		rig:     d.Controller.Rig(),
		pool:    d.Pool,
		field:   d.Field,
		spawner: d.Spawner,
		chute:   d.Chute,
		board:   d.Scoreboard,
		logger:  d.Logger,
		step:    d.FixedStep,
	}
	s.ctrl.OnOutcome(s.onOutcome)
	s.spawner.Start()
	return s, nil
}

// Start begins play from the ready screen.
func (s *Session) Start() {
	if s.board.Start() {
		s.logger.Info("game started", "prizes_to_win", s.board.PrizesToWin, "time_limit", s.board.TimeLimit)
	}
}

// Pause freezes the simulation and the clock.
func (s *Session) Pause() bool { return s.board.Pause() }

// Resume continues after Pause.
func (s *Session) Resume() bool { return s.board.Resume() }

// Restart clears the cabinet and starts a new game immediately.
func (s *Session) Restart() {
	// The rig lets go of its prize before the pool parks everything.
	s.ctrl.Reset()
	s.rig.Reset()
	s.pool.Reset()
	s.board.Restart()
	s.accumulator = 0
	s.pendingDrop = false
	s.pendingGrip = false
	s.events = s.events[:0]
	s.spawner.Start()
	s.logger.Info("game restarted")
}

// State returns the game state.
func (s *Session) State() GameState { return s.board.State() }

// Update consumes frameDt seconds of simulation in fixed steps. Nothing
// moves unless the game is playing. Pulses that arrive between steps are
// kept for the next step.
func (s *Session) Update(frameDt float64, in Input) {
	if s.board.State() != StatePlaying {
		return
	}
	s.pendingDrop = s.pendingDrop || in.Drop
	s.pendingGrip = s.pendingGrip || in.ToggleGrip
	if frameDt <= 0 {
		return
	}

	s.accumulator += min(frameDt, maxFrame)
	for s.accumulator >= s.step {
		s.accumulator -= s.step
		s.tick(in.MoveX, in.MoveZ)
		if s.board.State() != StatePlaying {
			s.accumulator = 0
			return
		}
	}
}

func (s *Session) tick(moveX, moveZ float64) {
	dt := s.step
	if s.pendingGrip {
		s.ctrl.ToggleGrip()
		s.pendingGrip = false
	}
	s.ctrl.Update(moveX, moveZ, s.pendingDrop, dt)
	s.pendingDrop = false

	s.rig.Step(dt)
	s.field.Step(dt)
	s.chute.Collect(s.pool, s.onScore)
	s.spawner.Update(dt)

	s.board.Tick(dt)
	if s.board.State().Over() {
		s.gameOver()
	}
}

func (s *Session) onScore(pr *prize.Prize) {
	if s.board.State() != StatePlaying {
		return
	}
	s.board.AddScore(pr.Score())
	s.logger.Info("prize scored", "prize", pr.Type.Name, "points", pr.Score(), "total", s.board.Score())
	s.events = append(s.events, Event{
		Kind:   EventPrizeScored,
		Prize:  pr.Type.Name,
		Points: pr.Score(),
		Pos:    pr.Position(),
		State:  s.board.State(),
	})
}

func (s *Session) onOutcome(o claw.Outcome) {
	s.logger.Debug("drop finished",
		"grabbed", o.Grabbed,
		"slipped", o.Slipped,
		"delivered", o.Delivered,
		"duration", o.Duration,
	)
	s.events = append(s.events, Event{
		Kind:    EventDropFinished,
		Outcome: o,
		Pos:     s.rig.GrabPoint(),
		State:   s.board.State(),
	})
}

func (s *Session) gameOver() {
	state := s.board.State()
	s.logger.Info("game over",
		"result", state,
		"score", s.board.Score(),
		"collected", s.board.Collected(),
		"elapsed", s.board.Elapsed(),
	)
	s.events = append(s.events, Event{Kind: EventGameOver, State: state, Points: s.board.Score()})
}

// Events returns the events since the last call and clears them.
func (s *Session) Events() []Event {
	if len(s.events) == 0 {
		return nil
	}
	out := make([]Event, len(s.events))
	copy(out, s.events)
	s.events = s.events[:0]
	return out
}
