package client

import (
	"time"

	"github.com/tomz197/clawmachine/internal/claw"
	"github.com/tomz197/clawmachine/internal/draw"
	"github.com/tomz197/clawmachine/internal/input"
	"github.com/tomz197/clawmachine/internal/object"
	"github.com/tomz197/clawmachine/internal/session"
)

// Screen is what the client is showing.
type Screen int

const (
	ScreenReady    Screen = iota // Title screen
	ScreenPlaying                // Cabinet and HUD
	ScreenPaused                 // Cabinet frozen behind a banner
	ScreenGameOver               // Result and leaderboard
	ScreenShutdown               // Server is shutting down
)

// screenFor maps the cabinet's game state to a screen. A server shutdown
// overrides everything.
func screenFor(state session.GameState, shuttingDown bool) Screen {
	if shuttingDown {
		return ScreenShutdown
	}
	switch state {
	case session.StatePlaying:
		return ScreenPlaying
	case session.StatePaused:
		return ScreenPaused
	case session.StateWon, session.StateLost:
		return ScreenGameOver
	default:
		return ScreenReady
	}
}

// ClientState holds per-player presentation state. Game state lives on the
// server; this is what the client derives from its snapshots and events.
type ClientState struct {
	Input      input.Input
	Layout     object.Layout
	Screen     Screen
	prevScreen Screen
	effects    *object.Effects

	termSizeFunc  draw.TermSizeFunc
	Running       bool
	delta         time.Duration // Frame delta time (client-side)
	clock         float64       // Seconds since start, drives blinking
	shuttingDown  bool
	shutdownTimer float64 // Countdown before auto-disconnect on shutdown
	isInactive    bool
	wasInactive   bool

	message      string // Drop result or score, shown for a moment
	messagePen   draw.Pen
	messageTimer float64
	lastRank     int // Leaderboard position of the last finished game
}

// NewClientState creates a new initialized client state.
func NewClientState() *ClientState {
	return &ClientState{
		Screen:     ScreenReady,
		prevScreen: ScreenReady,
		effects:    object.NewEffects(nil),
		Running:    true,
	}
}

func (s *ClientState) showMessage(msg string, pen draw.Pen, seconds float64) {
	s.message = msg
	s.messagePen = pen
	s.messageTimer = seconds
}

// dropMessage describes how a drop ended. Deliveries are announced by the
// score event instead.
func dropMessage(o claw.Outcome) (string, draw.Pen) {
	switch {
	case o.Slipped:
		return "SLIPPED!", draw.PenRed
	case !o.Grabbed:
		return "MISSED", draw.PenGray
	case o.Delivered:
		return "", draw.PenNone
	default:
		return "DROPPED", draw.PenRed
	}
}
