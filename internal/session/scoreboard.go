package session

// GameState is the state of one game on a cabinet.
type GameState int

const (
	StateReady GameState = iota
	StatePlaying
	StatePaused
	StateWon
	StateLost
)

func (s GameState) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateWon:
		return "won"
	case StateLost:
		return "lost"
	default:
		return "unknown"
	}
}

// Over reports whether the game has ended.
func (s GameState) Over() bool { return s == StateWon || s == StateLost }

// Scoreboard tracks the clock, the score and the win/lose thresholds.
type Scoreboard struct {
	PrizesToWin int
	TimeLimit   float64 // Seconds

	state     GameState
	elapsed   float64
	score     int
	collected int
}

// NewScoreboard creates a scoreboard in the ready state.
func NewScoreboard(prizesToWin int, timeLimit float64) *Scoreboard {
	return &Scoreboard{PrizesToWin: prizesToWin, TimeLimit: timeLimit}
}

// Start begins the game from the ready state.
func (b *Scoreboard) Start() bool {
	if b.state != StateReady {
		return false
	}
	b.state = StatePlaying
	return true
}

// Pause stops the clock.
func (b *Scoreboard) Pause() bool {
	if b.state != StatePlaying {
		return false
	}
	b.state = StatePaused
	return true
}

// Resume restarts the clock after a pause.
func (b *Scoreboard) Resume() bool {
	if b.state != StatePaused {
		return false
	}
	b.state = StatePlaying
	return true
}

// Restart clears the score and clock and starts playing.
func (b *Scoreboard) Restart() {
	b.elapsed = 0
	b.score = 0
	b.collected = 0
	b.state = StatePlaying
}

// Tick advances the clock while playing and ends the game when time runs out.
func (b *Scoreboard) Tick(dt float64) {
	if b.state != StatePlaying || dt <= 0 {
		return
	}
	b.elapsed += dt
	if b.TimeLimit > 0 && b.elapsed >= b.TimeLimit {
		b.elapsed = b.TimeLimit
		b.state = StateLost
	}
}

// AddScore records one collected prize worth points. Ignored unless playing.
func (b *Scoreboard) AddScore(points int) {
	if b.state != StatePlaying {
		return
	}
	b.score += points
	b.collected++
	if b.PrizesToWin > 0 && b.collected >= b.PrizesToWin {
		b.state = StateWon
	}
}

func (b *Scoreboard) State() GameState { return b.state }
func (b *Scoreboard) Elapsed() float64 { return b.elapsed }
func (b *Scoreboard) Score() int       { return b.score }
func (b *Scoreboard) Collected() int   { return b.collected }

// Remaining returns the seconds left on the clock.
func (b *Scoreboard) Remaining() float64 {
	return max(b.TimeLimit-b.elapsed, 0)
}
