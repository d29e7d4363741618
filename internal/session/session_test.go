package session

import (
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/tomz197/clawmachine/internal/claw"
	"github.com/tomz197/clawmachine/internal/config"
	"github.com/tomz197/clawmachine/internal/physics"
	"github.com/tomz197/clawmachine/internal/prize"
	"github.com/tomz197/clawmachine/internal/random"
)

// testSettings returns resolved defaults with an empty cabinet and a grip
// that never slips.
func testSettings(t *testing.T) config.Settings {
	t.Helper()
	d, err := config.Defaults()
	if err != nil {
		t.Fatal(err)
	}
	s, err := config.Resolve(d)
	if err != nil {
		t.Fatal(err)
	}
	s.Spawner.InitialCount = 0
	s.Spawner.Interval = 0
	s.Sequence.GripStrength = 1
	return s
}

func newTestSession(t *testing.T, s config.Settings) *Session {
	t.Helper()
	sess, err := NewFromSettings(s, random.NewSeeded(1), log.New(io.Discard))
	if err != nil {
		t.Fatalf("NewFromSettings: %v", err)
	}
	return sess
}

func (s *Session) place(key string, pos physics.Vec3) *prize.Prize {
	pr := s.pool.Acquire(key)
	s.pool.Activate(pr, pos)
	return pr
}

func countEvents(events []Event, kind EventKind) int {
	n := 0
	for _, e := range events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

func TestNewFromSettingsSpawnsInitialBurst(t *testing.T) {
	d, err := config.Defaults()
	if err != nil {
		t.Fatal(err)
	}
	s, err := config.Resolve(d)
	if err != nil {
		t.Fatal(err)
	}
	sess := newTestSession(t, s)

	if sess.State() != StateReady {
		t.Fatalf("state = %v, want ready", sess.State())
	}
	if got := sess.pool.ActiveCount(); got != s.Spawner.InitialCount {
		t.Fatalf("active = %d, want %d", got, s.Spawner.InitialCount)
	}
	snap := sess.Snapshot()
	if len(snap.Prizes) != s.Spawner.InitialCount {
		t.Fatalf("snapshot prizes = %d", len(snap.Prizes))
	}
	area := s.Spawner.Area
	for _, p := range snap.Prizes {
		if p.Pos.X < area.Min.X || p.Pos.X > area.Max.X || p.Pos.Z < area.Min.Z || p.Pos.Z > area.Max.Z {
			t.Errorf("prize %d spawned outside the area: %+v", p.ID, p.Pos)
		}
	}
	if snap.Claw.Anchor != (physics.Vec3{X: s.Claw.Origin.X, Y: s.Claw.Origin.Y, Z: s.Claw.Origin.Z}) {
		t.Fatalf("claw not at origin: %+v", snap.Claw.Anchor)
	}
}

func TestNewFromSettingsErrors(t *testing.T) {
	s := testSettings(t)
	s.Backend.Kind = "hydraulic"
	if _, err := NewFromSettings(s, nil, log.New(io.Discard)); !errors.Is(err, claw.ErrUnknownBackend) {
		t.Fatalf("err = %v, want ErrUnknownBackend", err)
	}

	s = testSettings(t)
	s.Claw.GrabPolicy = "greedy"
	if _, err := NewFromSettings(s, nil, log.New(io.Discard)); err == nil {
		t.Fatal("expected error for unknown grab policy")
	}

	if _, err := New(Deps{}); !errors.Is(err, ErrMissingDependency) {
		t.Fatalf("err = %v, want ErrMissingDependency", err)
	}
}

func TestUpdateIgnoredUntilStarted(t *testing.T) {
	sess := newTestSession(t, testSettings(t))
	before := sess.rig.Anchor()
	sess.Update(0.1, Input{MoveX: 1, Drop: true})
	if sess.rig.Anchor() != before || sess.board.Elapsed() != 0 {
		t.Fatal("simulation ran before start")
	}
	sess.Start()
	sess.Update(0.02, Input{})
	if sess.ctrl.Active() {
		t.Fatal("drop pressed on the ready screen leaked into play")
	}
}

func TestFixedStepAccumulator(t *testing.T) {
	s := testSettings(t)
	s.Game.FixedStep = 1.0 / 16
	sess := newTestSession(t, s)
	sess.Start()

	sess.Update(5.0/32, Input{}) // Two and a half steps
	if got := sess.board.Elapsed(); got != 2.0/16 {
		t.Fatalf("elapsed = %v, want %v", got, 2.0/16)
	}
	sess.Update(1.0/32, Input{}) // Completes the third
	if got := sess.board.Elapsed(); got != 3.0/16 {
		t.Fatalf("elapsed = %v, want %v", got, 3.0/16)
	}
	sess.Update(10, Input{}) // Capped
	if got := sess.board.Elapsed(); got != 3.0/16+maxFrame {
		t.Fatalf("elapsed = %v, want %v", got, 3.0/16+maxFrame)
	}
}

func TestDropPulseWaitsForNextStep(t *testing.T) {
	s := testSettings(t)
	s.Game.FixedStep = 1.0 / 16
	sess := newTestSession(t, s)
	sess.Start()

	sess.Update(1.0/32, Input{Drop: true})
	if sess.ctrl.Phase() != claw.PhaseIdle {
		t.Fatalf("phase = %v before any step", sess.ctrl.Phase())
	}
	sess.Update(1.0/32, Input{})
	if sess.ctrl.Phase() != claw.PhaseDescending {
		t.Fatalf("phase = %v, want descending", sess.ctrl.Phase())
	}
}

func TestToggleGripWhileIdle(t *testing.T) {
	sess := newTestSession(t, testSettings(t))
	sess.Start()
	sess.Update(0.02, Input{ToggleGrip: true})
	if !sess.rig.Grip().Opening() {
		t.Fatal("grip did not start opening")
	}
}

func TestPauseFreezesSimulation(t *testing.T) {
	sess := newTestSession(t, testSettings(t))
	sess.Start()
	if !sess.Pause() {
		t.Fatal("pause failed")
	}
	anchor := sess.rig.Anchor()
	sess.Update(0.1, Input{MoveX: 1})
	if sess.rig.Anchor() != anchor || sess.board.Elapsed() != 0 {
		t.Fatal("simulation ran while paused")
	}
	sess.Resume()
	sess.Update(0.1, Input{MoveX: 1})
	if sess.rig.Anchor().X <= anchor.X {
		t.Fatal("claw did not move after resume")
	}
}

func TestPrizeInChuteScores(t *testing.T) {
	sess := newTestSession(t, testSettings(t))
	sess.Start()
	pr := sess.place("Prize02", physics.Vec3{X: 1.5, Y: 2, Z: 1.5})

	sess.Update(0.02, Input{})

	if sess.board.Score() != 20 || sess.board.Collected() != 1 {
		t.Fatalf("score=%d collected=%d", sess.board.Score(), sess.board.Collected())
	}
	if pr.State != prize.StateScored {
		t.Fatalf("prize state = %v", pr.State)
	}
	events := sess.Events()
	if len(events) != 1 || events[0].Kind != EventPrizeScored || events[0].Prize != "Bear" || events[0].Points != 20 {
		t.Fatalf("events = %+v", events)
	}
	if sess.Events() != nil {
		t.Fatal("events were not cleared")
	}
}

func TestWinningEndsGame(t *testing.T) {
	s := testSettings(t)
	s.Game.PrizesToWin = 2
	sess := newTestSession(t, s)
	sess.Start()
	sess.place("Prize01", physics.Vec3{X: 1, Y: 1, Z: 1})
	sess.place("Prize03", physics.Vec3{X: 2, Y: 1, Z: 2})

	sess.Update(0.02, Input{})

	if sess.State() != StateWon {
		t.Fatalf("state = %v, want won", sess.State())
	}
	events := sess.Events()
	if countEvents(events, EventPrizeScored) != 2 || countEvents(events, EventGameOver) != 1 {
		t.Fatalf("events = %+v", events)
	}
	last := events[len(events)-1]
	if last.Kind != EventGameOver || last.State != StateWon || last.Points != 60 {
		t.Fatalf("game over event = %+v", last)
	}

	elapsed := sess.board.Elapsed()
	sess.Update(1, Input{MoveX: 1})
	if sess.board.Elapsed() != elapsed || sess.Events() != nil {
		t.Fatal("simulation ran after game over")
	}
}

func TestTimeLimitLoses(t *testing.T) {
	s := testSettings(t)
	s.Game.FixedStep = 1.0 / 16
	s.Game.TimeLimit = 0.5
	sess := newTestSession(t, s)
	sess.Start()

	sess.Update(0.25, Input{})
	if sess.State() != StatePlaying {
		t.Fatalf("lost early: elapsed %v", sess.board.Elapsed())
	}
	sess.Update(0.25, Input{})
	if sess.State() != StateLost {
		t.Fatalf("state = %v, want lost", sess.State())
	}
	if n := countEvents(sess.Events(), EventGameOver); n != 1 {
		t.Fatalf("game over events = %d", n)
	}
}

func TestRestartClearsCabinet(t *testing.T) {
	s := testSettings(t)
	s.Spawner.InitialCount = 3
	sess := newTestSession(t, s)
	sess.Start()
	for i := 0; i < 30; i++ {
		sess.Update(0.02, Input{MoveX: 1, MoveZ: 1})
	}
	sess.Update(0.02, Input{Drop: true})
	held := sess.place("Prize01", sess.rig.GrabPoint())
	if sess.rig.TryGrab(held.Position(), 1, prize.LayerAll) != held {
		t.Fatal("setup: grab failed")
	}

	sess.Restart()

	if held.State != prize.StateInactive || sess.rig.Held() != nil {
		t.Fatalf("held prize survived restart: %v", held.State)
	}
	if sess.State() != StatePlaying || sess.board.Score() != 0 || sess.board.Elapsed() != 0 {
		t.Fatalf("scoreboard not reset: %v %d %v", sess.State(), sess.board.Score(), sess.board.Elapsed())
	}
	if sess.ctrl.Active() || sess.rig.Anchor() != sess.rig.Origin() {
		t.Fatalf("claw not reset: phase=%v anchor=%+v", sess.ctrl.Phase(), sess.rig.Anchor())
	}
	if got := sess.pool.ActiveCount(); got != 3 {
		t.Fatalf("active after restart = %d, want the initial burst of 3", got)
	}
	if sess.Events() != nil {
		t.Fatal("events survived restart")
	}
}

func TestClawDeliversPrizeIntoChute(t *testing.T) {
	tests := []struct {
		kind  string
		speed float64 // Gantry speed, 0 keeps the default
	}{
		{kind: claw.BackendRigid},
		{kind: claw.BackendTween},
		// The spring body swings behind the anchor; a slower gantry keeps the
		// swing inside the chute when the prize is released.
		{kind: claw.BackendSpring, speed: 1.5},
	}
	for _, tc := range tests {
		t.Run(tc.kind, func(t *testing.T) {
			s := testSettings(t)
			s.Backend.Kind = tc.kind
			if tc.speed > 0 {
				s.Claw.MoveSpeed = tc.speed
			}
			sess := newTestSession(t, s)
			sess.Start()
			duck := sess.place("Prize01", physics.Vec3{X: 6, Y: 0.6, Z: s.Claw.Origin.Z})

			// Park the claw above the duck and let it settle.
			for i := 0; sess.rig.Anchor().X < duck.Position().X; i++ {
				if i > 1000 {
					t.Fatal("claw never reached the prize")
				}
				sess.Update(0.02, Input{MoveX: 1})
			}
			for i := 0; i < 300; i++ {
				sess.Update(0.02, Input{})
			}

			sess.Update(0.02, Input{Drop: true})
			var events []Event
			for i := 0; sess.ctrl.Active() || sess.board.Collected() == 0; i++ {
				if i > 5000 {
					t.Fatalf("stuck: phase=%v duck=%v at %+v", sess.ctrl.Phase(), duck.State, duck.Position())
				}
				sess.Update(0.02, Input{})
				events = append(events, sess.Events()...)
			}

			if sess.board.Score() != 10 {
				t.Fatalf("score = %d, want 10", sess.board.Score())
			}
			var outcome *claw.Outcome
			for _, e := range events {
				if e.Kind == EventDropFinished {
					outcome = &e.Outcome
				}
			}
			if outcome == nil || !outcome.Grabbed || !outcome.Delivered || outcome.PrizeID != duck.ID {
				t.Fatalf("outcome = %+v", outcome)
			}
		})
	}
}

func TestSceneryPrizeIsNeverGrabbed(t *testing.T) {
	s := testSettings(t)
	s.Prizes = append(s.Prizes, config.PrizeSettings{Key: "Rock", Name: "Rock", Score: 1, Scenery: true})
	sess := newTestSession(t, s)
	sess.Start()
	rock := sess.place("Rock", physics.Vec3{X: 6, Y: 0.6, Z: s.Claw.Origin.Z})
	if rock.Layer != prize.LayerScenery {
		t.Fatalf("layer = %v, want scenery", rock.Layer)
	}

	for i := 0; sess.rig.Anchor().X < rock.Position().X; i++ {
		if i > 1000 {
			t.Fatal("claw never reached the prize")
		}
		sess.Update(0.02, Input{MoveX: 1})
	}
	sess.Update(0.02, Input{Drop: true})

	var outcome *claw.Outcome
	for i := 0; outcome == nil; i++ {
		if i > 5000 {
			t.Fatalf("drop never finished: phase=%v", sess.ctrl.Phase())
		}
		sess.Update(0.02, Input{})
		if sess.rig.Held() == rock {
			t.Fatal("scenery prize was grabbed")
		}
		for _, e := range sess.Events() {
			if e.Kind == EventDropFinished {
				outcome = &e.Outcome
			}
		}
	}
	if outcome.Grabbed || rock.State != prize.StateFree {
		t.Fatalf("outcome = %+v, rock %v", outcome, rock.State)
	}
}
