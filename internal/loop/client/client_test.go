package client

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tomz197/clawmachine/internal/claw"
	settings "github.com/tomz197/clawmachine/internal/config"
	"github.com/tomz197/clawmachine/internal/draw"
	"github.com/tomz197/clawmachine/internal/loop/config"
	"github.com/tomz197/clawmachine/internal/loop/server"
	"github.com/tomz197/clawmachine/internal/physics"
	"github.com/tomz197/clawmachine/internal/session"
)

func TestScreenFor(t *testing.T) {
	tests := []struct {
		state    session.GameState
		shutdown bool
		want     Screen
	}{
		{session.StateReady, false, ScreenReady},
		{session.StatePlaying, false, ScreenPlaying},
		{session.StatePaused, false, ScreenPaused},
		{session.StateWon, false, ScreenGameOver},
		{session.StateLost, false, ScreenGameOver},
		{session.StatePlaying, true, ScreenShutdown},
	}
	for _, tc := range tests {
		if got := screenFor(tc.state, tc.shutdown); got != tc.want {
			t.Errorf("screenFor(%v, %v) = %v, want %v", tc.state, tc.shutdown, got, tc.want)
		}
	}
}

func TestDropMessage(t *testing.T) {
	tests := []struct {
		name    string
		outcome claw.Outcome
		want    string
	}{
		{"missed", claw.Outcome{}, "MISSED"},
		{"slipped", claw.Outcome{Grabbed: true, Slipped: true}, "SLIPPED!"},
		{"delivered", claw.Outcome{Grabbed: true, Delivered: true}, ""},
		{"dropped", claw.Outcome{Grabbed: true}, "DROPPED"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got, _ := dropMessage(tc.outcome); got != tc.want {
				t.Errorf("dropMessage = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestClampTermSize(t *testing.T) {
	w, h, col, row := clampTermSize(80, 24)
	if w != 80 || h != 24 || col != 0 || row != 0 {
		t.Errorf("small terminal = %d %d %d %d", w, h, col, row)
	}
	w, h, col, row = clampTermSize(config.MaxTermWidth+20, config.MaxTermHeight+10)
	if w != config.MaxTermWidth || h != config.MaxTermHeight || col != 10 || row != 5 {
		t.Errorf("large terminal = %d %d %d %d", w, h, col, row)
	}
}

func fixedSize(w, h int) draw.TermSizeFunc {
	return func() (int, int, error) { return w, h, nil }
}

func testServer(t *testing.T) *server.Server {
	t.Helper()
	d, err := settings.Defaults()
	if err != nil {
		t.Fatal(err)
	}
	s, err := settings.Resolve(d)
	if err != nil {
		t.Fatal(err)
	}
	s.Seed = 3
	return server.NewServer(server.StaticSettings(s), log.New(io.Discard))
}

func newTestClient(t *testing.T, srv *server.Server, keys string, out io.Writer) *Client {
	t.Helper()
	c, err := NewClient(srv, bufio.NewReader(strings.NewReader(keys)), out, ClientOptions{
		TermSizeFunc: fixedSize(100, 40),
		Username:     "tester",
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestEventsDriveMessagesAndEffects(t *testing.T) {
	c := newTestClient(t, testServer(t), "", io.Discard)

	c.handleEvent(server.ClientEvent{
		Type:    server.EventPrizeScored,
		Session: session.Event{Kind: session.EventPrizeScored, Prize: "Duck", Points: 10, Pos: physics.Vec3{X: 1, Y: 1}},
	})
	if c.state.message != "+10 Duck" {
		t.Errorf("message = %q", c.state.message)
	}
	if c.state.effects.Len() != config.ScoreBurstParticles {
		t.Errorf("particles = %d, want %d", c.state.effects.Len(), config.ScoreBurstParticles)
	}

	c.handleEvent(server.ClientEvent{
		Type:    server.EventDropFinished,
		Session: session.Event{Kind: session.EventDropFinished, Outcome: claw.Outcome{}},
	})
	if c.state.message != "MISSED" {
		t.Errorf("message = %q, want MISSED", c.state.message)
	}

	c.handleEvent(server.ClientEvent{Type: server.EventGameOver, Rank: 2})
	if c.state.lastRank != 2 {
		t.Errorf("rank = %d, want 2", c.state.lastRank)
	}

	c.handleEvent(server.ClientEvent{Type: server.EventServerShutdown})
	if c.state.Screen != ScreenShutdown || c.state.shutdownTimer != config.ShutdownDisplaySeconds {
		t.Errorf("shutdown not shown: screen %v timer %v", c.state.Screen, c.state.shutdownTimer)
	}
}

func TestDrawFrameShowsCabinetWhilePlaying(t *testing.T) {
	var out bytes.Buffer
	c := newTestClient(t, testServer(t), "", &out)
	snap := *c.handle.Snapshot()

	c.state.Screen = ScreenReady
	if err := c.drawFrame(&snap); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Claw Machine over SSH") {
		t.Error("start screen missing subtitle")
	}

	out.Reset()
	snap.State = session.StatePlaying
	c.state.Screen = ScreenPlaying
	if err := c.drawFrame(&snap); err != nil {
		t.Fatal(err)
	}
	got := out.String()
	if !strings.Contains(got, "Score: 0") {
		t.Error("HUD missing score")
	}
	if !strings.ContainsRune(got, draw.BlockFull) && !strings.ContainsRune(got, draw.BlockUpperHalf) &&
		!strings.ContainsRune(got, draw.BlockLowerHalf) {
		t.Error("cabinet not rendered")
	}
}

func TestRunQuitsAndUnregisters(t *testing.T) {
	srv := testServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go srv.Run(ctx)

	var out bytes.Buffer
	c := newTestClient(t, srv, "q", &out)

	done := make(chan error, 1)
	go func() { done <- c.Run() }()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("client did not quit")
	}

	waitPlayers(t, srv, 0)
}

var errBrokenPipe = errors.New("broken pipe")

// brokenWriter fails every write, like a dropped SSH channel.
type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) { return 0, errBrokenPipe }

func waitPlayers(t *testing.T, srv *server.Server, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for srv.GetSnapshot().Players != want {
		if time.Now().After(deadline) {
			t.Fatalf("players = %d, want %d", srv.GetSnapshot().Players, want)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestRunUnregistersOnWriteError(t *testing.T) {
	srv := testServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go srv.Run(ctx)

	c := newTestClient(t, srv, "", brokenWriter{})
	waitPlayers(t, srv, 1)

	done := make(chan error, 1)
	go func() { done <- c.Run() }()
	select {
	case err := <-done:
		if !errors.Is(err, errBrokenPipe) {
			t.Fatalf("Run: err = %v, want the write error", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run kept going after the writer failed")
	}

	waitPlayers(t, srv, 0)
}
