package config

import (
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestDefaultsResolve(t *testing.T) {
	d, err := Defaults()
	if err != nil {
		t.Fatalf("Defaults: %v", err)
	}
	s, err := Resolve(d)
	if err != nil {
		t.Fatalf("defaults do not validate: %v", err)
	}
	if s.Difficulty != "medium" || s.Game.PrizesToWin != 5 || s.Game.TimeLimit != 120 {
		t.Fatalf("medium preset not applied: %+v", s.Game)
	}
	if s.Claw.MoveSpeed != d.Claw.MoveSpeed {
		t.Fatalf("medium changed claw speed: %v", s.Claw.MoveSpeed)
	}
	if len(s.Prizes) != 4 || s.Spawner.Area == nil {
		t.Fatalf("default prizes/area missing: %d %v", len(s.Prizes), s.Spawner.Area)
	}
}

func TestParseOverlaysPresentKeys(t *testing.T) {
	doc := `
claw:
  move_speed: 5
backend:
  kind: tween
prizes:
  - { key: A, name: Apple, score: 3 }
  - { key: R, name: Rock, score: 1, scenery: true }
`
	s, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if s.Claw.MoveSpeed != 5 {
		t.Errorf("move_speed = %v, want 5", s.Claw.MoveSpeed)
	}
	if s.Claw.MinCableLength != 0.5 || s.Claw.GrabPolicy != "nearest" {
		t.Errorf("unset claw keys lost their defaults: %+v", s.Claw)
	}
	if s.Backend.Kind != "tween" || s.Backend.Stiffness != 60 {
		t.Errorf("backend overlay = %+v", s.Backend)
	}
	if len(s.Prizes) != 2 || s.Prizes[0].Key != "A" {
		t.Fatalf("prizes should be replaced whole, got %+v", s.Prizes)
	}
	if s.Prizes[0].Scenery || !s.Prizes[1].Scenery {
		t.Errorf("scenery flags = %v %v, want false true", s.Prizes[0].Scenery, s.Prizes[1].Scenery)
	}
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	if _, err := Parse([]byte("claw:\n  warp_speed: 9\n")); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestParseEmptyDocument(t *testing.T) {
	for _, doc := range []string{"", "   \n", "# only a comment\n"} {
		s, err := Parse([]byte(doc))
		if err != nil {
			t.Fatalf("Parse(%q): %v", doc, err)
		}
		if s.Game.PrizesToWin != 5 {
			t.Fatalf("Parse(%q) lost defaults", doc)
		}
	}
}

func TestApplyDifficulty(t *testing.T) {
	base, err := Defaults()
	if err != nil {
		t.Fatal(err)
	}
	cases := []struct {
		name  string
		win   int
		limit float64
		mult  float64
	}{
		{"easy", 3, 200, 1.0},
		{"Medium", 5, 120, 1.0},
		{"hard", 7, 80, 1.15},
		{"EXPERT", 10, 60, 1.3},
	}
	for _, c := range cases {
		s := base
		s.Difficulty = c.name
		got, err := ApplyDifficulty(s)
		if err != nil {
			t.Fatalf("%s: %v", c.name, err)
		}
		if got.Game.PrizesToWin != c.win || got.Game.TimeLimit != c.limit {
			t.Errorf("%s: game = %+v", c.name, got.Game)
		}
		if want := base.Claw.MoveSpeed * c.mult; math.Abs(got.Claw.MoveSpeed-want) > 1e-9 {
			t.Errorf("%s: move speed = %v, want %v", c.name, got.Claw.MoveSpeed, want)
		}
		if want := base.Sequence.DropSpeed * c.mult; math.Abs(got.Sequence.DropSpeed-want) > 1e-9 {
			t.Errorf("%s: drop speed = %v, want %v", c.name, got.Sequence.DropSpeed, want)
		}
	}

	custom := base
	custom.Difficulty = "custom"
	custom.Game.PrizesToWin = 42
	got, err := ApplyDifficulty(custom)
	if err != nil || got.Game.PrizesToWin != 42 {
		t.Fatalf("custom difficulty changed game: %+v, %v", got.Game, err)
	}

	bad := base
	bad.Difficulty = "nightmare"
	_, err = ApplyDifficulty(bad)
	if !errors.Is(err, ErrInvalidSettings) {
		t.Fatalf("unknown difficulty: err = %v, want ErrInvalidSettings", err)
	}
	if !strings.Contains(err.Error(), "easy, medium, hard, expert, custom") {
		t.Errorf("error %q does not list the presets", err)
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	s, err := Defaults()
	if err != nil {
		t.Fatal(err)
	}
	s.Sequence.GripStrength = 1.5
	s.Claw.MaxDropDistance = 0.1
	s.Backend.Kind = "hydraulic"
	s.Prizes = append(s.Prizes, PrizeSettings{Key: "Prize01", Score: 0})

	err = Validate(s)
	if !errors.Is(err, ErrInvalidSettings) {
		t.Fatalf("err = %v, want ErrInvalidSettings", err)
	}
	for _, want := range []string{
		"sequence.grip_strength",
		"claw.max_drop_distance",
		"backend.kind",
		`prizes[4].key "Prize01" is duplicated`,
		"prizes[4].score",
	} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}
}

func TestValidateAllowsEmptyPrizeList(t *testing.T) {
	s, err := Defaults()
	if err != nil {
		t.Fatal(err)
	}
	s.Prizes = nil
	if err := Validate(s); err != nil {
		t.Fatalf("empty prize list should be allowed: %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	s, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("missing file: %v", err)
	}
	if s.Game.PrizesToWin != 5 {
		t.Fatal("missing file should yield defaults")
	}

	path := filepath.Join(t.TempDir(), "claw.yaml")
	if err := os.WriteFile(path, []byte("difficulty: easy\nseed: 7\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err = LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if s.Difficulty != "easy" || s.Seed != 7 {
		t.Fatalf("file not applied: %q %d", s.Difficulty, s.Seed)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv(EnvDifficulty, "hard")
	t.Setenv(EnvSeed, "42")
	s, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Game.PrizesToWin != 7 || s.Seed != 42 {
		t.Fatalf("env overrides not applied: win=%d seed=%d", s.Game.PrizesToWin, s.Seed)
	}

	t.Setenv(EnvSeed, "not-a-number")
	if _, err := Load(""); err == nil {
		t.Fatal("expected error for bad seed")
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("CLAW_TEST_VALUE", "x")
	if got := GetEnv("CLAW_TEST_VALUE", "y"); got != "x" {
		t.Fatalf("GetEnv = %q", got)
	}
	if got := GetEnv("CLAW_TEST_UNSET", "y"); got != "y" {
		t.Fatalf("GetEnv fallback = %q", got)
	}
}

func TestFileWatcherDetectsChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "claw.yaml")
	if err := os.WriteFile(path, []byte("seed: 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	changed := make(chan string, 4)
	w := NewFileWatcher([]string{path}, 10*time.Millisecond, func(p string) { changed <- p })
	w.Start()
	defer w.Stop()

	future := time.Now().Add(time.Hour)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-changed:
		if got != path {
			t.Fatalf("changed path = %q", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not report the change")
	}

	w.Stop() // Second call must not panic
}

func TestStoreReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "claw.yaml")
	write := func(doc string) {
		t.Helper()
		if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	write("difficulty: easy\n")
	initial, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	store := NewStore(path, initial, log.New(io.Discard))

	write("sequence:\n  grip_strength: 2\n")
	if err := store.Reload(); err == nil {
		t.Fatal("invalid settings were accepted")
	}
	if store.Current().Game.PrizesToWin != 3 {
		t.Fatal("rejected reload replaced the settings")
	}

	write("difficulty: expert\n")
	if err := store.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if store.Current().Game.PrizesToWin != 10 {
		t.Fatalf("reload not applied: %+v", store.Current().Game)
	}
}

func TestNewLoggerLevelFromEnv(t *testing.T) {
	t.Setenv(EnvLogLevel, "debug")
	if got := NewLogger(io.Discard, "claw").GetLevel(); got != log.DebugLevel {
		t.Errorf("level = %v, want debug", got)
	}
	t.Setenv(EnvLogLevel, "loud")
	if got := NewLogger(io.Discard, "claw").GetLevel(); got != log.InfoLevel {
		t.Errorf("level = %v, want info fallback", got)
	}
}
