package object

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/tomz197/clawmachine/internal/draw"
	"github.com/tomz197/clawmachine/internal/physics"
	"github.com/tomz197/clawmachine/internal/prize"
	"github.com/tomz197/clawmachine/internal/random"
	"github.com/tomz197/clawmachine/internal/session"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestViewProjectsUniformlyAndCentered(t *testing.T) {
	// A 10x5 plane into a 40x40 rectangle: scale 4, centered vertically.
	v := NewView(0, 0, 40, 40, 0, 10, 0, 5)

	bl := v.Project(0, 0)
	if !near(bl.X, 0) || !near(bl.Y, 30) {
		t.Fatalf("bottom-left = %+v, want (0, 30)", bl)
	}
	tr := v.Project(10, 5)
	if !near(tr.X, 40) || !near(tr.Y, 10) {
		t.Fatalf("top-right = %+v, want (40, 10)", tr)
	}
	if !near(v.Scale(2), 8) {
		t.Fatalf("Scale(2) = %v", v.Scale(2))
	}
}

func TestLayoutSplitsCanvas(t *testing.T) {
	walls := prize.Bounds{Max: physics.Vec3{X: 12, Y: 10, Z: 8}}
	l := NewLayout(120, 80, walls, 7)
	if p := l.Front.Project(12, 0); p.X > 60 {
		t.Fatalf("front view spills into the right half: %+v", p)
	}
	if p := l.Top.Project(0, 0); p.X < 60 {
		t.Fatalf("top view starts in the left half: %+v", p)
	}
}

func TestEffectsLifecycle(t *testing.T) {
	e := NewEffects(random.NewSeeded(3))
	e.Burst(1.5, 2.5, 12, 4, 1, draw.PenYellow)
	if e.Len() != 12 {
		t.Fatalf("Len = %d, want 12", e.Len())
	}
	for _, p := range e.particles {
		if p.VY < 0 {
			t.Fatalf("particle launched downward: %+v", p)
		}
	}

	e.Update(0.1)
	if e.Len() != 12 {
		t.Fatalf("particles expired early: %d", e.Len())
	}
	e.Update(1.1)
	if e.Len() != 0 {
		t.Fatalf("particles outlived their lifetime: %d", e.Len())
	}

	e.Burst(0, 0, 3, 1, 1, draw.PenRed)
	e.Clear()
	if e.Len() != 0 {
		t.Fatal("Clear left particles")
	}
}

func TestParticleFallsAndHidesWhenFading(t *testing.T) {
	p := NewParticle(0, 0, 0, 0, 1, draw.PenRed)
	defer p.Release()
	p.Update(0.5)
	if p.Y >= 0 {
		t.Fatalf("particle did not fall: y=%v", p.Y)
	}

	cv := draw.NewCanvas(20, 10)
	ctx := DrawContext{Canvas: cv, Layout: Layout{Front: NewView(0, 0, 20, 20, -5, 5, -5, 5)}}
	p.Lifetime = 0.1
	p.Draw(ctx)
	var buf bytes.Buffer
	cv.Render(&buf)
	if strings.ContainsAny(buf.String(), "▀▄█") {
		t.Fatal("fading particle was drawn")
	}
}

func TestCabinetDrawsSnapshot(t *testing.T) {
	snap := &session.Snapshot{
		Walls:  prize.Bounds{Max: physics.Vec3{X: 12, Y: 10, Z: 8}},
		Chute:  session.Chute{MaxX: 3, MaxZ: 3, Top: 2.5},
		Prizes: []session.PrizeView{{Key: "Prize04", Score: 100, Pos: physics.Vec3{X: 6, Y: 0.3, Z: 4}, Radius: 0.3}},
		Claw: session.ClawView{
			Anchor:   physics.Vec3{X: 1.5, Y: 7, Z: 1.5},
			Body:     physics.Vec3{X: 1.5, Y: 6.5, Z: 1.5},
			Openness: 1,
		},
	}
	cv := draw.NewScaledCanvas(120, 40, 120, 80)
	ctx := DrawContext{Canvas: cv, Layout: NewLayout(120, 80, snap.Walls, snap.Claw.Anchor.Y)}
	if err := (Cabinet{Snapshot: snap}).Draw(ctx); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	cv.Render(&buf)
	out := buf.String()
	for _, color := range []string{draw.ColorGray, draw.ColorYellow, draw.ColorBrightCyan} {
		if !strings.Contains(out, color) {
			t.Errorf("render missing color %q", color)
		}
	}

	if err := (Cabinet{}).Draw(ctx); err != nil {
		t.Fatal("nil snapshot should draw nothing")
	}
}

func TestPrizePen(t *testing.T) {
	cases := map[int]draw.Pen{10: draw.PenGreen, 20: draw.PenBlue, 50: draw.PenMagenta, 100: draw.PenYellow}
	for score, want := range cases {
		if got := PrizePen(score); got != want {
			t.Errorf("PrizePen(%d) = %v, want %v", score, got, want)
		}
	}
}
