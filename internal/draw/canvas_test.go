package draw

import (
	"bytes"
	"strings"
	"testing"
)

func render(c *Canvas) string {
	var buf bytes.Buffer
	c.Render(&buf)
	return buf.String()
}

func TestRenderOnlyChangedCells(t *testing.T) {
	c := NewCanvas(4, 2)
	c.SetFloat(0, 0)

	first := render(c)
	if !strings.Contains(first, string(BlockUpperHalf)) {
		t.Fatalf("first frame missing the pixel: %q", first)
	}
	if got := strings.Count(first, " "); got != 7 {
		t.Fatalf("first frame wrote %d blank cells, want 7", got)
	}

	if out := render(c); out != "" {
		t.Fatalf("unchanged frame wrote %q", out)
	}

	c.SetFloat(0, 1) // Lower half of the same cell
	if out := render(c); !strings.HasPrefix(out, "\033[1;1H") || !strings.Contains(out, string(BlockFull)) {
		t.Fatalf("changed cell not rewritten: %q", out)
	}

	c.Clear()
	if out := render(c); !strings.Contains(out, "\033[1;1H ") {
		t.Fatalf("cleared cell not blanked: %q", out)
	}
}

func TestForceRedrawAndMarkTextDirty(t *testing.T) {
	c := NewCanvas(4, 2)
	render(c)

	c.MarkTextDirty(2, 2, 2)
	out := render(c)
	if out != "\033[2;2H  " {
		t.Fatalf("dirty cells = %q", out)
	}

	c.MarkTextDirty(4, 1, 10) // Clipped at the right edge
	c.MarkTextDirty(1, 9, 1)  // Off canvas
	if out := render(c); out != "\033[1;4H " {
		t.Fatalf("clipped dirty cells = %q", out)
	}

	c.ForceRedraw()
	if got := strings.Count(render(c), " "); got != 8 {
		t.Fatalf("force redraw wrote %d cells, want 8", got)
	}
}

func TestRenderAppliesOffsetAndPen(t *testing.T) {
	c := NewCanvas(2, 1)
	c.SetOffset(3, 5)
	c.SetPen(PenRed)
	c.SetFloat(1, 1)
	out := render(c)
	if !strings.Contains(out, "\033[6;4H") {
		t.Fatalf("offset not applied: %q", out)
	}
	if !strings.Contains(out, ColorRed+string(BlockLowerHalf)) || !strings.HasSuffix(out, ColorReset) {
		t.Fatalf("pen not applied: %q", out)
	}
}

func TestScaledDrawing(t *testing.T) {
	c := NewScaledCanvas(10, 5, 100, 100)
	c.DrawRect(Point{0, 0}, Point{90, 90})
	c.DrawCircle(Point{50, 50}, 20, 12, true)

	col, row := c.LogicalToTerminal(50, 50)
	if col != 6 || row != 3 {
		t.Fatalf("LogicalToTerminal = (%d, %d), want (6, 3)", col, row)
	}
	if c.pixels[5*c.termWidth+5] == PenNone {
		t.Fatal("filled circle center not set")
	}
	if c.pixels[0] == PenNone || c.pixels[len(c.pixels)-1] == PenNone {
		t.Fatal("rectangle corners not set")
	}
}
