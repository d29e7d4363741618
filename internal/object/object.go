// Package object draws the cabinet and its effects onto a draw.Canvas.
package object

import (
	"io"

	"github.com/tomz197/clawmachine/internal/draw"
)

// DrawContext provides drawing resources for objects.
type DrawContext struct {
	Canvas *draw.Canvas
	Writer io.Writer // Text overlays
	Layout Layout
}

// Object is something that can be drawn.
type Object interface {
	Draw(ctx DrawContext) error
}

// Releasable is implemented by pooled objects.
type Releasable interface {
	Release()
}

// ReleaseObject returns obj to its pool if it is pooled.
func ReleaseObject(obj any) {
	if r, ok := obj.(Releasable); ok {
		r.Release()
	}
}

// ShouldRenderBlink reports whether something blinking at frequency Hz is
// visible at time t seconds.
func ShouldRenderBlink(t, frequency float64) bool {
	if frequency <= 0 {
		return true
	}
	return int(t*frequency)%2 == 0
}
