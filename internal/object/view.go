package object

import (
	"github.com/tomz197/clawmachine/internal/draw"
	"github.com/tomz197/clawmachine/internal/prize"
)

// View maps a plane of the cabinet onto a rectangle of the logical canvas.
// U runs left to right; V runs bottom to top. The scale is uniform and the
// plane is centered in the rectangle.
type View struct {
	MinU, MaxU float64
	MinV, MaxV float64

	scale  float64
	left   float64 // Canvas X of MinU
	bottom float64 // Canvas Y of MinV
}

// NewView fits the cabinet range [minU,maxU] x [minV,maxV] into the canvas
// rectangle at (x, y) with the given size.
func NewView(x, y, width, height, minU, maxU, minV, maxV float64) View {
	v := View{MinU: minU, MaxU: maxU, MinV: minV, MaxV: maxV}
	spanU := max(maxU-minU, 1e-9)
	spanV := max(maxV-minV, 1e-9)
	v.scale = min(width/spanU, height/spanV)
	v.left = x + (width-spanU*v.scale)/2
	v.bottom = y + height - (height-spanV*v.scale)/2
	return v
}

// Project converts a cabinet (u, v) to canvas coordinates.
func (v View) Project(u, w float64) draw.Point {
	return draw.Point{
		X: v.left + (u-v.MinU)*v.scale,
		Y: v.bottom - (w-v.MinV)*v.scale,
	}
}

// Scale converts a cabinet length to canvas units.
func (v View) Scale(d float64) float64 { return d * v.scale }

// Layout is the split screen: the front view (X/Y) on the left shows height,
// the top view (X/Z) on the right shows where the claw is aiming.
type Layout struct {
	Front View
	Top   View
}

// NewLayout splits a logical canvas of the given size between the two
// views of a cabinet with walls and a gantry at gantryY.
func NewLayout(width, height float64, walls prize.Bounds, gantryY float64) Layout {
	const margin = 2.0
	half := width / 2
	top := max(gantryY+0.5, walls.Max.Y)
	return Layout{
		Front: NewView(margin, margin, half-2*margin, height-2*margin,
			walls.Min.X, walls.Max.X, walls.Min.Y, top),
		Top: NewView(half+margin, margin, half-2*margin, height-2*margin,
			walls.Min.X, walls.Max.X, walls.Min.Z, walls.Max.Z),
	}
}
