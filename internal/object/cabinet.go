package object

import (
	"math"

	"github.com/tomz197/clawmachine/internal/draw"
	"github.com/tomz197/clawmachine/internal/physics"
	"github.com/tomz197/clawmachine/internal/session"
)

const (
	clawBodyRadius = 0.3
	prongLength    = 0.7
	maxProngSpread = 0.6 // Radians at full openness
	circleSegments = 14
)

// PrizePen colors a prize by its value.
func PrizePen(score int) draw.Pen {
	switch {
	case score <= 10:
		return draw.PenGreen
	case score <= 20:
		return draw.PenBlue
	case score <= 50:
		return draw.PenMagenta
	default:
		return draw.PenYellow
	}
}

// Cabinet draws one session snapshot in both views.
type Cabinet struct {
	Snapshot *session.Snapshot
}

var _ Object = Cabinet{}

func (c Cabinet) Draw(ctx DrawContext) error {
	if c.Snapshot == nil {
		return nil
	}
	s := c.Snapshot
	c.drawFront(ctx.Canvas, ctx.Layout.Front, s)
	c.drawTop(ctx.Canvas, ctx.Layout.Top, s)
	ctx.Canvas.SetPen(draw.PenDefault)
	return nil
}

func (c Cabinet) drawFront(cv *draw.Canvas, v View, s *session.Snapshot) {
	w := s.Walls
	cv.SetPen(draw.PenGray)
	cv.DrawRect(v.Project(w.Min.X, w.Min.Y), v.Project(w.Max.X, v.MaxV))

	cv.SetPen(draw.PenYellow)
	cv.DrawRect(v.Project(s.Chute.MinX, w.Min.Y), v.Project(s.Chute.MaxX, s.Chute.Top))

	// Gantry rail and cable
	cl := s.Claw
	cv.SetPen(draw.PenGray)
	cv.DrawLine(v.Project(s.Bounds.MinX, cl.Anchor.Y), v.Project(s.Bounds.MaxX, cl.Anchor.Y))
	cv.SetPen(draw.PenDefault)
	cv.DrawLine(v.Project(cl.Anchor.X, cl.Anchor.Y), v.Project(cl.Body.X, cl.Body.Y))

	for _, p := range s.Prizes {
		cv.SetPen(PrizePen(p.Score))
		cv.DrawCircle(v.Project(p.Pos.X, p.Pos.Y), v.Scale(p.Radius), circleSegments, p.Held)
	}

	// Claw body with two prongs that spread as the grip opens
	cv.SetPen(draw.PenCyan)
	body := v.Project(cl.Body.X, cl.Body.Y)
	cv.DrawCircle(body, v.Scale(clawBodyRadius), 8, true)
	spread := cl.Openness * maxProngSpread
	for _, side := range []float64{-1, 1} {
		a := side * (0.25 + spread)
		tip := physics.Vec3{
			X: cl.Body.X + math.Sin(a)*prongLength,
			Y: cl.Body.Y - math.Cos(a)*prongLength,
		}
		cv.DrawLine(body, v.Project(tip.X, tip.Y))
	}
}

func (c Cabinet) drawTop(cv *draw.Canvas, v View, s *session.Snapshot) {
	w := s.Walls
	cv.SetPen(draw.PenGray)
	cv.DrawRect(v.Project(w.Min.X, w.Min.Z), v.Project(w.Max.X, w.Max.Z))

	cv.SetPen(draw.PenYellow)
	cv.DrawRect(v.Project(s.Chute.MinX, s.Chute.MinZ), v.Project(s.Chute.MaxX, s.Chute.MaxZ))

	for _, p := range s.Prizes {
		cv.SetPen(PrizePen(p.Score))
		cv.DrawCircle(v.Project(p.Pos.X, p.Pos.Z), v.Scale(p.Radius), circleSegments, p.Held)
	}

	// Crosshair under the gantry
	cl := s.Claw
	cv.SetPen(draw.PenCyan)
	const arm = 0.6
	cv.DrawLine(v.Project(cl.Body.X-arm, cl.Body.Z), v.Project(cl.Body.X+arm, cl.Body.Z))
	cv.DrawLine(v.Project(cl.Body.X, cl.Body.Z-arm), v.Project(cl.Body.X, cl.Body.Z+arm))
}
