package object

import (
	"math"
	"sync"

	"github.com/tomz197/clawmachine/internal/draw"
	"github.com/tomz197/clawmachine/internal/random"
)

var particlePool = sync.Pool{
	New: func() any {
		return &Particle{}
	},
}

// particleGravity pulls confetti down, in cabinet units per second squared.
const particleGravity = 6.0

// Particle is a short-lived confetti pixel in the front view plane.
type Particle struct {
	X, Y        float64 // Cabinet X/Y
	VX, VY      float64
	Lifetime    float64 // Seconds remaining
	MaxLifetime float64
	Drag        float64 // Velocity kept per 1/60 s
	Pen         draw.Pen
}

// NewParticle takes a particle from the pool.
func NewParticle(x, y, vx, vy, lifetime float64, pen draw.Pen) *Particle {
	p := particlePool.Get().(*Particle)
	*p = Particle{
		X: x, Y: y,
		VX: vx, VY: vy,
		Lifetime:    lifetime,
		MaxLifetime: lifetime,
		Drag:        0.95,
		Pen:         pen,
	}
	return p
}

// Release returns the particle to the pool.
func (p *Particle) Release() {
	particlePool.Put(p)
}

// Update moves the particle and reports whether it expired.
func (p *Particle) Update(dt float64) (remove bool) {
	p.Lifetime -= dt
	if p.Lifetime <= 0 {
		return true
	}
	drag := math.Pow(p.Drag, dt*60)
	p.VX *= drag
	p.VY = p.VY*drag - particleGravity*dt
	p.X += p.VX * dt
	p.Y += p.VY * dt
	return false
}

// Draw plots the particle; it disappears in the last quarter of its life.
func (p *Particle) Draw(ctx DrawContext) error {
	if p.MaxLifetime > 0 && p.Lifetime/p.MaxLifetime < 0.25 {
		return nil
	}
	pt := ctx.Layout.Front.Project(p.X, p.Y)
	ctx.Canvas.SetPen(p.Pen)
	ctx.Canvas.SetFloat(pt.X, pt.Y)
	return nil
}

// Effects owns the live particles of one client.
type Effects struct {
	particles []*Particle
	rng       random.Source
}

// NewEffects creates an empty effect set. A nil rng uses random.Default.
func NewEffects(rng random.Source) *Effects {
	if rng == nil {
		rng = random.Default()
	}
	return &Effects{rng: rng}
}

// Burst spawns count particles flying out of (x, y) in the front view plane.
func (e *Effects) Burst(x, y float64, count int, speed, lifetime float64, pen draw.Pen) {
	for i := 0; i < count; i++ {
		// Upper half circle so confetti sprays out of the chute
		angle := e.rng.Float64() * math.Pi
		spd := speed * (0.5 + e.rng.Float64())
		life := lifetime * (0.5 + e.rng.Float64()*0.5)
		e.particles = append(e.particles,
			NewParticle(x, y, math.Cos(angle)*spd, math.Sin(angle)*spd, life, pen))
	}
}

// Update advances all particles and releases the expired ones.
func (e *Effects) Update(dt float64) {
	kept := e.particles[:0]
	for _, p := range e.particles {
		if p.Update(dt) {
			ReleaseObject(p)
			continue
		}
		kept = append(kept, p)
	}
	clear(e.particles[len(kept):])
	e.particles = kept
}

func (e *Effects) Draw(ctx DrawContext) error {
	for _, p := range e.particles {
		if err := p.Draw(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of live particles.
func (e *Effects) Len() int { return len(e.particles) }

// Clear releases every particle.
func (e *Effects) Clear() {
	for _, p := range e.particles {
		ReleaseObject(p)
	}
	clear(e.particles)
	e.particles = e.particles[:0]
}
