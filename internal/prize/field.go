package prize

import (
	"math"

	"github.com/tomz197/clawmachine/internal/physics"
)

// Contact tuning for the prize pile.
const (
	contactRestitution = 0.2  // Bounciness of prize-prize contacts
	floorFriction      = 0.05 // Horizontal speed retained per second while resting
	defaultCellSize    = 2.0  // Broad-phase cell edge
)

// Field simulates the free prizes inside the cabinet walls and answers
// spatial queries for the claw.
type Field struct {
	pool  *Pool
	walls Bounds
	grid  *physics.SpatialGrid

	maxRadius float64  // Largest free prize radius, bounds every neighbour query
	free      []*Prize // Free prizes indexed by the grid, rebuilt per reindex
	query     []*Prize // Reused result buffer for Within
}

// NewField creates a field over the wall footprint.
// cellSize only tunes the broad phase (<= 0 uses the default); prizes of any
// size are found.
func NewField(pool *Pool, walls Bounds, cellSize float64) *Field {
	if cellSize <= 0 {
		cellSize = defaultCellSize
	}
	return &Field{
		pool:  pool,
		walls: walls,
		grid:  physics.NewSpatialGrid(walls.Min.X, walls.Min.Z, walls.Max.X, walls.Max.Z, cellSize),
	}
}

// Walls returns the play-field footprint.
func (f *Field) Walls() Bounds { return f.walls }

// Step integrates every free prize, keeps it inside the walls and separates
// overlapping prizes.
func (f *Field) Step(dt float64) {
	if dt <= 0 {
		return
	}

	for _, pr := range f.pool.Active() {
		if pr.State != StateFree {
			continue
		}
		if pr.Body.Integrate(dt) {
			fr := math.Pow(floorFriction, dt)
			pr.Body.Vel.X *= fr
			pr.Body.Vel.Z *= fr
		}
		f.confine(pr)
	}

	f.reindex()
	f.resolveContacts()
}

// confine keeps a prize inside the wall footprint and kills its velocity
// into the wall.
func (f *Field) confine(pr *Prize) {
	r := pr.Radius()
	b := pr.Body
	if b.Pos.X < f.walls.Min.X+r {
		b.Pos.X = f.walls.Min.X + r
		if b.Vel.X < 0 {
			b.Vel.X = 0
		}
	} else if b.Pos.X > f.walls.Max.X-r {
		b.Pos.X = f.walls.Max.X - r
		if b.Vel.X > 0 {
			b.Vel.X = 0
		}
	}
	if b.Pos.Z < f.walls.Min.Z+r {
		b.Pos.Z = f.walls.Min.Z + r
		if b.Vel.Z < 0 {
			b.Vel.Z = 0
		}
	} else if b.Pos.Z > f.walls.Max.Z-r {
		b.Pos.Z = f.walls.Max.Z - r
		if b.Vel.Z > 0 {
			b.Vel.Z = 0
		}
	}
}

// reindex rebuilds the grid from the current free prizes.
func (f *Field) reindex() {
	f.grid.Clear()
	f.free = f.free[:0]
	f.maxRadius = 0
	for _, pr := range f.pool.Active() {
		if pr.State != StateFree {
			continue
		}
		f.maxRadius = max(f.maxRadius, pr.Radius())
		f.grid.Insert(pr.Body.Pos.X, pr.Body.Pos.Z, len(f.free))
		f.free = append(f.free, pr)
	}
}

// resolveContacts separates overlapping prizes using the grid for the broad phase.
func (f *Field) resolveContacts() {
	for i, a := range f.free {
		pa := a.Body.Pos
		f.grid.QueryAround(pa.X, pa.Z, a.Radius()+f.maxRadius, func(j int) bool {
			if j <= i {
				return false
			}
			b := f.free[j]
			dist := a.Body.Pos.Dist(b.Body.Pos)
			if dist < a.Radius()+b.Radius() && dist > 0 {
				separate(a, b, dist)
			}
			return false
		})
	}
}

// separate resolves a contact between two prizes with an area-weighted impulse.
func separate(a, b *Prize, dist float64) {
	n := b.Body.Pos.Sub(a.Body.Pos).Scale(1 / dist)

	// Relative velocity along the contact normal
	dvn := a.Body.Vel.Sub(b.Body.Vel).Dot(n)

	// Use radius squared as mass (area-based mass)
	m1 := a.Radius() * a.Radius()
	m2 := b.Radius() * b.Radius()
	total := m1 + m2

	if dvn > 0 {
		impulse := (1 + contactRestitution) * dvn / total
		a.Body.Vel = a.Body.Vel.Sub(n.Scale(impulse * m2))
		b.Body.Vel = b.Body.Vel.Add(n.Scale(impulse * m1))
	}

	overlap := a.Radius() + b.Radius() - dist
	if overlap > 0 {
		a.Body.Pos = a.Body.Pos.Sub(n.Scale(overlap * m2 / total))
		b.Body.Pos = b.Body.Pos.Add(n.Scale(overlap * m1 / total))
		a.Body.ResolveFloor()
		b.Body.ResolveFloor()
	}
}

// Within returns the free prizes on a layer selected by mask whose surface is
// within radius of point, in grid query order. The returned slice is reused
// by the next call.
func (f *Field) Within(point physics.Vec3, radius float64, mask Layer) []*Prize {
	f.reindex()
	f.query = f.query[:0]
	f.grid.QueryAround(point.X, point.Z, radius+f.maxRadius, func(i int) bool {
		pr := f.free[i]
		if !pr.Layer.Matches(mask) {
			return false
		}
		reach := radius + pr.Radius()
		if pr.Body.Pos.Sub(point).LenSq() <= reach*reach {
			f.query = append(f.query, pr)
		}
		return false
	})
	return f.query
}
