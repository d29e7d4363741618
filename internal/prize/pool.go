package prize

import (
	"github.com/tomz197/clawmachine/internal/physics"
)

// Pool keeps pre-instantiated prizes per type and reuses them via
// activate/retire instead of allocating per spawn.
//
// A type's pool grows by one instance when every instance is active at once.
// maxPerType caps that growth (0 means unbounded).
type Pool struct {
	types      []*Type
	buckets    map[string]*bucket
	floorY     float64
	maxPerType int
	nextID     int

	activeBuf []*Prize // Reused by Active()
}

type bucket struct {
	typ   *Type
	items []*Prize
}

// NewPool creates an empty pool. Prizes rest on floorY (their centers sit
// one radius above it).
func NewPool(floorY float64, maxPerType int) *Pool {
	if maxPerType < 0 {
		maxPerType = 0
	}
	return &Pool{
		buckets:    make(map[string]*bucket),
		floorY:     floorY,
		maxPerType: maxPerType,
	}
}

// Warmup registers each type and pre-instantiates perType inactive instances.
// Types with an already-registered key are ignored.
func (p *Pool) Warmup(types []Type, perType int) {
	for i := range types {
		t := types[i]
		if _, ok := p.buckets[t.Key]; ok {
			continue
		}
		typ := &t
		b := &bucket{typ: typ}
		p.buckets[t.Key] = b
		p.types = append(p.types, typ)
		for j := 0; j < perType; j++ {
			b.items = append(b.items, p.instantiate(typ))
		}
	}
}

func (p *Pool) instantiate(t *Type) *Prize {
	p.nextID++
	layer := t.Layer
	if layer == 0 {
		layer = LayerGrabbable
	}
	return &Prize{
		ID:    p.nextID,
		Type:  t,
		Body:  physics.NewBody(physics.Vec3{}, p.floorY+t.Radius),
		State: StateInactive,
		Layer: layer,
	}
}

// Types returns the registered prize types in registration order.
func (p *Pool) Types() []*Type {
	return p.types
}

// Acquire returns an inactive instance of the given type, growing the pool by
// exactly one instance if all are active. Returns nil for an unknown key or
// when the type is at its cap.
//
// The returned prize stays inactive until passed to Activate.
func (p *Pool) Acquire(key string) *Prize {
	b, ok := p.buckets[key]
	if !ok {
		return nil
	}
	for _, pr := range b.items {
		if !pr.Active() {
			return pr
		}
	}
	if p.maxPerType > 0 && len(b.items) >= p.maxPerType {
		return nil
	}
	pr := p.instantiate(b.typ)
	b.items = append(b.items, pr)
	return pr
}

// Activate puts an acquired prize into play at pos.
func (p *Pool) Activate(pr *Prize, pos physics.Vec3) {
	pr.Body.Pos = pos
	pr.Body.Stop()
	pr.Body.Kinematic = false
	pr.State = StateFree
}

// Retire marks a prize as scored, returning it to the pool.
func (p *Pool) Retire(pr *Prize) {
	pr.Body.Stop()
	pr.Body.Kinematic = false
	pr.State = StateScored
}

// Reset deactivates every instance without shrinking the pool.
func (p *Pool) Reset() {
	for _, t := range p.types {
		for _, pr := range p.buckets[t.Key].items {
			pr.Body.Stop()
			pr.Body.Kinematic = false
			pr.State = StateInactive
		}
	}
}

// Active returns the active prizes in type order. The returned slice is
// reused by the next call.
func (p *Pool) Active() []*Prize {
	p.activeBuf = p.activeBuf[:0]
	for _, t := range p.types {
		for _, pr := range p.buckets[t.Key].items {
			if pr.Active() {
				p.activeBuf = append(p.activeBuf, pr)
			}
		}
	}
	return p.activeBuf
}

// ActiveCount returns the number of active prizes.
func (p *Pool) ActiveCount() int {
	n := 0
	for _, b := range p.buckets {
		for _, pr := range b.items {
			if pr.Active() {
				n++
			}
		}
	}
	return n
}

// Size returns the number of instances owned for a type key.
func (p *Pool) Size(key string) int {
	if b, ok := p.buckets[key]; ok {
		return len(b.items)
	}
	return 0
}

// Total returns the number of instances owned across all types.
func (p *Pool) Total() int {
	n := 0
	for _, b := range p.buckets {
		n += len(b.items)
	}
	return n
}
