package session

import (
	"github.com/tomz197/clawmachine/internal/physics"
	"github.com/tomz197/clawmachine/internal/prize"
)

// Chute is the collection volume: an X/Z rectangle open from the floor up
// to Top. A free prize whose center drops into it is scored.
type Chute struct {
	MinX, MaxX float64
	MinZ, MaxZ float64
	Top        float64
}

// Contains reports whether pos is inside the chute volume.
func (c Chute) Contains(pos physics.Vec3) bool {
	return pos.X >= c.MinX && pos.X <= c.MaxX &&
		pos.Z >= c.MinZ && pos.Z <= c.MaxZ &&
		pos.Y <= c.Top
}

// Collect scores every free prize inside the chute through onScore and
// retires it to the pool. Returns the number collected.
func (c Chute) Collect(pool *prize.Pool, onScore func(*prize.Prize)) int {
	if pool == nil {
		return 0
	}
	n := 0
	for _, pr := range pool.Active() {
		if pr.State != prize.StateFree || !c.Contains(pr.Position()) {
			continue
		}
		if onScore != nil {
			onScore(pr)
		}
		pool.Retire(pr)
		n++
	}
	return n
}
