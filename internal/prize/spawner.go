package prize

import (
	"github.com/tomz197/clawmachine/internal/physics"
	"github.com/tomz197/clawmachine/internal/random"
)

// DefaultWeightConstant is K in the selection weight K/(score+1).
const DefaultWeightConstant = 1000.0

// Bounds is an axis-aligned box in cabinet space.
type Bounds struct {
	Min, Max physics.Vec3
}

// Contains reports whether pos lies inside the box (inclusive).
func (b Bounds) Contains(pos physics.Vec3) bool {
	return pos.X >= b.Min.X && pos.X <= b.Max.X &&
		pos.Y >= b.Min.Y && pos.Y <= b.Max.Y &&
		pos.Z >= b.Min.Z && pos.Z <= b.Max.Z
}

// SpawnerConfig tunes the spawn cycle.
type SpawnerConfig struct {
	Interval       float64        // Seconds between timed spawns (<= 0 disables the timer)
	InitialCount   int            // Burst spawned by Start
	WeightConstant float64        // K in K/(score+1); <= 0 uses DefaultWeightConstant
	Area           *Bounds        // Spawn volume; takes precedence over Points
	Points         []physics.Vec3 // Discrete spawn points
}

// Spawner activates pooled prizes on a fixed interval, choosing the prize
// type by inverse-value weighted random selection.
type Spawner struct {
	pool  *Pool
	cfg   SpawnerConfig
	rng   random.Source
	timer float64

	weights []float64 // Reused per pick
}

// NewSpawner creates a spawner drawing from pool.
func NewSpawner(pool *Pool, cfg SpawnerConfig, rng random.Source) *Spawner {
	if cfg.WeightConstant <= 0 {
		cfg.WeightConstant = DefaultWeightConstant
	}
	if rng == nil {
		rng = random.Default()
	}
	return &Spawner{
		pool: pool,
		cfg:  cfg,
		rng:  rng,
	}
}

// Weight returns the selection weight of a prize worth score.
func Weight(score int, k float64) float64 {
	return k / (float64(score) + 1)
}

// Start spawns the initial burst and arms the interval timer.
// Returns the number of prizes spawned.
func (s *Spawner) Start() int {
	s.timer = s.cfg.Interval
	n := 0
	for i := 0; i < s.cfg.InitialCount; i++ {
		if s.Spawn() != nil {
			n++
		}
	}
	return n
}

// Update advances the interval timer and spawns when it elapses.
// Returns the number of prizes spawned.
func (s *Spawner) Update(dt float64) int {
	if s.cfg.Interval <= 0 || dt <= 0 {
		return 0
	}
	n := 0
	s.timer -= dt
	for s.timer <= 0 {
		if s.Spawn() != nil {
			n++
		}
		s.timer += s.cfg.Interval
	}
	return n
}

// Spawn activates one prize at a spawn position. Returns nil and skips the
// cycle when there are no prize types, no spawn method, or the pool is capped.
func (s *Spawner) Spawn() *Prize {
	if s.pool == nil || len(s.pool.Types()) == 0 {
		return nil
	}

	pos, ok := s.spawnPosition()
	if !ok {
		return nil
	}

	typ := s.PickType()
	if typ == nil {
		return nil
	}
	pr := s.pool.Acquire(typ.Key)
	if pr == nil {
		return nil
	}
	s.pool.Activate(pr, pos)
	return pr
}

func (s *Spawner) spawnPosition() (physics.Vec3, bool) {
	switch {
	case s.cfg.Area != nil:
		a := s.cfg.Area
		return physics.Vec3{
			X: random.Range(s.rng, a.Min.X, a.Max.X),
			Y: random.Range(s.rng, a.Min.Y, a.Max.Y),
			Z: random.Range(s.rng, a.Min.Z, a.Max.Z),
		}, true
	case len(s.cfg.Points) > 0:
		return s.cfg.Points[random.Intn(s.rng, len(s.cfg.Points))], true
	default:
		return physics.Vec3{}, false
	}
}

// PickType selects a prize type with probability proportional to
// K/(score+1). The first type whose cumulative weight reaches the draw wins,
// so ties fall to the earlier type.
func (s *Spawner) PickType() *Type {
	types := s.pool.Types()
	if len(types) == 0 {
		return nil
	}

	s.weights = s.weights[:0]
	total := 0.0
	for _, t := range types {
		w := Weight(t.Score, s.cfg.WeightConstant)
		s.weights = append(s.weights, w)
		total += w
	}

	draw := s.rng.Float64() * total
	cursor := 0.0
	for i, t := range types {
		cursor += s.weights[i]
		if cursor >= draw {
			return t
		}
	}
	return types[0]
}
