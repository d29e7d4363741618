package session

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/tomz197/clawmachine/internal/claw"
	"github.com/tomz197/clawmachine/internal/config"
	"github.com/tomz197/clawmachine/internal/physics"
	"github.com/tomz197/clawmachine/internal/prize"
	"github.com/tomz197/clawmachine/internal/random"
)

// NewFromSettings builds a complete cabinet from resolved settings. A nil rng
// is seeded from settings.Seed, or drawn from crypto/rand when the seed is 0.
func NewFromSettings(settings config.Settings, rng random.Source, logger *log.Logger) (*Session, error) {
	if rng == nil {
		if settings.Seed != 0 {
			rng = random.NewSeeded(settings.Seed)
		} else {
			rng = random.Default()
		}
	}
	if logger == nil {
		logger = log.Default()
	}

	cab := settings.Cabinet
	floor := cab.Walls.Min.Y

	pool := prize.NewPool(floor, settings.Spawner.MaxPerType)
	types := make([]prize.Type, 0, len(settings.Prizes))
	for _, p := range settings.Prizes {
		t := prize.NewType(p.Key, p.Name, p.Score, p.BaseRadius)
		if p.Scenery {
			t.Layer = prize.LayerScenery
		}
		types = append(types, t)
	}
	pool.Warmup(types, settings.Spawner.PoolSizePerType)

	field := prize.NewField(pool, box(cab.Walls), cab.CellSize)

	sp := settings.Spawner
	spawnCfg := prize.SpawnerConfig{
		Interval:       sp.Interval,
		InitialCount:   sp.InitialCount,
		WeightConstant: sp.WeightConstant,
	}
	if sp.Area != nil {
		area := box(*sp.Area)
		spawnCfg.Area = &area
	}
	for _, p := range sp.Points {
		spawnCfg.Points = append(spawnCfg.Points, vec(p))
	}
	spawner := prize.NewSpawner(pool, spawnCfg, rng)

	cl := settings.Claw
	policy, err := claw.ParseGrabPolicy(cl.GrabPolicy)
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	// The body rests where its grab point touches the floor.
	backend, err := claw.NewBackend(claw.BackendConfig{
		Kind:        settings.Backend.Kind,
		FloorY:      floor + cl.GrabOffset,
		Drag:        settings.Backend.Drag,
		Stiffness:   settings.Backend.Stiffness,
		Damping:     settings.Backend.Damping,
		FollowSpeed: settings.Backend.FollowSpeed,
	})
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	rig, err := claw.NewRig(claw.RigConfig{
		Origin:          vec(cl.Origin),
		Bounds:          claw.Bounds{MinX: cl.Bounds.MinX, MaxX: cl.Bounds.MaxX, MinZ: cl.Bounds.MinZ, MaxZ: cl.Bounds.MaxZ},
		MoveSpeed:       cl.MoveSpeed,
		MinCableLength:  cl.MinCableLength,
		MaxDropDistance: cl.MaxDropDistance,
		GrabOffset:      cl.GrabOffset,
		GrabPolicy:      policy,
	}, backend, claw.NewGrip(cl.OpenAngle, cl.GripSpeed), field)
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}

	q := settings.Sequence
	ctrl, err := claw.NewController(rig, claw.SequencerConfig{
		DropSpeed:       q.DropSpeed,
		LiftSpeed:       q.LiftSpeed,
		GrabDelay:       q.GrabDelay,
		GripSettle:      q.GripSettle,
		Cooldown:        q.Cooldown,
		GrabRadius:      q.GrabRadius,
		GripStrength:    q.GripStrength,
		ReturnTolerance: q.ReturnTolerance,
	}, rng)
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}

	return New(Deps{
		Controller: ctrl,
		Pool:       pool,
		Field:      field,
		Spawner:    spawner,
		Chute: Chute{
			MinX: cab.Chute.MinX,
			MaxX: cab.Chute.MaxX,
			MinZ: cab.Chute.MinZ,
			MaxZ: cab.Chute.MaxZ,
			Top:  cab.ChuteTop,
		},
		Scoreboard: NewScoreboard(settings.Game.PrizesToWin, settings.Game.TimeLimit),
		FixedStep:  settings.Game.FixedStep,
		Logger:     logger,
	})
}

func vec(v config.Vec) physics.Vec3 { return physics.Vec3{X: v.X, Y: v.Y, Z: v.Z} }

func box(b config.Box) prize.Bounds { return prize.Bounds{Min: vec(b.Min), Max: vec(b.Max)} }
