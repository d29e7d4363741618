package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidSettings is wrapped by every error returned from Validate.
var ErrInvalidSettings = errors.New("invalid settings")

// Validate checks the semantic constraints of resolved settings and reports
// every violation at once.
func Validate(s Settings) error {
	var errs []string
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Sprintf(format, args...))
	}

	// game
	if s.Game.PrizesToWin <= 0 {
		fail("game.prizes_to_win must be >= 1")
	}
	if s.Game.TimeLimit <= 0 {
		fail("game.time_limit must be > 0")
	}
	if s.Game.FixedStep <= 0 || s.Game.FixedStep > 0.1 {
		fail("game.fixed_step must be in (0, 0.1]")
	}

	// cabinet
	w := s.Cabinet.Walls
	if w.Min.X >= w.Max.X || w.Min.Z >= w.Max.Z {
		fail("cabinet.walls min must be below max on x and z")
	}
	if !rectValid(s.Cabinet.Chute) {
		fail("cabinet.chute min must not exceed max")
	}
	if s.Cabinet.ChuteTop <= w.Min.Y {
		fail("cabinet.chute_top must be above the floor")
	}
	if s.Cabinet.CellSize < 0 {
		fail("cabinet.cell_size must be >= 0 (0 means default)")
	}

	// claw
	c := s.Claw
	if !rectValid(c.Bounds) {
		fail("claw.bounds min must not exceed max")
	} else if c.Origin.X < c.Bounds.MinX || c.Origin.X > c.Bounds.MaxX ||
		c.Origin.Z < c.Bounds.MinZ || c.Origin.Z > c.Bounds.MaxZ {
		fail("claw.origin must lie inside claw.bounds")
	}
	if c.MoveSpeed <= 0 {
		fail("claw.move_speed must be > 0")
	}
	if c.MinCableLength < 0 {
		fail("claw.min_cable_length must be >= 0")
	}
	if c.MaxDropDistance < c.MinCableLength {
		fail("claw.max_drop_distance must be >= claw.min_cable_length")
	}
	if c.GrabOffset < 0 {
		fail("claw.grab_offset must be >= 0")
	}
	if c.Origin.Y <= w.Min.Y {
		fail("claw.origin.y must be above the floor")
	}
	switch strings.ToLower(c.GrabPolicy) {
	case "", "first", "nearest":
	default:
		fail("claw.grab_policy must be one of: first, nearest")
	}
	if c.OpenAngle < 0 || c.GripSpeed < 0 {
		fail("claw.open_angle and claw.grip_speed must be >= 0")
	}

	// sequence
	q := s.Sequence
	if q.DropSpeed <= 0 || q.LiftSpeed <= 0 {
		fail("sequence.drop_speed and sequence.lift_speed must be > 0")
	}
	if q.GrabDelay < 0 || q.GripSettle < 0 || q.Cooldown < 0 {
		fail("sequence delays must be >= 0")
	}
	if q.GrabRadius <= 0 {
		fail("sequence.grab_radius must be > 0")
	}
	if q.GripStrength < 0 || q.GripStrength > 1 {
		fail("sequence.grip_strength must be in [0,1]")
	}
	if q.ReturnTolerance < 0 {
		fail("sequence.return_tolerance must be >= 0")
	}

	// backend
	switch s.Backend.Kind {
	case "", "rigid", "spring", "tween":
	default:
		fail("backend.kind must be one of: rigid, spring, tween")
	}
	if s.Backend.Drag < 0 || s.Backend.Drag > 1 {
		fail("backend.drag must be in [0,1]")
	}
	if s.Backend.Stiffness < 0 || s.Backend.Damping < 0 || s.Backend.FollowSpeed < 0 {
		fail("backend.stiffness, damping and follow_speed must be >= 0")
	}

	// spawner
	sp := s.Spawner
	if sp.Interval < 0 {
		fail("spawner.interval must be >= 0 (0 disables timed spawns)")
	}
	if sp.InitialCount < 0 || sp.PoolSizePerType < 0 || sp.MaxPerType < 0 {
		fail("spawner counts must be >= 0")
	}
	if sp.MaxPerType > 0 && sp.PoolSizePerType > sp.MaxPerType {
		fail("spawner.pool_size_per_type must not exceed spawner.max_per_type")
	}
	if sp.WeightConstant < 0 {
		fail("spawner.weight_constant must be >= 0 (0 means default)")
	}
	if a := sp.Area; a != nil {
		if a.Min.X > a.Max.X || a.Min.Y > a.Max.Y || a.Min.Z > a.Max.Z {
			fail("spawner.area min must not exceed max")
		}
	}

	// prizes
	seen := make(map[string]bool, len(s.Prizes))
	for i, p := range s.Prizes {
		if p.Key == "" {
			fail("prizes[%d].key is required", i)
		} else if seen[p.Key] {
			fail("prizes[%d].key %q is duplicated", i, p.Key)
		}
		seen[p.Key] = true
		if p.Score <= 0 {
			fail("prizes[%d].score must be >= 1", i)
		}
		if p.BaseRadius < 0 {
			fail("prizes[%d].base_radius must be >= 0", i)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidSettings, strings.Join(errs, "; "))
	}
	return nil
}

func rectValid(r Rect) bool {
	return r.MinX <= r.MaxX && r.MinZ <= r.MaxZ
}
