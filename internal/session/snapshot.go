package session

import (
	"github.com/tomz197/clawmachine/internal/claw"
	"github.com/tomz197/clawmachine/internal/physics"
	"github.com/tomz197/clawmachine/internal/prize"
)

// PrizeView is a read-only copy of one active prize.
type PrizeView struct {
	ID     int
	Key    string
	Name   string
	Score  int
	Pos    physics.Vec3
	Radius float64
	Held   bool
}

// ClawView is a read-only copy of the rig.
type ClawView struct {
	Anchor    physics.Vec3
	Body      physics.Vec3
	GrabPoint physics.Vec3
	Cable     float64
	Openness  float64 // 0 closed, 1 fully open
	Phase     claw.Phase
}

// Snapshot is an immutable view of a session for rendering. It shares no
// memory with the session.
type Snapshot struct {
	State       GameState
	Score       int
	Collected   int
	PrizesToWin int
	Elapsed     float64
	Remaining   float64

	Claw   ClawView
	Prizes []PrizeView

	Walls  prize.Bounds
	Bounds claw.Bounds
	Chute  Chute
}

// Snapshot copies the current cabinet state.
func (s *Session) Snapshot() Snapshot {
	active := s.pool.Active()
	prizes := make([]PrizeView, 0, len(active))
	for _, pr := range active {
		prizes = append(prizes, PrizeView{
			ID:     pr.ID,
			Key:    pr.Type.Key,
			Name:   pr.Type.Name,
			Score:  pr.Score(),
			Pos:    pr.Position(),
			Radius: pr.Radius(),
			Held:   pr.State == prize.StateHeld,
		})
	}
	return Snapshot{
		State:       s.board.State(),
		Score:       s.board.Score(),
		Collected:   s.board.Collected(),
		PrizesToWin: s.board.PrizesToWin,
		Elapsed:     s.board.Elapsed(),
		Remaining:   s.board.Remaining(),
		Claw: ClawView{
			Anchor:    s.rig.Anchor(),
			Body:      s.rig.BodyPosition(),
			GrabPoint: s.rig.GrabPoint(),
			Cable:     s.rig.CableLength(),
			Openness:  s.rig.Grip().Openness(),
			Phase:     s.ctrl.Phase(),
		},
		Prizes: prizes,
		Walls:  s.field.Walls(),
		Bounds: s.rig.Config().Bounds,
		Chute:  s.chute,
	}
}
