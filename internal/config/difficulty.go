package config

import (
	"fmt"
	"strings"
)

// Difficulty is a preset for the win threshold, the clock and the claw speed.
type Difficulty struct {
	Name            string
	PrizesToWin     int
	TimeLimit       float64 // Seconds
	SpeedMultiplier float64 // Applied to claw move, drop and lift speeds
}

// DifficultyCustom keeps the game section as written.
const DifficultyCustom = "custom"

var difficulties = []Difficulty{
	{Name: "easy", PrizesToWin: 3, TimeLimit: 200, SpeedMultiplier: 1.0},
	{Name: "medium", PrizesToWin: 5, TimeLimit: 120, SpeedMultiplier: 1.0},
	{Name: "hard", PrizesToWin: 7, TimeLimit: 80, SpeedMultiplier: 1.15},
	{Name: "expert", PrizesToWin: 10, TimeLimit: 60, SpeedMultiplier: 1.3},
}

// Difficulties returns the presets from easiest to hardest.
func Difficulties() []Difficulty {
	return append([]Difficulty(nil), difficulties...)
}

// DifficultyNames lists the preset names followed by "custom".
func DifficultyNames() []string {
	names := make([]string, 0, len(difficulties)+1)
	for _, d := range Difficulties() {
		names = append(names, d.Name)
	}
	return append(names, DifficultyCustom)
}

// LookupDifficulty finds a preset by name (case-insensitive).
func LookupDifficulty(name string) (Difficulty, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, d := range difficulties {
		if d.Name == name {
			return d, true
		}
	}
	return Difficulty{}, false
}

// ApplyDifficulty overwrites the game thresholds with the named preset and
// scales the claw speeds. An empty name or "custom" leaves s unchanged.
func ApplyDifficulty(s Settings) (Settings, error) {
	name := strings.ToLower(strings.TrimSpace(s.Difficulty))
	if name == "" || name == DifficultyCustom {
		return s, nil
	}
	d, ok := LookupDifficulty(name)
	if !ok {
		return s, fmt.Errorf("%w: unknown difficulty %q (want one of %s)",
			ErrInvalidSettings, s.Difficulty, strings.Join(DifficultyNames(), ", "))
	}
	s.Difficulty = d.Name
	s.Game.PrizesToWin = d.PrizesToWin
	s.Game.TimeLimit = d.TimeLimit
	s.Claw.MoveSpeed *= d.SpeedMultiplier
	s.Sequence.DropSpeed *= d.SpeedMultiplier
	s.Sequence.LiftSpeed *= d.SpeedMultiplier
	return s, nil
}
