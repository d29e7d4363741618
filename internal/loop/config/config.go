// Package config centralizes the presentation and server timing constants.
// Cabinet tuning lives in internal/config and is loaded from YAML.
package config

import "time"

// View resolution in logical units. Rendering scales to the terminal size.
const (
	ViewWidth  = 120
	ViewHeight = 80 // Sub-pixels, so 40 terminal rows
)

// Max terminal size used for rendering; larger terminals get a centered,
// bordered play area.
const (
	MaxTermWidth  = 160
	MaxTermHeight = 50
)

// Effects
const (
	ScoreBurstParticles = 24
	ScoreBurstSpeed     = 5.0
	ScoreBurstLifetime  = 1.2
	MessageSeconds      = 2.0 // How long drop results stay on screen
	PromptBlinkHz       = 1.6
)

// Leaderboard
const (
	TopScoresShown    = 5
	MaxUsernameLength = 16
)

// Shutdown
const (
	ShutdownDisplaySeconds = 10.0 // Seconds to show shutdown message before auto-disconnect
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)

// Client rendering
const (
	ClientTargetFPS       = 60
	ClientTargetFrameTime = time.Second / ClientTargetFPS
)

// Server tick rate. Sessions step their physics on a fixed step of their own.
const (
	ServerTickRate = 60
	ServerTickTime = time.Second / ServerTickRate
)
