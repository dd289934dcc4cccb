// Package config centralizes the tunable front-end parameters.
package config

import "time"

// View resolution - the playfield in scene units.
// Actual rendering scales to fit terminal size.
const (
	ViewWidth  = 400
	ViewHeight = 300
)

// Maximum render area in terminal cells. Larger terminals get a border.
const (
	MaxTermWidth  = 160
	MaxTermHeight = 50
)

// Player
const (
	MaxUsernameLength = 16 // Maximum display length for player usernames
)

// Leaderboard
const (
	TopScoresCount = 5
)

// Shutdown
const (
	ShutdownDisplaySeconds = 10.0 // Seconds to show shutdown message before auto-disconnect
)

// Inactivity
const (
	InactivityWarnUser       = 90 * time.Second
	InactivityDisconnectUser = 120 * time.Second
)

// Client rendering
const (
	ClientTargetFPS       = 60
	ClientTargetFrameTime = time.Second / ClientTargetFPS
	MaxFrameDelta         = 250 * time.Millisecond // Longer stalls are not simulated
)

// Prompt blink period on the title and game over screens.
const PromptBlink = 600 * time.Millisecond
