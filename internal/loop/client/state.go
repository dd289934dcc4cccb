package client

import (
	"time"
)

// GameState represents the current screen for a client.
type GameState int

const (
	GameStateStart    GameState = iota // Title screen
	GameStatePlaying                   // Session running
	GameStateOver                      // Session ended, show restart prompt
	GameStateShutdown                  // Server is shutting down
)

func (g GameState) String() string {
	switch g {
	case GameStateStart:
		return "start"
	case GameStatePlaying:
		return "playing"
	case GameStateOver:
		return "game-over"
	case GameStateShutdown:
		return "shutdown"
	}
	return "unknown"
}

// ClientState holds per-player presentation state. Game state proper
// (score, health, bodies) lives in the session engine.
type ClientState struct {
	GameState  GameState
	FinalScore int  // Score reported by the last game over
	Running    bool // Client loop running

	clock         time.Duration // Simulated time, drives blinking prompts
	idle          time.Duration // Time since the last key press
	isInactive    bool          // Whether the client is in inactive warning state
	shutdownTimer float64       // Countdown before auto-disconnect on shutdown

	record      string        // Latest leaderboard record announcement
	recordTimer time.Duration // Remaining display time for record

	// Previous frame's values, to detect when a full clear is needed.
	prevGameState GameState
	wasInactive   bool
	hadRecord     bool
}

// NewClientState creates a new initialized client state.
func NewClientState() *ClientState {
	return &ClientState{
		GameState: GameStateStart,
		Running:   true,
	}
}

// blinkOn reports whether blinking prompts are visible this frame.
func (s *ClientState) blinkOn(period time.Duration) bool {
	return (s.clock/period)%2 == 0
}
