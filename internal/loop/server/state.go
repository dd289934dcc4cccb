package server

import (
	"slices"
	"sync"

	"github.com/tomz197/botbolt/internal/loop/config"
)

// TopScoreEntry represents a single entry on the leaderboard.
type TopScoreEntry struct {
	Username string
	Score    int
	seq      int // Used for deterministic tie-break when scores are equal
}

// LobbySnapshot is an immutable view of the lobby for rendering.
type LobbySnapshot struct {
	Players   int
	TopScores []TopScoreEntry // Best games first
}

// Best returns the highest score on the leaderboard, or 0.
func (s *LobbySnapshot) Best() int {
	if s == nil || len(s.TopScores) == 0 {
		return 0
	}
	return s.TopScores[0].Score
}

// Scoreboard keeps the best finished games. It is safe for concurrent use.
type Scoreboard struct {
	mu       sync.RWMutex
	capacity int
	entries  []TopScoreEntry
	seq      int
}

// NewScoreboard creates a leaderboard holding up to capacity games.
// A capacity <= 0 uses config.TopScoresCount.
func NewScoreboard(capacity int) *Scoreboard {
	if capacity <= 0 {
		capacity = config.TopScoresCount
	}
	return &Scoreboard{capacity: capacity}
}

// Record adds a finished game. Ties keep the earlier game ahead.
func (b *Scoreboard) Record(username string, score int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.seq++
	b.entries = append(b.entries, TopScoreEntry{
		Username: username,
		Score:    score,
		seq:      b.seq,
	})
	slices.SortStableFunc(b.entries, func(x, y TopScoreEntry) int {
		if x.Score != y.Score {
			return y.Score - x.Score
		}
		return x.seq - y.seq
	})
	if len(b.entries) > b.capacity {
		b.entries = b.entries[:b.capacity]
	}
}

// Best returns the highest recorded score, or 0.
func (b *Scoreboard) Best() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if len(b.entries) == 0 {
		return 0
	}
	return b.entries[0].Score
}

// Top returns a copy of the best n games (all of them when n <= 0).
func (b *Scoreboard) Top(n int) []TopScoreEntry {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if n <= 0 || n > len(b.entries) {
		n = len(b.entries)
	}
	return slices.Clone(b.entries[:n])
}
