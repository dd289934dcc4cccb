package server

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
)

// GameServer is the interface clients use to communicate with the lobby.
// Every client runs its own session; the lobby only tracks who is connected
// and keeps the shared leaderboard.
type GameServer interface {
	RegisterClient(username string) *ClientHandle
	UnregisterClient(clientID int)
	ReportScore(handle *ClientHandle, score int)
	GetSnapshot() *LobbySnapshot
}

// Server tracks connected clients and the leaderboard.
type Server struct {
	snapshot     atomic.Pointer[LobbySnapshot]
	clients      map[int]*ClientHandle
	nextClientID int
	registerCh   chan *ClientHandle
	unregisterCh chan int
	scoreCh      chan scoreReport
	mu           sync.RWMutex
	scores       *Scoreboard
	logger       *log.Logger
}

// Compile-time check that Server implements GameServer.
var _ GameServer = (*Server)(nil)

// ClientHandle represents a client's connection to the server.
type ClientHandle struct {
	ID       int
	Username string           // Display name for this client
	EventsCh chan ClientEvent // Events sent to client
}

// ClientEvent represents an event sent from server to client.
type ClientEvent struct {
	Type     ClientEventType
	Username string // For record events
	Score    int    // For record events
}

// ClientEventType identifies the type of client event.
type ClientEventType int

const (
	EventNewRecord ClientEventType = iota
	EventServerShutdown
)

type scoreReport struct {
	clientID int
	username string
	score    int
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger. The default discards output.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithScoreboard replaces the default leaderboard.
func WithScoreboard(b *Scoreboard) Option {
	return func(s *Server) { s.scores = b }
}

// NewServer creates a new lobby server.
func NewServer(opts ...Option) *Server {
	s := &Server{
		clients:      make(map[int]*ClientHandle),
		nextClientID: 1,
		registerCh:   make(chan *ClientHandle, 16),
		unregisterCh: make(chan int, 16),
		scoreCh:      make(chan scoreReport, 64),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.scores == nil {
		s.scores = NewScoreboard(0)
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}

	s.snapshot.Store(&LobbySnapshot{})
	return s
}

// Run processes registrations and score reports. Blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case handle := <-s.registerCh:
			s.mu.Lock()
			s.clients[handle.ID] = handle
			s.mu.Unlock()
			s.logger.Debug("client registered", "id", handle.ID, "user", handle.Username)
		case clientID := <-s.unregisterCh:
			s.mu.Lock()
			if handle, ok := s.clients[clientID]; ok {
				close(handle.EventsCh)
				delete(s.clients, clientID)
			}
			s.mu.Unlock()
			s.logger.Debug("client unregistered", "id", clientID)
		case r := <-s.scoreCh:
			s.recordScore(r)
		}
		s.createSnapshot()
	}
}

// recordScore adds a finished game to the leaderboard and announces new records.
// The report carries the username, so it counts even if the client has
// already been unregistered.
func (s *Server) recordScore(r scoreReport) {
	prevBest := s.scores.Best()
	s.scores.Record(r.username, r.score)
	s.logger.Info("game over", "id", r.clientID, "user", r.username, "score", r.score)

	if r.score <= prevBest {
		return
	}
	s.broadcast(ClientEvent{Type: EventNewRecord, Username: r.username, Score: r.score})
}

// broadcast sends ev to every client without blocking.
func (s *Server) broadcast(ev ClientEvent) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, handle := range s.clients {
		select {
		case handle.EventsCh <- ev:
		default:
		}
	}
}

// Shutdown gracefully shuts down the server by notifying all connected clients
// and waiting for them to disconnect (up to the given timeout).
// The caller should cancel the server context after Shutdown returns.
func (s *Server) Shutdown(timeout time.Duration) {
	s.broadcast(ClientEvent{Type: EventServerShutdown})

	// Wait for all clients to disconnect, or timeout
	deadline := time.After(timeout)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-deadline:
			return
		case <-ticker.C:
			s.mu.RLock()
			remaining := len(s.clients)
			s.mu.RUnlock()
			if remaining == 0 {
				return
			}
		}
	}
}

// RegisterClient registers a new client with the given username and returns its handle.
func (s *Server) RegisterClient(username string) *ClientHandle {
	s.mu.Lock()
	id := s.nextClientID
	s.nextClientID++
	s.mu.Unlock()

	handle := &ClientHandle{
		ID:       id,
		Username: username,
		EventsCh: make(chan ClientEvent, 16),
	}

	s.registerCh <- handle
	return handle
}

// UnregisterClient removes a client from the server.
func (s *Server) UnregisterClient(clientID int) {
	s.unregisterCh <- clientID
}

// ReportScore records the final score of a finished game.
func (s *Server) ReportScore(handle *ClientHandle, score int) {
	if handle == nil {
		return
	}
	select {
	case s.scoreCh <- scoreReport{clientID: handle.ID, username: handle.Username, score: score}:
	default:
		s.logger.Warn("score dropped, server busy", "id", handle.ID, "score", score)
	}
}

// GetSnapshot returns the current lobby snapshot.
func (s *Server) GetSnapshot() *LobbySnapshot {
	return s.snapshot.Load()
}

// createSnapshot publishes an immutable view of the lobby.
func (s *Server) createSnapshot() {
	s.mu.RLock()
	players := len(s.clients)
	s.mu.RUnlock()

	s.snapshot.Store(&LobbySnapshot{
		Players:   players,
		TopScores: s.scores.Top(0),
	})
}
