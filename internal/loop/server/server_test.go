package server

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startServer(t *testing.T) *Server {
	t.Helper()
	s := NewServer()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go s.Run(ctx)
	return s
}

func waitPlayers(t *testing.T, s *Server, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return s.GetSnapshot().Players == n }, time.Second, time.Millisecond)
}

func TestScoreboardOrdering(t *testing.T) {
	b := NewScoreboard(3)
	b.Record("ann", 10)
	b.Record("bob", 30)
	b.Record("cid", 10)
	b.Record("dee", 20)

	top := b.Top(0)
	require.Len(t, top, 3)
	assert.Equal(t, []string{"bob", "dee", "ann"}, []string{top[0].Username, top[1].Username, top[2].Username})
	assert.Equal(t, 30, b.Best())

	assert.Len(t, b.Top(1), 1)
	top[0].Score = 999
	assert.Equal(t, 30, b.Best(), "Top returns a copy")
}

func TestScoreboardEmpty(t *testing.T) {
	b := NewScoreboard(0)
	assert.Zero(t, b.Best())
	assert.Empty(t, b.Top(5))
	assert.Zero(t, (*LobbySnapshot)(nil).Best())
}

func TestRegisterAndUnregister(t *testing.T) {
	s := startServer(t)

	a := s.RegisterClient("ann")
	b := s.RegisterClient("bob")
	assert.NotEqual(t, a.ID, b.ID)
	waitPlayers(t, s, 2)

	s.UnregisterClient(a.ID)
	waitPlayers(t, s, 1)

	_, open := <-a.EventsCh
	assert.False(t, open, "events channel is closed on unregister")
}

func TestReportScoreAnnouncesRecords(t *testing.T) {
	s := startServer(t)
	a := s.RegisterClient("ann")
	b := s.RegisterClient("bob")
	waitPlayers(t, s, 2)

	s.ReportScore(a, 40)
	require.Eventually(t, func() bool { return s.GetSnapshot().Best() == 40 }, time.Second, time.Millisecond)

	select {
	case ev := <-b.EventsCh:
		assert.Equal(t, ClientEvent{Type: EventNewRecord, Username: "ann", Score: 40}, ev)
	case <-time.After(time.Second):
		t.Fatal("no record event")
	}

	s.ReportScore(b, 15)
	require.Eventually(t, func() bool { return len(s.GetSnapshot().TopScores) == 2 }, time.Second, time.Millisecond)
	assert.Equal(t, "bob", s.GetSnapshot().TopScores[1].Username)

	// ann's own record event, then nothing for a lower score.
	<-a.EventsCh
	select {
	case ev := <-a.EventsCh:
		t.Fatalf("unexpected event %+v", ev)
	default:
	}
}

func TestScoreCountsAfterUnregister(t *testing.T) {
	s := startServer(t)
	a := s.RegisterClient("ann")
	waitPlayers(t, s, 1)

	s.ReportScore(a, 25)
	s.UnregisterClient(a.ID)

	waitPlayers(t, s, 0)
	require.Eventually(t, func() bool { return s.GetSnapshot().Best() == 25 }, time.Second, time.Millisecond)
	assert.Equal(t, "ann", s.GetSnapshot().TopScores[0].Username)
}

func TestReportScoreWithoutHandleIgnored(t *testing.T) {
	s := startServer(t)
	a := s.RegisterClient("ann")
	waitPlayers(t, s, 1)
	s.ReportScore(nil, 100)
	s.ReportScore(a, 5)

	require.Eventually(t, func() bool { return s.GetSnapshot().Best() == 5 }, time.Second, time.Millisecond)
	assert.Len(t, s.GetSnapshot().TopScores, 1)
}

func TestShutdownNotifiesAndWaits(t *testing.T) {
	s := startServer(t)
	a := s.RegisterClient("ann")
	waitPlayers(t, s, 1)

	go func() {
		ev := <-a.EventsCh
		if ev.Type == EventServerShutdown {
			s.UnregisterClient(a.ID)
		}
	}()

	start := time.Now()
	s.Shutdown(5 * time.Second)
	assert.Less(t, time.Since(start), 5*time.Second)
	waitPlayers(t, s, 0)
}
