package scene

import (
	"bytes"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/botbolt/internal/draw"
	"github.com/tomz197/botbolt/internal/schedule"
	"github.com/tomz197/botbolt/internal/session"
)

const frame = time.Second / 60

var testBounds = session.Bounds{Width: 400, Height: 300}

func newTestWorld() *World {
	return NewWorld(testBounds, rand.New(rand.NewSource(7)))
}

// parked returns a trajectory that holds a body at pos for a long time.
func parked(pos session.Vec) session.Trajectory {
	return session.Trajectory{From: pos, To: pos, Duration: time.Hour}
}

func TestEnemyFollowsTrajectoryAndArrivesOnce(t *testing.T) {
	w := newTestWorld()

	var arrived []session.Handle
	h := w.CreateEnemy(session.Trajectory{
		From:     session.Vec{X: 100, Y: 316},
		To:       session.Vec{X: 100, Y: -16},
		Duration: 6 * time.Second,
	}, func(h session.Handle) { arrived = append(arrived, h) })

	for i := 0; i < 3; i++ {
		w.Update(time.Second)
	}
	pos, ok := w.Position(h)
	require.True(t, ok)
	assert.InDelta(t, 150, pos.Y, 1e-9)
	assert.Empty(t, arrived)

	w.Update(3 * time.Second)
	assert.Equal(t, []session.Handle{h}, arrived)

	pos, _ = w.Position(h)
	assert.Equal(t, -16.0, pos.Y, "position is clamped to the end point")

	w.Update(time.Second)
	assert.Len(t, arrived, 1, "arrival fires once")
}

func TestArrivalWithoutCallbackRemovesBody(t *testing.T) {
	w := newTestWorld()
	h := w.CreateProjectile(session.Trajectory{
		From:     session.Vec{X: 10, Y: 10},
		To:       session.Vec{X: 10, Y: 300},
		Duration: time.Second,
	}, nil)

	w.Update(2 * time.Second)
	_, ok := w.Position(h)
	assert.False(t, ok)
	assert.Zero(t, w.Count(session.CategoryProjectile))
}

func TestPlayerGlidesToTarget(t *testing.T) {
	w := newTestWorld()
	h := w.SpawnPlayer(session.Vec{X: 200, Y: 45})

	w.MovePlayer(h, session.Vec{X: 216, Y: 45})
	w.Update(PlayerGlide / 2)
	pos, _ := w.Position(h)
	assert.InDelta(t, 208, pos.X, 1e-9)

	w.Update(PlayerGlide)
	pos, _ = w.Position(h)
	assert.Equal(t, 216.0, pos.X)
}

func TestContactsReportedOnBeginOnly(t *testing.T) {
	w := newTestWorld()
	player := w.SpawnPlayer(session.Vec{X: 200, Y: 45})
	enemy := w.CreateEnemy(parked(session.Vec{X: 205, Y: 50}), nil)

	contacts := w.Contacts()
	require.Len(t, contacts, 1)
	assert.Equal(t, enemy, contacts[0].A.Handle)
	assert.Equal(t, session.CategoryEnemy, contacts[0].A.Category)
	assert.Equal(t, player, contacts[0].B.Handle)
	assert.Equal(t, session.CategoryPlayer, contacts[0].B.Category)

	assert.Empty(t, w.Contacts(), "ongoing contact is not repeated")

	w.MovePlayer(player, session.Vec{X: 100, Y: 45})
	w.Update(time.Second)
	assert.Empty(t, w.Contacts())

	w.MovePlayer(player, session.Vec{X: 200, Y: 45})
	w.Update(time.Second)
	assert.Len(t, w.Contacts(), 1, "separated pair reports again")
}

func TestContactsOnlyForRelevantPairs(t *testing.T) {
	w := newTestWorld()
	pos := session.Vec{X: 50, Y: 150}
	w.SpawnPlayer(pos)
	w.CreateProjectile(parked(pos), nil)
	w.CreateEnemy(parked(session.Vec{X: 300, Y: 150}), nil)
	w.CreateEnemy(parked(session.Vec{X: 302, Y: 150}), nil)

	assert.Empty(t, w.Contacts(), "player-projectile and enemy-enemy are ignored")

	shot := w.CreateProjectile(parked(session.Vec{X: 300, Y: 160}), nil)
	contacts := w.Contacts()
	require.Len(t, contacts, 2, "projectile touches both enemies")
	for _, c := range contacts {
		assert.Equal(t, session.CategoryEnemy, c.A.Category)
		assert.Equal(t, shot, c.B.Handle)
	}
}

func TestContactsAboveTopEdge(t *testing.T) {
	w := newTestWorld()
	w.CreateEnemy(parked(session.Vec{X: 10, Y: 310}), nil)
	w.CreateProjectile(parked(session.Vec{X: 10, Y: 300}), nil)

	assert.Len(t, w.Contacts(), 1)
}

func TestDestroy(t *testing.T) {
	w := newTestWorld()
	player := w.SpawnPlayer(session.Vec{X: 200, Y: 45})
	enemy := w.CreateEnemy(parked(session.Vec{X: 200, Y: 45}), nil)
	require.Len(t, w.Contacts(), 1)

	w.Destroy(enemy)
	w.Destroy(enemy)
	w.Destroy(9999)

	assert.Zero(t, w.Count(session.CategoryEnemy))
	assert.Equal(t, 1, w.Count(session.CategoryPlayer))
	assert.Empty(t, w.Contacts())

	w.Update(frame)
	_, ok := w.Position(player)
	assert.True(t, ok)
}

func TestEffectsSpawnAndExpireParticles(t *testing.T) {
	w := newTestWorld()
	w.PlayEffect(session.EffectExplosion, session.Vec{X: 100, Y: 100})
	assert.Equal(t, 12, w.Particles())

	w.PlayEffect(session.EffectPlayerHit, session.Vec{X: 100, Y: 100})
	assert.Equal(t, 36, w.Particles())

	w.Update(2 * time.Second)
	assert.Zero(t, w.Particles())
}

func TestClear(t *testing.T) {
	w := newTestWorld()
	w.SpawnPlayer(session.Vec{X: 1, Y: 1})
	w.CreateEnemy(parked(session.Vec{X: 1, Y: 1}), nil)
	w.PlayEffect(session.EffectExplosion, session.Vec{X: 1, Y: 1})

	w.Clear()
	assert.Zero(t, w.Count(session.CategoryPlayer)+w.Count(session.CategoryEnemy))
	assert.Zero(t, w.Particles())
	assert.Empty(t, w.Contacts())
}

func TestBobStaysWithinAmplitude(t *testing.T) {
	w := newTestWorld()
	for i := 0; i < 60; i++ {
		w.Update(frame)
		assert.LessOrEqual(t, w.Bob(), BobAmplitude)
		assert.GreaterOrEqual(t, w.Bob(), -BobAmplitude)
	}
}

func TestDrawFlipsY(t *testing.T) {
	w := NewWorld(session.Bounds{Width: 100, Height: 100}, rand.New(rand.NewSource(1)))
	w.CreateEnemy(parked(session.Vec{X: 50, Y: 90}), nil)

	c := draw.NewScaledCanvas(10, 5, 100, 100)
	w.Draw(c)

	var buf bytes.Buffer
	require.NoError(t, c.Render(&buf))
	assert.Contains(t, buf.String(), "\033[1;", "enemy near the top edge lands in the first row")
	assert.NotContains(t, buf.String(), "\033[5;")
}

// constSource makes every random x land in the middle of the screen.
type constSource struct{}

func (constSource) Int63() int64 { return 1<<62 | 1<<52 }
func (constSource) Seed(int64)   {}

type harness struct {
	sched  *schedule.Scheduler
	world  *World
	engine *session.Engine
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	sched := schedule.New()
	world := newTestWorld()
	engine := session.New(world, sched, session.WithRand(rand.New(constSource{})))
	engine.Start(testBounds)
	return &harness{sched: sched, world: world, engine: engine}
}

func (h *harness) run(d time.Duration) {
	h.runFrames(d, frame)
}

func (h *harness) runFrames(d, frameLen time.Duration) {
	for elapsed := time.Duration(0); elapsed < d; elapsed += frameLen {
		h.world.Step(frameLen, h.sched.Advance, h.engine.OnCollisions)
	}
}

func TestEngineShootsEnemyThroughWorld(t *testing.T) {
	h := newHarness(t)
	h.engine.Tick()
	h.engine.Fire()

	h.run(time.Second)

	assert.Equal(t, 5, h.engine.Score())
	assert.Equal(t, 3, h.engine.Health())
	assert.Positive(t, h.world.Particles())
	assert.Zero(t, h.world.Count(session.CategoryProjectile))
}

func TestEnemyReachesPlayerThroughWorld(t *testing.T) {
	h := newHarness(t)
	h.engine.Tick()

	h.run(5 * time.Second)

	assert.Equal(t, 2, h.engine.Health())
	assert.Zero(t, h.engine.Score())
}

func TestEnemiesLeavingScreenAreReleased(t *testing.T) {
	h := newHarness(t)
	h.engine.MovePlayer(session.Left)
	for i := 0; i < 5; i++ {
		h.engine.MovePlayer(session.Left)
	}
	// The player is now well clear of the spawn column.
	h.run(20 * time.Second)

	assert.Equal(t, 3, h.engine.Health())
	assert.Equal(t, h.engine.Live(), h.world.Count(session.CategoryEnemy))
	assert.LessOrEqual(t, h.engine.Live(), 7)
}

func TestLongFramesStillHit(t *testing.T) {
	for _, frameLen := range []time.Duration{100 * time.Millisecond, 250 * time.Millisecond} {
		for i := 0; i < 20; i++ {
			lead := time.Duration(i) * 37 * time.Millisecond
			h := newHarness(t)
			h.engine.Tick()
			h.world.Step(lead, h.sched.Advance, h.engine.OnCollisions)
			h.engine.Fire()

			h.runFrames(time.Second, frameLen)

			assert.Equal(t, 5, h.engine.Score(), "frame %v, fired after %v", frameLen, lead)
		}
	}
}

func TestStepSplitsLongFrames(t *testing.T) {
	w := newTestWorld()
	var passes []time.Duration
	w.Step(40*time.Millisecond, func(d time.Duration) { passes = append(passes, d) }, nil)

	assert.Equal(t, []time.Duration{MaxStep, MaxStep, 8 * time.Millisecond}, passes)
}

func TestStepReportsContactsOncePerPass(t *testing.T) {
	w := newTestWorld()
	enemy := w.CreateEnemy(session.Trajectory{
		From:     session.Vec{X: 200, Y: 200},
		To:       session.Vec{X: 200, Y: 0},
		Duration: time.Second,
	}, nil)
	shot := w.CreateProjectile(session.Trajectory{
		From:     session.Vec{X: 200, Y: 0},
		To:       session.Vec{X: 200, Y: 200},
		Duration: time.Second,
	}, nil)

	var got []session.Contact
	w.Step(time.Second/2, nil, func(batch []session.Contact) { got = append(got, batch...) })

	require.Len(t, got, 1)
	assert.Equal(t, enemy, got[0].A.Handle)
	assert.Equal(t, shot, got[0].B.Handle)
}
