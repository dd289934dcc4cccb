// Package session implements the game session state machine: spawning,
// movement, firing, collision resolution, scoring, difficulty and game over.
//
// The engine is not safe for concurrent use. All calls, including timer and
// Host callbacks, must come from one update goroutine.
package session

import (
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tomz197/botbolt/internal/schedule"
)

// Engine is the single owner of session state.
type Engine struct {
	host     Host
	sched    *schedule.Scheduler
	rules    Rules
	rng      *rand.Rand
	logger   *log.Logger
	observer Observer

	bounds        Bounds
	player        Player
	score         int
	spawnInterval time.Duration
	phase         Phase
	started       bool

	live map[Handle]Category // Enemies and projectiles this session created

	spawnTimer    *schedule.Timer
	gameOverTimer *schedule.Timer

	// epoch increases on every teardown; deferred callbacks carry the epoch
	// they were created under and are dropped once it moves on.
	epoch uint64
}

// Option configures an Engine.
type Option func(*Engine)

// WithRules replaces DefaultRules.
func WithRules(r Rules) Option {
	return func(e *Engine) { e.rules = r }
}

// WithRand sets the random source used for enemy spawn positions.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) { e.rng = rng }
}

// WithLogger sets the logger. The default discards output.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithObserver registers the game-over observer.
func WithObserver(o Observer) Option {
	return func(e *Engine) { e.observer = o }
}

// New creates an engine that places bodies through host and keeps time with sched.
// The engine is idle until Start.
func New(host Host, sched *schedule.Scheduler, opts ...Option) *Engine {
	e := &Engine{
		host:  host,
		sched: sched,
		rules: DefaultRules(),
		live:  make(map[Handle]Category),
		phase: PhaseGameOver,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if e.logger == nil {
		e.logger = log.New(io.Discard)
	}
	return e
}

// Start begins a fresh session inside bounds. Calling Start on a running
// session behaves like Restart.
func (e *Engine) Start(bounds Bounds) {
	if e.started {
		e.teardown()
	}

	e.bounds = bounds
	pos := Vec{X: bounds.Width / 2, Y: bounds.Height * e.rules.PlayerElevation}
	e.player = Player{
		Handle:   e.host.SpawnPlayer(pos),
		Position: pos,
		Health:   e.rules.InitialHealth,
		Alive:    true,
	}
	e.score = 0
	e.spawnInterval = e.rules.BaseSpawnInterval
	e.phase = PhaseActive
	e.started = true

	e.spawnTimer = e.sched.Every(e.spawnInterval, e.guard(e.Tick))

	e.logger.Debug("session started", "width", bounds.Width, "height", bounds.Height, "epoch", e.epoch)
}

// Restart tears down every outstanding body and pending callback, then starts over.
func (e *Engine) Restart(bounds Bounds) {
	e.teardown()
	e.Start(bounds)
}

// teardown destroys everything the current session owns and invalidates its callbacks.
func (e *Engine) teardown() {
	e.epoch++
	e.spawnTimer.Stop()
	e.gameOverTimer.Stop()
	e.spawnTimer = nil
	e.gameOverTimer = nil

	for h := range e.live {
		e.host.Destroy(h)
	}
	clear(e.live)

	if e.player.Handle != 0 {
		e.host.Destroy(e.player.Handle)
	}
	e.player = Player{}
	e.started = false
}

// guard wraps fn so it only runs while the session that created it is current.
func (e *Engine) guard(fn func()) func() {
	epoch := e.epoch
	return func() {
		if e.epoch != epoch {
			return
		}
		fn()
	}
}

// arrival returns the onArrive callback for a body created in the current session.
func (e *Engine) arrival() func(Handle) {
	epoch := e.epoch
	return func(h Handle) {
		if e.epoch != epoch {
			return
		}
		if _, ok := e.live[h]; !ok {
			return
		}
		delete(e.live, h)
		e.host.Destroy(h)
	}
}

func (e *Engine) active() bool {
	return e.started && e.phase == PhaseActive
}

// Tick spawns one enemy at a random x along the top edge. It is driven by
// the session's spawn timer and does nothing once the game is over.
func (e *Engine) Tick() {
	if !e.active() {
		return
	}

	x := e.rng.Float64() * e.bounds.Width
	t := Trajectory{
		From:     Vec{X: x, Y: e.bounds.Height + e.rules.EnemyHeight},
		To:       Vec{X: x, Y: -e.rules.EnemyHeight},
		Duration: e.rules.EnemyDescent,
	}
	if h := e.host.CreateEnemy(t, e.arrival()); h != 0 {
		e.live[h] = CategoryEnemy
	}
}

// MovePlayer shifts the player one step. A step that would leave the screen
// is not applied.
func (e *Engine) MovePlayer(dir Direction) {
	if !e.active() || !e.player.Alive {
		return
	}

	step := e.rules.MoveStep
	if dir == Left {
		step = -step
	}
	x := e.player.Position.X + step
	if x < 0 || x > e.bounds.Width {
		return
	}

	e.player.Position.X = x
	e.host.MovePlayer(e.player.Handle, e.player.Position)
}

// Fire launches a projectile from the player toward the top edge.
func (e *Engine) Fire() {
	if !e.active() || !e.player.Alive {
		return
	}

	from := e.player.Position
	t := Trajectory{
		From:     from,
		To:       Vec{X: from.X, Y: e.bounds.Height},
		Duration: e.rules.ProjectileFlight,
	}
	if h := e.host.CreateProjectile(t, e.arrival()); h != 0 {
		e.live[h] = CategoryProjectile
	}
}

// Apply executes a player command.
func (e *Engine) Apply(cmd Command) {
	switch cmd {
	case CommandMoveLeft:
		e.MovePlayer(Left)
	case CommandMoveRight:
		e.MovePlayer(Right)
	case CommandFire:
		e.Fire()
	case CommandRestart:
		if e.started || e.bounds != (Bounds{}) {
			e.Restart(e.bounds)
		}
	}
}

// Score returns the current score.
func (e *Engine) Score() int { return e.score }

// Health returns the player's remaining health.
func (e *Engine) Health() int { return e.player.Health }

// Phase returns the session phase. An engine that was never started reports PhaseGameOver.
func (e *Engine) Phase() Phase { return e.phase }

// SpawnInterval returns the current time between enemy spawns.
func (e *Engine) SpawnInterval() time.Duration { return e.spawnInterval }

// Player returns a copy of the player state.
func (e *Engine) Player() Player { return e.player }

// Bounds returns the screen bounds of the current session.
func (e *Engine) Bounds() Bounds { return e.bounds }

// Rules returns the rules the engine runs with.
func (e *Engine) Rules() Rules { return e.rules }

// Live returns the number of enemies and projectiles the session is tracking.
func (e *Engine) Live() int { return len(e.live) }

// Snapshot returns the observable state in one value.
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		Phase:         e.phase,
		Score:         e.score,
		Health:        e.player.Health,
		SpawnInterval: e.spawnInterval,
		Player:        e.player,
		Live:          len(e.live),
	}
}
