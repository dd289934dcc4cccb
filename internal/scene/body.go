package scene

import (
	"time"

	"github.com/tomz197/botbolt/internal/session"
)

// Body sizes in scene units.
const (
	EnemyHalfWidth   = 8.0
	EnemyHalfHeight  = 8.0
	PlayerHalfWidth  = 12.0
	PlayerHalfHeight = 10.0
	ProjectileRadius = 3.0
)

// PlayerGlide is how long the player takes to slide to a new position.
const PlayerGlide = 100 * time.Millisecond

// MaxStep is the longest pass Step simulates before checking contacts.
const MaxStep = 16 * time.Millisecond

// body is one tracked object in the world.
type body struct {
	handle   session.Handle
	category session.Category
	pos      session.Vec

	// Straight-line motion for enemies and projectiles, or the current glide for the player.
	from     session.Vec
	to       session.Vec
	duration time.Duration
	elapsed  time.Duration

	onArrive func(session.Handle)
	arrived  bool
	removed  bool
}

// advance moves the body along its path. It reports true the first time the
// body reaches the end of a trajectory that has an arrival callback.
func (b *body) advance(dt time.Duration) bool {
	if b.arrived || b.duration <= 0 {
		return false
	}

	b.elapsed += dt
	t := float64(b.elapsed) / float64(b.duration)
	if t >= 1 {
		t = 1
	}
	b.pos = session.Vec{
		X: b.from.X + (b.to.X-b.from.X)*t,
		Y: b.from.Y + (b.to.Y-b.from.Y)*t,
	}

	if t < 1 {
		return false
	}
	if b.category == session.CategoryPlayer {
		b.duration = 0 // Glide finished; the player stays put.
		return false
	}
	b.arrived = true
	return true
}

// glideTo starts a short slide from the current position to pos.
func (b *body) glideTo(pos session.Vec) {
	b.from = b.pos
	b.to = pos
	b.duration = PlayerGlide
	b.elapsed = 0
}

// halfExtents returns the collision box half sizes for box-shaped bodies.
func (b *body) halfExtents() (hw, hh float64) {
	if b.category == session.CategoryPlayer {
		return PlayerHalfWidth, PlayerHalfHeight
	}
	return EnemyHalfWidth, EnemyHalfHeight
}

func (b *body) snapshot() session.Body {
	return session.Body{Handle: b.handle, Category: b.category, Position: b.pos}
}
