// Package scene is the Scene Host: it owns bodies, moves them along their
// trajectories, reports contacts and plays effects. Coordinates are y-up
// with the origin at the bottom-left of the screen.
package scene

import (
	"math/rand"
	"time"

	"github.com/tomz197/botbolt/internal/physics"
	"github.com/tomz197/botbolt/internal/session"
)

// contactCellSize must cover the largest contact distance
// (enemy + player half widths).
const contactCellSize = 32.0

// pair is an unordered handle pair, smaller handle first.
type pair struct {
	a, b session.Handle
}

func makePair(a, b session.Handle) pair {
	if a > b {
		a, b = b, a
	}
	return pair{a: a, b: b}
}

// World implements session.Host for the terminal front-end.
// It is not safe for concurrent use.
type World struct {
	bounds    session.Bounds
	rng       *rand.Rand
	next      session.Handle
	bodies    map[session.Handle]*body
	order     []*body // Creation order, for deterministic iteration
	particles []*Particle
	clock     time.Duration

	touching map[pair]struct{}
	current  map[pair]struct{}
	grid     *physics.SpatialGrid
	enemies  []*body
	arrivals []*body
}

// Compile-time check that World implements session.Host.
var _ session.Host = (*World)(nil)

// NewWorld creates an empty world of the given size.
func NewWorld(bounds session.Bounds, rng *rand.Rand) *World {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &World{
		bounds:   bounds,
		rng:      rng,
		bodies:   make(map[session.Handle]*body),
		touching: make(map[pair]struct{}),
		current:  make(map[pair]struct{}),
		grid:     physics.NewSpatialGrid(bounds.Width, bounds.Height, contactCellSize),
	}
}

// Bounds returns the world size.
func (w *World) Bounds() session.Bounds {
	return w.bounds
}

func (w *World) add(b *body) session.Handle {
	w.next++
	b.handle = w.next
	w.bodies[b.handle] = b
	w.order = append(w.order, b)
	return b.handle
}

// SpawnPlayer places the player body.
func (w *World) SpawnPlayer(pos session.Vec) session.Handle {
	return w.add(&body{category: session.CategoryPlayer, pos: pos})
}

// MovePlayer slides the player to pos.
func (w *World) MovePlayer(h session.Handle, pos session.Vec) {
	if b, ok := w.bodies[h]; ok && b.category == session.CategoryPlayer {
		b.glideTo(pos)
	}
}

// CreateEnemy starts an enemy on t.
func (w *World) CreateEnemy(t session.Trajectory, onArrive func(session.Handle)) session.Handle {
	return w.addMover(session.CategoryEnemy, t, onArrive)
}

// CreateProjectile starts a projectile on t.
func (w *World) CreateProjectile(t session.Trajectory, onArrive func(session.Handle)) session.Handle {
	return w.addMover(session.CategoryProjectile, t, onArrive)
}

func (w *World) addMover(c session.Category, t session.Trajectory, onArrive func(session.Handle)) session.Handle {
	return w.add(&body{
		category: c,
		pos:      t.From,
		from:     t.From,
		to:       t.To,
		duration: t.Duration,
		onArrive: onArrive,
	})
}

// Destroy removes a body. Unknown handles are ignored.
func (w *World) Destroy(h session.Handle) {
	b, ok := w.bodies[h]
	if !ok {
		return
	}
	b.removed = true
	delete(w.bodies, h)
	for p := range w.touching {
		if p.a == h || p.b == h {
			delete(w.touching, p)
		}
	}
}

// PlayEffect spawns particles for the effect at pos.
func (w *World) PlayEffect(kind session.Effect, pos session.Vec) {
	switch kind {
	case session.EffectPlayerHit:
		w.particles = SpawnExplosion(w.particles, w.rng, pos.X, pos.Y, 24, 80, 1.0)
	default:
		w.particles = SpawnExplosion(w.particles, w.rng, pos.X, pos.Y, 12, 60, 0.6)
	}
}

// Update advances every body and particle by dt. Bodies that reach the end of
// their trajectory have their arrival callback invoked after the movement pass;
// bodies without a callback are removed.
func (w *World) Update(dt time.Duration) {
	w.clock += dt
	w.arrivals = w.arrivals[:0]

	for _, b := range w.order {
		if b.removed {
			continue
		}
		if b.advance(dt) {
			w.arrivals = append(w.arrivals, b)
		}
	}

	for _, b := range w.arrivals {
		if b.removed {
			continue
		}
		if b.onArrive != nil {
			b.onArrive(b.handle)
		} else {
			w.Destroy(b.handle)
		}
	}

	w.particles = updateParticles(w.particles, dt.Seconds())
	w.compact()
}

// Step runs dt of simulation in passes of at most MaxStep. Each pass calls
// advance (timers), moves the bodies, then hands the contacts that began in
// that pass to report.
func (w *World) Step(dt time.Duration, advance func(time.Duration), report func([]session.Contact)) {
	for dt > 0 {
		pass := min(dt, MaxStep)
		dt -= pass

		if advance != nil {
			advance(pass)
		}
		w.Update(pass)
		contacts := w.Contacts()
		if report != nil && len(contacts) > 0 {
			report(contacts)
		}
	}
}

// compact drops removed bodies from the iteration order.
func (w *World) compact() {
	kept := w.order[:0]
	for _, b := range w.order {
		if !b.removed {
			kept = append(kept, b)
		}
	}
	clear(w.order[len(kept):])
	w.order = kept
}

// Clear removes every body and particle.
func (w *World) Clear() {
	for _, b := range w.order {
		b.removed = true
	}
	w.order = w.order[:0]
	clear(w.bodies)
	clear(w.touching)
	for _, p := range w.particles {
		p.Release()
	}
	w.particles = w.particles[:0]
}

// Count returns the number of live bodies of category c.
func (w *World) Count(c session.Category) int {
	n := 0
	for _, b := range w.bodies {
		if b.category == c {
			n++
		}
	}
	return n
}

// Position returns the current position of h.
func (w *World) Position(h session.Handle) (session.Vec, bool) {
	b, ok := w.bodies[h]
	if !ok {
		return session.Vec{}, false
	}
	return b.pos, true
}

// Particles returns the number of live particles.
func (w *World) Particles() int {
	return len(w.particles)
}
