package scene

import (
	"github.com/tomz197/botbolt/internal/physics"
	"github.com/tomz197/botbolt/internal/session"
)

// Contacts returns the pairs that started touching since the previous call.
// Only enemy-player and enemy-projectile pairs are reported; pairs that stay
// in contact are reported once.
func (w *World) Contacts() []session.Contact {
	w.grid.Clear()
	w.enemies = w.enemies[:0]
	for _, b := range w.order {
		if b.removed || b.category != session.CategoryEnemy {
			continue
		}
		w.grid.Insert(b.pos.X, b.pos.Y, len(w.enemies))
		w.enemies = append(w.enemies, b)
	}

	clear(w.current)
	var out []session.Contact

	for _, b := range w.order {
		if b.removed || (b.category != session.CategoryPlayer && b.category != session.CategoryProjectile) {
			continue
		}
		w.grid.QueryAround(b.pos.X, b.pos.Y, func(i int) bool {
			enemy := w.enemies[i]
			if !overlaps(enemy, b) {
				return false
			}
			p := makePair(enemy.handle, b.handle)
			w.current[p] = struct{}{}
			if _, seen := w.touching[p]; !seen {
				out = append(out, session.Contact{A: enemy.snapshot(), B: b.snapshot()})
			}
			return false
		})
	}

	w.touching, w.current = w.current, w.touching
	return out
}

// overlaps runs the narrow phase for an enemy against a player or projectile.
func overlaps(enemy, other *body) bool {
	if other.category == session.CategoryProjectile {
		return physics.CircleRectOverlap(other.pos.X, other.pos.Y, ProjectileRadius,
			enemy.pos.X, enemy.pos.Y, EnemyHalfWidth, EnemyHalfHeight)
	}
	hw, hh := other.halfExtents()
	return physics.RectsOverlap(enemy.pos.X, enemy.pos.Y, EnemyHalfWidth, EnemyHalfHeight,
		other.pos.X, other.pos.Y, hw, hh)
}
