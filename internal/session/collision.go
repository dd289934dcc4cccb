package session

import "time"

// OnCollision resolves a single contact reported by the Host.
// Contacts naming bodies the session no longer tracks are ignored.
func (e *Engine) OnCollision(a, b Body) {
	if !e.active() {
		return
	}

	switch {
	case a.Category == CategoryEnemy && b.Category == CategoryProjectile:
		e.enemyShot(a, b)
	case a.Category == CategoryProjectile && b.Category == CategoryEnemy:
		e.enemyShot(b, a)
	case a.Category == CategoryEnemy && b.Category == CategoryPlayer:
		e.playerHit(a, b)
	case a.Category == CategoryPlayer && b.Category == CategoryEnemy:
		e.playerHit(b, a)
	}
}

// OnCollisions resolves every contact from one simulation step.
// Projectile hits are applied before player hits so an enemy that was shot
// in the same step never also damages the player.
func (e *Engine) OnCollisions(batch []Contact) {
	for _, c := range batch {
		if c.involves(CategoryEnemy, CategoryProjectile) {
			e.OnCollision(c.A, c.B)
		}
	}
	for _, c := range batch {
		if c.involves(CategoryEnemy, CategoryPlayer) {
			e.OnCollision(c.A, c.B)
		}
	}
}

// enemyShot destroys both bodies and credits the kill.
func (e *Engine) enemyShot(enemy, projectile Body) {
	if e.live[enemy.Handle] != CategoryEnemy || e.live[projectile.Handle] != CategoryProjectile {
		return
	}
	// Score is final once the player is down.
	if !e.player.Alive {
		return
	}

	delete(e.live, enemy.Handle)
	delete(e.live, projectile.Handle)
	e.host.Destroy(enemy.Handle)
	e.host.Destroy(projectile.Handle)
	e.host.PlayEffect(EffectExplosion, enemy.Position)

	e.score += e.rules.KillScore
	if e.score > 0 && e.score%e.rules.DifficultyStep == 0 {
		e.escalate()
	}
}

// escalate shrinks the spawn interval and reschedules the spawn timer.
func (e *Engine) escalate() {
	prev := e.spawnInterval
	e.spawnInterval = time.Duration(float64(e.spawnInterval) * e.rules.DifficultyFactor)
	e.spawnTimer.Reset(e.spawnInterval)
	e.logger.Debug("difficulty increased", "score", e.score, "from", prev, "to", e.spawnInterval)
}

// playerHit removes the enemy and damages the player.
func (e *Engine) playerHit(enemy, player Body) {
	if e.live[enemy.Handle] != CategoryEnemy {
		return
	}
	if !e.player.Alive || player.Handle != e.player.Handle {
		return
	}

	delete(e.live, enemy.Handle)
	e.host.Destroy(enemy.Handle)
	e.host.PlayEffect(EffectPlayerHit, e.player.Position)

	e.score -= e.rules.HitPenalty
	if !e.rules.PlayerDamageOnHit {
		return
	}

	e.player.Health--
	if e.player.Health <= 0 {
		e.player.Health = 0
		e.playerDown()
	}
}

// playerDown removes the player body and schedules the game-over transition
// once the hit effect has played out.
func (e *Engine) playerDown() {
	e.player.Alive = false
	e.host.Destroy(e.player.Handle)
	e.player.Handle = 0

	e.gameOverTimer = e.sched.After(e.rules.GameOverDelay, e.guard(e.finish))
}

// finish moves the session to GameOver and notifies the observer.
func (e *Engine) finish() {
	if e.phase == PhaseGameOver {
		return
	}
	e.phase = PhaseGameOver
	e.spawnTimer.Stop()
	e.gameOverTimer = nil

	e.logger.Info("game over", "score", e.score)
	if e.observer != nil {
		e.observer.OnGameOver(e.score)
	}
}
