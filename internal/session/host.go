package session

// Host owns the visual and physical representation of bodies.
// The engine decides what exists; the Host decides how it looks and moves,
// and reports contacts back through Engine.OnCollisions.
type Host interface {
	// SpawnPlayer places the player body and returns its handle.
	SpawnPlayer(pos Vec) Handle
	// MovePlayer moves the player body to pos.
	MovePlayer(h Handle, pos Vec)
	// CreateEnemy starts an enemy on t. onArrive is called when it reaches t.To.
	CreateEnemy(t Trajectory, onArrive func(Handle)) Handle
	// CreateProjectile starts a projectile on t. onArrive is called when it reaches t.To.
	CreateProjectile(t Trajectory, onArrive func(Handle)) Handle
	// Destroy removes a body. Unknown handles are ignored.
	Destroy(h Handle)
	// PlayEffect plays a one-off effect at pos.
	PlayEffect(kind Effect, pos Vec)
}

// Observer is notified of session-level outcomes.
type Observer interface {
	OnGameOver(finalScore int)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(finalScore int)

// OnGameOver calls f(finalScore).
func (f ObserverFunc) OnGameOver(finalScore int) {
	f(finalScore)
}
