package session

import "time"

// Vec is a point in scene coordinates. The origin is the bottom-left corner
// and y grows upward.
type Vec struct {
	X, Y float64
}

// Bounds are the screen dimensions for one session.
type Bounds struct {
	Width  float64
	Height float64
}

// Handle is an opaque reference to a body owned by the Host. Zero is never a valid handle.
type Handle uint64

// Category identifies what kind of body a handle refers to.
type Category int

const (
	CategoryNone Category = iota
	CategoryPlayer
	CategoryEnemy
	CategoryProjectile
)

func (c Category) String() string {
	switch c {
	case CategoryPlayer:
		return "player"
	case CategoryEnemy:
		return "enemy"
	case CategoryProjectile:
		return "projectile"
	default:
		return "none"
	}
}

// Direction is a horizontal movement direction.
type Direction int

const (
	Left Direction = iota
	Right
)

// Phase is the session lifecycle phase.
type Phase int

const (
	PhaseActive Phase = iota
	PhaseGameOver
)

func (p Phase) String() string {
	if p == PhaseGameOver {
		return "game-over"
	}
	return "active"
}

// Effect is a visual effect the Host can play.
type Effect int

const (
	EffectExplosion Effect = iota // Enemy destroyed by a projectile
	EffectPlayerHit               // Enemy reached the player
)

// Trajectory is a straight-line move from From to To over Duration.
type Trajectory struct {
	From     Vec
	To       Vec
	Duration time.Duration
}

// Body is one side of a contact as reported by the Host.
type Body struct {
	Handle   Handle
	Category Category
	Position Vec // Position at the time of contact
}

// Contact is an overlap between two bodies that began during a simulation step.
type Contact struct {
	A, B Body
}

// involves reports whether the contact is between the two categories, in either order.
func (c Contact) involves(x, y Category) bool {
	return (c.A.Category == x && c.B.Category == y) || (c.A.Category == y && c.B.Category == x)
}

// Player is the engine's view of the player ship.
type Player struct {
	Handle   Handle
	Position Vec
	Health   int
	Alive    bool
}

// Snapshot is a copy of the observable session state for the presentation layer.
type Snapshot struct {
	Phase         Phase
	Score         int
	Health        int
	SpawnInterval time.Duration
	Player        Player
	Live          int // Tracked enemies and projectiles
}
