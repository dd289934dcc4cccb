package session

import (
	"fmt"
	"time"
)

// Rules are the fixed constants and policy flags of a session.
// A zero Rules is not usable; start from DefaultRules.
type Rules struct {
	InitialHealth     int           `yaml:"initial_health"`
	MoveStep          float64       `yaml:"move_step"`
	PlayerElevation   float64       `yaml:"player_elevation"` // Fraction of screen height
	EnemyHeight       float64       `yaml:"enemy_height"`
	EnemyDescent      time.Duration `yaml:"enemy_descent"`
	ProjectileFlight  time.Duration `yaml:"projectile_flight"`
	BaseSpawnInterval time.Duration `yaml:"base_spawn_interval"`
	DifficultyStep    int           `yaml:"difficulty_step"`
	DifficultyFactor  float64       `yaml:"difficulty_factor"`
	KillScore         int           `yaml:"kill_score"`
	HitPenalty        int           `yaml:"hit_penalty"`
	PlayerDamageOnHit bool          `yaml:"player_damage_on_hit"`
	GameOverDelay     time.Duration `yaml:"game_over_delay"`
}

// DefaultRules returns the health variant: three hit points, +5 per kill,
// no score penalty on hits, spawn interval x0.75 every 100 points.
func DefaultRules() Rules {
	return Rules{
		InitialHealth:     3,
		MoveStep:          16,
		PlayerElevation:   0.15,
		EnemyHeight:       16,
		EnemyDescent:      6 * time.Second,
		ProjectileFlight:  time.Second,
		BaseSpawnInterval: time.Second,
		DifficultyStep:    100,
		DifficultyFactor:  0.75,
		KillScore:         5,
		HitPenalty:        0,
		PlayerDamageOnHit: true,
		GameOverDelay:     8 * time.Second,
	}
}

// Validate reports the first rule that cannot drive a session.
func (r Rules) Validate() error {
	switch {
	case r.InitialHealth <= 0:
		return fmt.Errorf("initial_health must be positive, got %d", r.InitialHealth)
	case r.MoveStep <= 0:
		return fmt.Errorf("move_step must be positive, got %g", r.MoveStep)
	case r.PlayerElevation < 0 || r.PlayerElevation > 1:
		return fmt.Errorf("player_elevation must be within [0, 1], got %g", r.PlayerElevation)
	case r.EnemyHeight < 0:
		return fmt.Errorf("enemy_height must not be negative, got %g", r.EnemyHeight)
	case r.EnemyDescent <= 0:
		return fmt.Errorf("enemy_descent must be positive, got %s", r.EnemyDescent)
	case r.ProjectileFlight <= 0:
		return fmt.Errorf("projectile_flight must be positive, got %s", r.ProjectileFlight)
	case r.BaseSpawnInterval <= 0:
		return fmt.Errorf("base_spawn_interval must be positive, got %s", r.BaseSpawnInterval)
	case r.DifficultyStep <= 0:
		return fmt.Errorf("difficulty_step must be positive, got %d", r.DifficultyStep)
	case r.DifficultyFactor <= 0 || r.DifficultyFactor >= 1:
		return fmt.Errorf("difficulty_factor must be within (0, 1), got %g", r.DifficultyFactor)
	case r.KillScore < 0:
		return fmt.Errorf("kill_score must not be negative, got %d", r.KillScore)
	case r.HitPenalty < 0:
		return fmt.Errorf("hit_penalty must not be negative, got %d", r.HitPenalty)
	case r.GameOverDelay < 0:
		return fmt.Errorf("game_over_delay must not be negative, got %s", r.GameOverDelay)
	}
	return nil
}
