package ai

import (
	"fmt"
	"time"
)

// Config holds behaviour tunables. Speeds are pixels per second.
type Config struct {
	MoveSpeed          float64       `yaml:"move_speed"`
	CoverDistance      float64       `yaml:"cover_distance"`
	PeekDistance       float64       `yaml:"peek_distance"`
	ShootCooldown      time.Duration `yaml:"shoot_cooldown"`
	ReselectDistance   float64       `yaml:"reselect_distance"`
	Deadzone           float64       `yaml:"deadzone"`
	DirectMoveDistance float64       `yaml:"direct_move_distance"`
	ChaseStopDistance  float64       `yaml:"chase_stop_distance"`
	ExposureCheck      bool          `yaml:"exposure_check"`
}

// DefaultConfig returns the stock behaviour settings.
func DefaultConfig() Config {
	return Config{
		MoveSpeed:          90,
		CoverDistance:      20,
		PeekDistance:       24,
		ShootCooldown:      1500 * time.Millisecond,
		ReselectDistance:   200,
		Deadzone:           5,
		DirectMoveDistance: 100,
		ChaseStopDistance:  120,
	}
}

// Validate reports the first out-of-range field.
func (c Config) Validate() error {
	switch {
	case c.MoveSpeed <= 0:
		return fmt.Errorf("tactical: move_speed must be > 0, got %v", c.MoveSpeed)
	case c.CoverDistance < 0:
		return fmt.Errorf("tactical: cover_distance must be >= 0, got %v", c.CoverDistance)
	case c.PeekDistance < 0:
		return fmt.Errorf("tactical: peek_distance must be >= 0, got %v", c.PeekDistance)
	case c.ShootCooldown <= 0:
		return fmt.Errorf("tactical: shoot_cooldown must be > 0, got %v", c.ShootCooldown)
	case c.ReselectDistance <= 0:
		return fmt.Errorf("tactical: reselect_distance must be > 0, got %v", c.ReselectDistance)
	case c.Deadzone < 0:
		return fmt.Errorf("tactical: deadzone must be >= 0, got %v", c.Deadzone)
	case c.DirectMoveDistance < 0:
		return fmt.Errorf("tactical: direct_move_distance must be >= 0, got %v", c.DirectMoveDistance)
	case c.ChaseStopDistance < 0:
		return fmt.Errorf("tactical: chase_stop_distance must be >= 0, got %v", c.ChaseStopDistance)
	}
	return nil
}
