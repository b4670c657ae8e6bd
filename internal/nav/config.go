package nav

import (
	"fmt"
	"math"
	"time"
)

const (
	DefaultCellSize        = 16.0
	DefaultPadding         = 8.0
	DefaultRebuildInterval = 500 * time.Millisecond
	DefaultCacheTimeout    = 200 * time.Millisecond
	DefaultCacheDistance   = 20.0
	DefaultCacheCapacity   = 50
	DefaultSnapRadius      = 5

	DefaultLookAhead   = 60.0
	DefaultAvoidRadius = 50.0
	DefaultAvoidForce  = 0.4
	DefaultMaxAngleDeg = 60.0
)

// Config holds the grid and path planner tunables.
type Config struct {
	CellSize        float64       `yaml:"cell_size"`
	Padding         float64       `yaml:"padding"`
	RebuildInterval time.Duration `yaml:"rebuild_interval"`
	CacheTimeout    time.Duration `yaml:"cache_timeout"`
	CacheDistance   float64       `yaml:"cache_distance"`
	CacheCapacity   int           `yaml:"cache_capacity"`
	SnapRadius      int           `yaml:"snap_radius"` // cells
}

// DefaultConfig returns the stock planner settings.
func DefaultConfig() Config {
	return Config{
		CellSize:        DefaultCellSize,
		Padding:         DefaultPadding,
		RebuildInterval: DefaultRebuildInterval,
		CacheTimeout:    DefaultCacheTimeout,
		CacheDistance:   DefaultCacheDistance,
		CacheCapacity:   DefaultCacheCapacity,
		SnapRadius:      DefaultSnapRadius,
	}
}

// WithDefaults fills zero-valued fields that Validate would reject.
// Padding, CacheDistance and SnapRadius may legitimately be zero and are
// left alone.
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	if c.CellSize == 0 {
		c.CellSize = d.CellSize
	}
	if c.RebuildInterval == 0 {
		c.RebuildInterval = d.RebuildInterval
	}
	if c.CacheTimeout == 0 {
		c.CacheTimeout = d.CacheTimeout
	}
	if c.CacheCapacity == 0 {
		c.CacheCapacity = d.CacheCapacity
	}
	return c
}

// Validate reports the first out-of-range field.
func (c Config) Validate() error {
	switch {
	case c.CellSize <= 0:
		return fmt.Errorf("nav: cell_size must be > 0, got %v", c.CellSize)
	case c.Padding < 0:
		return fmt.Errorf("nav: padding must be >= 0, got %v", c.Padding)
	case c.RebuildInterval <= 0:
		return fmt.Errorf("nav: rebuild_interval must be > 0, got %v", c.RebuildInterval)
	case c.CacheTimeout <= 0:
		return fmt.Errorf("nav: cache_timeout must be > 0, got %v", c.CacheTimeout)
	case c.CacheDistance < 0:
		return fmt.Errorf("nav: cache_distance must be >= 0, got %v", c.CacheDistance)
	case c.CacheCapacity <= 0:
		return fmt.Errorf("nav: cache_capacity must be > 0, got %d", c.CacheCapacity)
	case c.SnapRadius < 0:
		return fmt.Errorf("nav: snap_radius must be >= 0, got %d", c.SnapRadius)
	}
	return nil
}

// AvoidanceConfig tunes one steering call. It carries no state.
type AvoidanceConfig struct {
	LookAhead   float64 `yaml:"look_ahead"`
	Radius      float64 `yaml:"radius"`
	Force       float64 `yaml:"force"` // 0..1 blend strength
	MaxAngleDeg float64 `yaml:"max_angle_deg"`
}

// DefaultAvoidance returns the stock steering settings.
func DefaultAvoidance() AvoidanceConfig {
	return AvoidanceConfig{
		LookAhead:   DefaultLookAhead,
		Radius:      DefaultAvoidRadius,
		Force:       DefaultAvoidForce,
		MaxAngleDeg: DefaultMaxAngleDeg,
	}
}

// MaxAngle returns the maximum deviation in radians.
func (c AvoidanceConfig) MaxAngle() float64 { return c.MaxAngleDeg * math.Pi / 180 }

// Validate reports the first out-of-range field.
func (c AvoidanceConfig) Validate() error {
	switch {
	case c.LookAhead <= 0:
		return fmt.Errorf("avoidance: look_ahead must be > 0, got %v", c.LookAhead)
	case c.Radius <= 0:
		return fmt.Errorf("avoidance: radius must be > 0, got %v", c.Radius)
	case c.Force < 0 || c.Force > 1:
		return fmt.Errorf("avoidance: force must be in [0,1], got %v", c.Force)
	case c.MaxAngleDeg <= 0 || c.MaxAngleDeg > 180:
		return fmt.Errorf("avoidance: max_angle_deg must be in (0,180], got %v", c.MaxAngleDeg)
	}
	return nil
}
