package game

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Garsondee/cover-shooter/internal/ai"
	"github.com/Garsondee/cover-shooter/internal/nav"
)

// SimConfig holds host-side simulation settings.
type SimConfig struct {
	TPS         int     `yaml:"tps"`
	Seed        int64   `yaml:"seed"`
	AgentRadius float64 `yaml:"agent_radius"`
	Verbose     bool    `yaml:"verbose"`
}

// Config is the full tunable set, loaded from one YAML document.
type Config struct {
	Nav       nav.Config          `yaml:"nav"`
	Avoidance nav.AvoidanceConfig `yaml:"avoidance"`
	Tactical  ai.Config           `yaml:"tactical"`
	Sim       SimConfig           `yaml:"sim"`
}

// DefaultConfig returns the stock settings used when no file is given.
func DefaultConfig() Config {
	return Config{
		Nav:       nav.DefaultConfig(),
		Avoidance: nav.DefaultAvoidance(),
		Tactical:  ai.DefaultConfig(),
		Sim: SimConfig{
			TPS:         60,
			Seed:        1,
			AgentRadius: 6,
		},
	}
}

// ParseConfig decodes data over the defaults, so a document only needs the
// fields it changes.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("game: decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("game: invalid config: %w", err)
	}
	return cfg, nil
}

// LoadConfig reads and parses the config file at path.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("game: load config %s: %w", path, err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports the first invalid field of any section.
func (c Config) Validate() error {
	if err := c.Nav.Validate(); err != nil {
		return err
	}
	if err := c.Avoidance.Validate(); err != nil {
		return err
	}
	if err := c.Tactical.Validate(); err != nil {
		return err
	}
	switch {
	case c.Sim.TPS <= 0:
		return fmt.Errorf("sim: tps must be > 0, got %d", c.Sim.TPS)
	case c.Sim.AgentRadius <= 0:
		return fmt.Errorf("sim: agent_radius must be > 0, got %v", c.Sim.AgentRadius)
	}
	return nil
}
