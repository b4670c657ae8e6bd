package game

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig_Valid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestParseConfig_PartialOverride(t *testing.T) {
	data := []byte(`
nav:
  cell_size: 8
  rebuild_interval: 250ms
tactical:
  shoot_cooldown: 750ms
  exposure_check: true
`)
	cfg, err := ParseConfig(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Nav.CellSize != 8 || cfg.Nav.RebuildInterval != 250*time.Millisecond {
		t.Fatalf("nav overrides not applied: %+v", cfg.Nav)
	}
	if cfg.Tactical.ShootCooldown != 750*time.Millisecond || !cfg.Tactical.ExposureCheck {
		t.Fatalf("tactical overrides not applied: %+v", cfg.Tactical)
	}
	d := DefaultConfig()
	if cfg.Nav.CacheCapacity != d.Nav.CacheCapacity || cfg.Avoidance != d.Avoidance || cfg.Sim != d.Sim {
		t.Fatal("fields absent from the document should keep their defaults")
	}
}

func TestParseConfig_ZeroSnapAndCacheDistanceSurvive(t *testing.T) {
	cfg, err := ParseConfig([]byte("nav:\n  cache_distance: 0\n  snap_radius: 0\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Nav.CacheDistance != 0 || cfg.Nav.SnapRadius != 0 {
		t.Fatalf("parsed zeros lost: %+v", cfg.Nav)
	}
	got := NewWorld(cfg, DefaultLevel(), nil).Nav().Config()
	if got.CacheDistance != 0 || got.SnapRadius != 0 {
		t.Fatalf("planner should keep cache_distance=0 snap_radius=0, got %v and %d", got.CacheDistance, got.SnapRadius)
	}
}

func TestParseConfig_RejectsBadForce(t *testing.T) {
	_, err := ParseConfig([]byte("avoidance:\n  force: 1.5\n"))
	if err == nil || !strings.Contains(err.Error(), "force") {
		t.Fatalf("expected a force error, got %v", err)
	}
}

func TestParseConfig_RejectsBadAngle(t *testing.T) {
	_, err := ParseConfig([]byte("avoidance:\n  max_angle_deg: 0\n"))
	if err == nil || !strings.Contains(err.Error(), "max_angle_deg") {
		t.Fatalf("expected an angle error, got %v", err)
	}
}

func TestParseConfig_RejectsMalformedYAML(t *testing.T) {
	if _, err := ParseConfig([]byte("nav: [1, 2")); err == nil {
		t.Fatal("malformed yaml should fail")
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected a wrapped not-exist error, got %v", err)
	}
}

func TestLoadConfig_FromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.yaml")
	if err := os.WriteFile(path, []byte("sim:\n  tps: 30\n  seed: 9\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Sim.TPS != 30 || cfg.Sim.Seed != 9 {
		t.Fatalf("sim section not read: %+v", cfg.Sim)
	}
}
