package game

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/Garsondee/cover-shooter/internal/ai"
	"github.com/Garsondee/cover-shooter/internal/nav"
)

//go:embed levels/*.yaml
var levelFS embed.FS

// DefaultLevelName is the embedded level used when none is given.
const DefaultLevelName = "arena.yaml"

// RectSpec is an axis-aligned rectangle in level coordinates (top-left origin).
type RectSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	W float64 `yaml:"w"`
	H float64 `yaml:"h"`
}

// PointSpec is a level-space point.
type PointSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

func (p PointSpec) vec() nav.Vec2 { return nav.V(p.X, p.Y) }

// EnemySpec places one enemy and picks its behaviour.
type EnemySpec struct {
	Label    string      `yaml:"label"`
	Behavior string      `yaml:"behavior"`
	X        float64     `yaml:"x"`
	Y        float64     `yaml:"y"`
	Route    []PointSpec `yaml:"route"`
}

// PlayerSpec places the player, who is the threat every enemy reacts to.
// With a route the player walks it in a loop; otherwise it stands still
// until driven by input.
type PlayerSpec struct {
	X     float64     `yaml:"x"`
	Y     float64     `yaml:"y"`
	Speed float64     `yaml:"speed"`
	Route []PointSpec `yaml:"route"`
}

// Level is a decoded level file.
type Level struct {
	Name     string      `yaml:"name"`
	Width    float64     `yaml:"width"`
	Height   float64     `yaml:"height"`
	Boundary float64     `yaml:"boundary"` // thickness of the enclosing walls, 0 for none
	Walls    []RectSpec  `yaml:"walls"`
	Cover    []RectSpec  `yaml:"cover"`
	Enemies  []EnemySpec `yaml:"enemies"`
	Player   PlayerSpec  `yaml:"player"`
}

// ParseLevel decodes and validates a level document.
func ParseLevel(data []byte) (*Level, error) {
	var lvl Level
	if err := yaml.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("game: decode level: %w", err)
	}
	if err := lvl.Validate(); err != nil {
		return nil, err
	}
	return &lvl, nil
}

// LoadLevel reads a level from disk.
func LoadLevel(path string) (*Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("game: load level %s: %w", path, err)
	}
	lvl, err := ParseLevel(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return lvl, nil
}

// LoadEmbeddedLevel reads one of the levels compiled into the binary.
func LoadEmbeddedLevel(name string) (*Level, error) {
	data, err := fs.ReadFile(levelFS, "levels/"+name)
	if err != nil {
		return nil, fmt.Errorf("game: load level %s: %w", name, err)
	}
	lvl, err := ParseLevel(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return lvl, nil
}

// DefaultLevel returns the embedded arena. It panics if the embedded file is
// broken, which only a bad build can cause.
func DefaultLevel() *Level {
	lvl, err := LoadEmbeddedLevel(DefaultLevelName)
	if err != nil {
		panic(err)
	}
	return lvl
}

// Validate checks sizes and behaviour names.
func (l *Level) Validate() error {
	if l.Width <= 0 || l.Height <= 0 {
		return fmt.Errorf("level %q: world size must be positive, got %vx%v", l.Name, l.Width, l.Height)
	}
	if l.Boundary < 0 {
		return fmt.Errorf("level %q: boundary must be >= 0, got %v", l.Name, l.Boundary)
	}
	for i, r := range append(append([]RectSpec(nil), l.Walls...), l.Cover...) {
		if r.W <= 0 || r.H <= 0 {
			return fmt.Errorf("level %q: obstacle %d has non-positive size %vx%v", l.Name, i, r.W, r.H)
		}
	}
	for i, e := range l.Enemies {
		kind, ok := ai.ParseKind(e.Behavior)
		if !ok {
			return fmt.Errorf("level %q: enemy %d: unknown behavior %q", l.Name, i, e.Behavior)
		}
		if kind == ai.KindPatrol && len(e.Route) == 0 {
			return fmt.Errorf("level %q: enemy %d: patrol needs a route", l.Name, i)
		}
	}
	if l.Player.Speed < 0 {
		return fmt.Errorf("level %q: player speed must be >= 0, got %v", l.Name, l.Player.Speed)
	}
	return nil
}

// Obstacles expands the level into obstacle records. Boundary walls come
// first, then interior walls, then cover; IDs are assigned in that order.
func (l *Level) Obstacles() []nav.Obstacle {
	var out []nav.Obstacle
	add := func(r nav.Rect, cat nav.Category) {
		out = append(out, nav.Obstacle{ID: len(out), Rect: r, Category: cat})
	}
	if t := l.Boundary; t > 0 {
		add(nav.Rect{X: 0, Y: 0, W: l.Width, H: t}, nav.CategoryWall)
		add(nav.Rect{X: 0, Y: l.Height - t, W: l.Width, H: t}, nav.CategoryWall)
		add(nav.Rect{X: 0, Y: t, W: t, H: l.Height - 2*t}, nav.CategoryWall)
		add(nav.Rect{X: l.Width - t, Y: t, W: t, H: l.Height - 2*t}, nav.CategoryWall)
	}
	for _, r := range l.Walls {
		add(nav.Rect{X: r.X, Y: r.Y, W: r.W, H: r.H}, nav.CategoryWall)
	}
	for _, r := range l.Cover {
		add(nav.Rect{X: r.X, Y: r.Y, W: r.W, H: r.H}, nav.CategoryCover)
	}
	return out
}

func route(points []PointSpec) []nav.Vec2 {
	out := make([]nav.Vec2, len(points))
	for i, p := range points {
		out[i] = p.vec()
	}
	return out
}
