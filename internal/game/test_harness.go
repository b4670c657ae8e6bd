package game

import (
	"github.com/Garsondee/cover-shooter/internal/nav"
	"github.com/Garsondee/cover-shooter/internal/simlog"
)

// TestSim is a headless simulation harness for tests and batch reports.
// It builds a World from options instead of a level file and has no Ebiten
// dependency.
type TestSim struct {
	*World
}

type simBuilder struct {
	cfg     Config
	level   Level
	verbose bool
	tweaks  []func(*Config)
}

// SimOption is a builder function applied to a TestSim during construction.
type SimOption func(*simBuilder)

// WithWorldSize sets the playfield dimensions.
func WithWorldSize(w, h float64) SimOption {
	return func(b *simBuilder) {
		b.level.Width = w
		b.level.Height = h
	}
}

// WithBoundary encloses the playfield in walls of thickness t.
func WithBoundary(t float64) SimOption {
	return func(b *simBuilder) { b.level.Boundary = t }
}

// WithSeed sets the RNG seed for deterministic runs.
func WithSeed(seed int64) SimOption {
	return func(b *simBuilder) { b.cfg.Sim.Seed = seed }
}

// WithVerbose enables per-tick verbose logging.
func WithVerbose(v bool) SimOption {
	return func(b *simBuilder) { b.verbose = v }
}

// WithConfig edits the config after defaults are applied.
func WithConfig(fn func(*Config)) SimOption {
	return func(b *simBuilder) { b.tweaks = append(b.tweaks, fn) }
}

// WithLevel starts from an existing level. Options after it add to it.
func WithLevel(lvl *Level) SimOption {
	return func(b *simBuilder) {
		b.level = *lvl
		b.level.Walls = append([]RectSpec(nil), lvl.Walls...)
		b.level.Cover = append([]RectSpec(nil), lvl.Cover...)
		b.level.Enemies = append([]EnemySpec(nil), lvl.Enemies...)
	}
}

// WithWall adds a wall; walls are never picked as cover.
func WithWall(x, y, w, h float64) SimOption {
	return func(b *simBuilder) {
		b.level.Walls = append(b.level.Walls, RectSpec{X: x, Y: y, W: w, H: h})
	}
}

// WithCover adds a cover object.
func WithCover(x, y, w, h float64) SimOption {
	return func(b *simBuilder) {
		b.level.Cover = append(b.level.Cover, RectSpec{X: x, Y: y, W: w, H: h})
	}
}

// WithTacticalEnemy adds a cover-seeking enemy at (x,y).
func WithTacticalEnemy(label string, x, y float64) SimOption {
	return withEnemy(EnemySpec{Label: label, Behavior: "tactical", X: x, Y: y})
}

// WithChaseEnemy adds an enemy that closes on the player.
func WithChaseEnemy(label string, x, y float64) SimOption {
	return withEnemy(EnemySpec{Label: label, Behavior: "chase", X: x, Y: y})
}

// WithStationaryEnemy adds an enemy that holds position.
func WithStationaryEnemy(label string, x, y float64) SimOption {
	return withEnemy(EnemySpec{Label: label, Behavior: "stationary", X: x, Y: y})
}

// WithPatrolEnemy adds an enemy looping over route, starting at its first point.
func WithPatrolEnemy(label string, route ...nav.Vec2) SimOption {
	es := EnemySpec{Label: label, Behavior: "patrol"}
	for _, p := range route {
		es.Route = append(es.Route, PointSpec{X: p.X, Y: p.Y})
	}
	if len(route) > 0 {
		es.X, es.Y = route[0].X, route[0].Y
	}
	return withEnemy(es)
}

func withEnemy(es EnemySpec) SimOption {
	return func(b *simBuilder) { b.level.Enemies = append(b.level.Enemies, es) }
}

// WithPlayer places the player at (x,y), standing still.
func WithPlayer(x, y float64) SimOption {
	return func(b *simBuilder) {
		b.level.Player.X = x
		b.level.Player.Y = y
	}
}

// WithPlayerRoute makes the player walk route in a loop at speed.
func WithPlayerRoute(speed float64, route ...nav.Vec2) SimOption {
	return func(b *simBuilder) {
		b.level.Player.Speed = speed
		b.level.Player.Route = nil
		for _, p := range route {
			b.level.Player.Route = append(b.level.Player.Route, PointSpec{X: p.X, Y: p.Y})
		}
	}
}

// NewTestSim constructs a TestSim. Without options it is an empty 640×480
// field with the player at the left edge.
func NewTestSim(opts ...SimOption) *TestSim {
	b := &simBuilder{
		cfg: DefaultConfig(),
		level: Level{
			Name:   "test",
			Width:  640,
			Height: 480,
			Player: PlayerSpec{X: 40, Y: 240},
		},
	}
	for _, o := range opts {
		o(b)
	}
	for _, fn := range b.tweaks {
		fn(&b.cfg)
	}
	lvl := b.level
	return &TestSim{World: NewWorld(b.cfg, &lvl, simlog.New(b.verbose || b.cfg.Sim.Verbose))}
}

// RunTicks advances the simulation n ticks.
func (ts *TestSim) RunTicks(n int) {
	for i := 0; i < n; i++ {
		ts.Step()
	}
}

// RunUntil advances the simulation up to maxTicks, stopping early if predicate
// returns true. Returns the tick at which the predicate was satisfied, or -1.
func (ts *TestSim) RunUntil(predicate func(*TestSim) bool, maxTicks int) int {
	for i := 0; i < maxTicks; i++ {
		ts.Step()
		if predicate(ts) {
			return ts.Tick()
		}
	}
	return -1
}

// Report summarizes the run so far.
func (ts *TestSim) Report() RunReport { return Summarize(ts.World) }
