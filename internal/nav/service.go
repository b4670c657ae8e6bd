package nav

import (
	"fmt"
	"sync"
	"time"

	"github.com/Garsondee/cover-shooter/internal/simlog"
)

// Stats counts planner activity since the service was created.
type Stats struct {
	Searches    int
	CacheHits   int
	CacheMisses int
	Evictions   int
	NoPath      int
	Rebuilds    int
}

// HitRatio returns the fraction of path queries answered from the cache.
func (s Stats) HitRatio() float64 {
	total := s.CacheHits + s.CacheMisses
	if total == 0 {
		return 0
	}
	return float64(s.CacheHits) / float64(total)
}

// Service owns one world's walkability grid and path cache. Every public
// method takes the same lock, so ensure-fresh and search are atomic with
// respect to each other even under a multi-threaded host.
type Service struct {
	mu     sync.Mutex
	cfg    Config
	grid   *Grid
	cache  *pathCache
	source ObstacleSource
	now    func() time.Time
	log    *simlog.Log
	stats  Stats
}

// ServiceOption configures a Service at construction.
type ServiceOption func(*Service)

// WithClock replaces time.Now as the service's time source.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

// WithLog records grid rebuilds and failed searches into log.
func WithLog(log *simlog.Log) ServiceOption {
	return func(s *Service) { s.log = log }
}

// NewService creates a planner for a worldW×worldH world whose obstacles are
// read from source. The grid is built lazily on the first query.
func NewService(cfg Config, worldW, worldH float64, source ObstacleSource, opts ...ServiceOption) *Service {
	cfg = cfg.WithDefaults()
	s := &Service{
		cfg:    cfg,
		grid:   NewGrid(worldW, worldH, cfg),
		cache:  newPathCache(cfg.CacheCapacity, cfg.CacheTimeout, cfg.CacheDistance),
		source: source,
		now:    time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Config returns the settings the service was built with.
func (s *Service) Config() Config { return s.cfg }

// CellSize returns the grid's cell edge length.
func (s *Service) CellSize() float64 { return s.cfg.CellSize }

// Stats returns a copy of the activity counters.
func (s *Service) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// IsWalkable reports the walkability of one cell of the current grid.
func (s *Service) IsWalkable(cx, cy int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid.IsWalkable(cx, cy)
}

// WorldToCell maps a world point to its grid cell.
func (s *Service) WorldToCell(p Vec2) (int, int) { return s.grid.WorldToCell(p) }

// CellToWorld maps a cell to its world-space centre.
func (s *Service) CellToWorld(cx, cy int) Vec2 { return s.grid.CellToWorld(cx, cy) }

// GridSize returns the grid dimensions in cells.
func (s *Service) GridSize() (cols, rows int) { return s.grid.Cols(), s.grid.Rows() }

// EnsureFresh rebuilds the grid if it is missing or older than the rebuild interval.
func (s *Service) EnsureFresh() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureFreshLocked(s.now())
}

// ForceRebuild rebuilds the grid immediately, e.g. after a level load,
// and drops every cached path.
func (s *Service) ForceRebuild() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rebuildLocked(s.now())
	s.cache.clear()
}

func (s *Service) ensureFreshLocked(now time.Time) {
	n := 0
	fetch := func() []Obstacle {
		obstacles := s.source.Obstacles()
		n = len(obstacles)
		return obstacles
	}
	if s.grid.EnsureFresh(fetch, now) {
		s.noteRebuild(n)
	}
}

func (s *Service) rebuildLocked(now time.Time) {
	obstacles := s.source.Obstacles()
	s.grid.Rebuild(obstacles, now)
	s.noteRebuild(len(obstacles))
}

func (s *Service) noteRebuild(obstacles int) {
	s.stats.Rebuilds++
	s.log.Add(simlog.Global, "nav", "grid_rebuild",
		fmt.Sprintf("%dx%d obstacles=%d", s.grid.Cols(), s.grid.Rows(), obstacles),
		float64(obstacles))
}

// FindPath returns world-space waypoints from start to goal, or nil when no
// path exists. Results, including failures, are cached.
// The returned slice belongs to the caller.
func (s *Service) FindPath(start, goal Vec2) []Vec2 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findPathLocked(start, goal)
}

func (s *Service) findPathLocked(start, goal Vec2) []Vec2 {
	now := s.now()
	s.ensureFreshLocked(now)

	scx, scy := s.grid.WorldToCell(start)
	gcx, gcy := s.grid.WorldToCell(goal)
	key := cacheKey{sx: scx, sy: scy, gx: gcx, gy: gcy}

	if path, ok := s.cache.get(key, start, goal, now); ok {
		s.stats.CacheHits++
		s.log.AddVerbose(simlog.Global, "nav", "path_cache_hit",
			fmt.Sprintf("(%d,%d)->(%d,%d) len=%d", scx, scy, gcx, gcy, len(path)), float64(len(path)))
		return path
	}
	s.stats.CacheMisses++
	s.stats.Searches++

	path := s.grid.FindPath(start, goal, s.cfg.SnapRadius)
	if len(path) == 0 {
		path = nil
		s.stats.NoPath++
		s.log.Add(simlog.Global, "nav", "no_path",
			fmt.Sprintf("(%.0f,%.0f)->(%.0f,%.0f)", start.X, start.Y, goal.X, goal.Y), 0)
	}

	if s.cache.put(key, &cachedPath{waypoints: path, start: start, goal: goal, createdAt: now}) {
		s.stats.Evictions++
	}
	return clonePath(path)
}

// DirectionToGoal returns a unit vector from agentPos toward the path
// waypoint at index min(lookAhead, len-1). An agent already within half a
// cell of that waypoint is steered at the next one. The zero vector means
// there is no path, the agent already shares the goal's cell, or it is
// exactly on the target waypoint.
func (s *Service) DirectionToGoal(agentPos, goal Vec2, lookAhead int) Vec2 {
	path := s.FindPath(agentPos, goal)
	if len(path) <= 1 {
		return Vec2{}
	}
	idx := min(max(lookAhead, 0), len(path)-1)
	if agentPos.Dist(path[idx]) < s.cfg.CellSize/2 && idx+1 < len(path) {
		idx++
	}
	return path[idx].Sub(agentPos).Normalize()
}

func clonePath(path []Vec2) []Vec2 {
	if path == nil {
		return nil
	}
	out := make([]Vec2, len(path))
	copy(out, path)
	return out
}
