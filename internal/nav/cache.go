package nav

import (
	"slices"
	"time"
)

// cacheKey quantizes a query to its (start cell, goal cell) pair.
type cacheKey struct {
	sx, sy, gx, gy int
}

// cachedPath memoizes one search. An empty waypoints slice records "no path".
type cachedPath struct {
	waypoints []Vec2
	start     Vec2
	goal      Vec2
	createdAt time.Time
}

// pathCache is a bounded memo of recent searches. Entries are evicted in
// insertion order once capacity is reached.
type pathCache struct {
	entries   map[cacheKey]*cachedPath
	order     []cacheKey
	capacity  int
	timeout   time.Duration
	threshold float64
}

func newPathCache(capacity int, timeout time.Duration, threshold float64) *pathCache {
	return &pathCache{
		entries:   make(map[cacheKey]*cachedPath, capacity),
		order:     make([]cacheKey, 0, capacity),
		capacity:  capacity,
		timeout:   timeout,
		threshold: threshold,
	}
}

// get returns the cached waypoints for key when the entry is still young and
// the live start and goal are both within the distance threshold of the ones
// the entry was computed for.
func (c *pathCache) get(key cacheKey, start, goal Vec2, now time.Time) ([]Vec2, bool) {
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if now.Sub(e.createdAt) >= c.timeout {
		return nil, false
	}
	if start.Dist(e.start) > c.threshold || goal.Dist(e.goal) > c.threshold {
		return nil, false
	}
	return slices.Clone(e.waypoints), true
}

// put stores an entry, replacing any entry under the same key. It returns
// true when an older entry had to be evicted to make room.
func (c *pathCache) put(key cacheKey, e *cachedPath) bool {
	if _, ok := c.entries[key]; ok {
		c.order = slices.DeleteFunc(c.order, func(k cacheKey) bool { return k == key })
	}
	evicted := false
	for len(c.order) >= c.capacity && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
		evicted = true
	}
	c.entries[key] = e
	c.order = append(c.order, key)
	return evicted
}

func (c *pathCache) len() int { return len(c.entries) }

func (c *pathCache) clear() {
	clear(c.entries)
	c.order = c.order[:0]
}
