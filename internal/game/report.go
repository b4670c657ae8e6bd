package game

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Garsondee/cover-shooter/internal/ai"
	"github.com/Garsondee/cover-shooter/internal/nav"
)

// AgentReport is one enemy's end-of-run summary.
type AgentReport struct {
	Label    string
	Kind     ai.Kind
	Shots    int
	Acquired int // covers chosen, tactical only
	Peeks    int // tactical only
	Phase    string
}

// RunReport summarizes a finished or in-progress run.
type RunReport struct {
	Level         string
	Ticks         int
	Shots         int
	Blocked       int // shots whose segment crosses a current obstacle; should stay 0
	CoverAcquired int
	CoverLost     int
	Removed       int
	Nav           nav.Stats
	Agents        []AgentReport
}

// Summarize collects counters from the world's log, planner and agents.
func Summarize(w *World) RunReport {
	r := RunReport{
		Level:         w.level.Name,
		Ticks:         w.tick,
		Shots:         len(w.shots),
		CoverAcquired: w.log.Count("tactical", "cover_acquired"),
		CoverLost:     w.log.Count("tactical", "cover_lost"),
		Removed:       w.log.Count("world", "obstacle_removed"),
		Nav:           w.nav.Stats(),
	}
	for _, s := range w.shots {
		if !nav.HasLineOfSight(s.From, s.To, w.obstacles) {
			r.Blocked++
		}
	}
	for _, e := range w.enemies {
		ar := AgentReport{Label: e.Label, Kind: e.Behavior.Kind, Shots: e.Behavior.Shots(), Phase: "-"}
		if cs := e.Behavior.Cover; cs != nil {
			ar.Acquired = cs.Acquired
			ar.Peeks = cs.Peeks
			ar.Phase = cs.Phase.String()
		}
		r.Agents = append(r.Agents, ar)
	}
	sort.Slice(r.Agents, func(i, j int) bool { return r.Agents[i].Label < r.Agents[j].Label })
	return r
}

// String renders the report as the headless runner prints it.
func (r RunReport) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "level=%s ticks=%d shots=%d blocked_shots=%d cover_acquired=%d cover_lost=%d obstacles_removed=%d\n",
		r.Level, r.Ticks, r.Shots, r.Blocked, r.CoverAcquired, r.CoverLost, r.Removed)
	fmt.Fprintf(&sb, "nav: searches=%d cache_hits=%d cache_misses=%d hit_ratio=%.2f evictions=%d no_path=%d rebuilds=%d\n",
		r.Nav.Searches, r.Nav.CacheHits, r.Nav.CacheMisses, r.Nav.HitRatio(), r.Nav.Evictions, r.Nav.NoPath, r.Nav.Rebuilds)
	for _, a := range r.Agents {
		fmt.Fprintf(&sb, "  %-4s %-10s shots=%-3d covers=%-2d peeks=%-3d phase=%s\n",
			a.Label, a.Kind, a.Shots, a.Acquired, a.Peeks, a.Phase)
	}
	return sb.String()
}
