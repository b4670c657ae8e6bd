package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/Garsondee/cover-shooter/internal/game"
	"github.com/Garsondee/cover-shooter/internal/simlog"
)

type runStats struct {
	runIndex int
	seed     int64

	firstShotTick  int
	firstCoverTick int
	firstNoPath    int

	report    game.RunReport
	peeks     int
	phaseFlip int
	inRange   int
	shooters  map[string]struct{}
}

func main() {
	var runs int
	var ticks int
	var seedBase int64
	var seedStep int64
	var levelPath string
	var cfgPath string
	var copyOut bool

	flag.IntVar(&runs, "runs", 5, "number of headless simulation runs")
	flag.IntVar(&ticks, "ticks", 3600, "ticks per run")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&levelPath, "level", "", "YAML level file (embedded arena when empty)")
	flag.StringVar(&cfgPath, "config", "", "YAML config file")
	flag.BoolVar(&copyOut, "copy", false, "also copy the report to the clipboard")
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if ticks <= 0 {
		fmt.Println("error: -ticks must be > 0")
		return
	}

	cfg := game.DefaultConfig()
	if cfgPath != "" {
		c, err := game.LoadConfig(cfgPath)
		if err != nil {
			fmt.Printf("error: %v\n", err)
			os.Exit(1)
		}
		cfg = c
	}
	lvl, err := loadLevel(levelPath)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}

	var out strings.Builder
	fmt.Fprintf(&out, "=== Headless Cover Report ===\n")
	fmt.Fprintf(&out, "level=%s runs=%d ticks=%d seed_base=%d seed_step=%d\n\n", lvl.Name, runs, ticks, seedBase, seedStep)

	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		stats := runLevel(i+1, seed, ticks, cfg, lvl)
		all = append(all, stats)
		writeRun(&out, stats)
	}
	writeAggregate(&out, all)

	fmt.Print(out.String())
	if copyOut {
		if err := clipboard.WriteAll(out.String()); err != nil {
			fmt.Printf("clipboard: %v\n", err)
		}
	}
}

func loadLevel(path string) (*game.Level, error) {
	if path == "" {
		return game.LoadEmbeddedLevel(game.DefaultLevelName)
	}
	return game.LoadLevel(path)
}

func runLevel(runIndex int, seed int64, ticks int, cfg game.Config, lvl *game.Level) runStats {
	cfg.Sim.Seed = seed
	ts := game.NewTestSim(
		game.WithLevel(lvl),
		game.WithConfig(func(c *game.Config) { *c = cfg }),
	)
	ts.RunTicks(ticks)
	return collect(runIndex, seed, ts)
}

func collect(runIndex int, seed int64, ts *game.TestSim) runStats {
	entries := ts.Log().Entries()
	shooters := map[string]struct{}{}
	for _, s := range ts.Shots() {
		shooters[s.Shooter] = struct{}{}
	}
	peeks := 0
	for _, e := range entries {
		if e.Category == "tactical" && e.Key == "phase" && strings.HasPrefix(e.Value, "peeking") {
			peeks++
		}
	}
	return runStats{
		runIndex:       runIndex,
		seed:           seed,
		firstShotTick:  firstTick(entries, "shot", "fire", ""),
		firstCoverTick: firstTick(entries, "tactical", "cover_acquired", ""),
		firstNoPath:    firstTick(entries, "nav", "no_path", ""),
		report:         ts.Report(),
		peeks:          peeks,
		phaseFlip:      ts.Log().Count("tactical", "phase"),
		inRange:        ts.Log().Count("chase", "in_range"),
		shooters:       shooters,
	}
}

func firstTick(entries []simlog.Entry, category, key, contains string) int {
	for _, e := range entries {
		if e.Category != category || e.Key != key {
			continue
		}
		if contains == "" || strings.Contains(e.Value, contains) {
			return e.Tick
		}
	}
	return -1
}

func writeRun(out *strings.Builder, rs runStats) {
	fmt.Fprintf(out, "--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Fprintf(out, "phase_markers: first_shot=%d first_cover=%d first_no_path=%d\n",
		rs.firstShotTick, rs.firstCoverTick, rs.firstNoPath)
	fmt.Fprintf(out, "tactical_events: phase_change=%d peeks=%d chase_in_range=%d\n",
		rs.phaseFlip, rs.peeks, rs.inRange)
	fmt.Fprintf(out, "shooters: %s\n", joinSet(rs.shooters))
	out.WriteString(rs.report.String())
	if bad, reason := flagRun(rs); bad {
		fmt.Fprintf(out, "WARNING: %s\n", reason)
	}
	out.WriteString("\n")
}

// flagRun reports runs whose numbers point at a planner or AI regression.
func flagRun(rs runStats) (bool, string) {
	var reasons []string
	if rs.report.Blocked > 0 {
		reasons = append(reasons, fmt.Sprintf("blocked_shots=%d", rs.report.Blocked))
	}
	if rs.report.Ticks > 0 && rs.report.Shots == 0 {
		reasons = append(reasons, "no_shots")
	}
	if lookups := rs.report.Nav.CacheHits + rs.report.Nav.CacheMisses; lookups > 0 && rs.report.Nav.NoPath*2 > lookups {
		reasons = append(reasons, fmt.Sprintf("mostly_no_path=%d/%d", rs.report.Nav.NoPath, lookups))
	}
	if len(reasons) == 0 {
		return false, ""
	}
	return true, strings.Join(reasons, " ")
}

func writeAggregate(out *strings.Builder, all []runStats) {
	totalShots := 0
	totalBlocked := 0
	totalCover := 0
	totalPeeks := 0
	totalSearches := 0
	totalHits := 0
	totalMisses := 0
	totalNoPath := 0
	totalRebuilds := 0
	shotTicks := make([]int, 0, len(all))
	coverTicks := make([]int, 0, len(all))
	shootersGlobal := map[string]struct{}{}
	flagged := 0

	type agentAgg struct {
		shots  int
		covers int
		peeks  int
		runs   int
	}
	agents := map[string]*agentAgg{}

	for _, rs := range all {
		r := rs.report
		totalShots += r.Shots
		totalBlocked += r.Blocked
		totalCover += r.CoverAcquired
		totalPeeks += rs.peeks
		totalSearches += r.Nav.Searches
		totalHits += r.Nav.CacheHits
		totalMisses += r.Nav.CacheMisses
		totalNoPath += r.Nav.NoPath
		totalRebuilds += r.Nav.Rebuilds
		if rs.firstShotTick >= 0 {
			shotTicks = append(shotTicks, rs.firstShotTick)
		}
		if rs.firstCoverTick >= 0 {
			coverTicks = append(coverTicks, rs.firstCoverTick)
		}
		for label := range rs.shooters {
			shootersGlobal[label] = struct{}{}
		}
		if bad, _ := flagRun(rs); bad {
			flagged++
		}
		for _, a := range r.Agents {
			ag, ok := agents[a.Label]
			if !ok {
				ag = &agentAgg{}
				agents[a.Label] = ag
			}
			ag.shots += a.Shots
			ag.covers += a.Acquired
			ag.peeks += a.Peeks
			ag.runs++
		}
	}

	n := len(all)
	fmt.Fprintln(out, "=== Aggregate ===")
	fmt.Fprintf(out, "runs=%d flagged=%d\n", n, flagged)
	fmt.Fprintf(out, "avg_per_run: shots=%.1f blocked_shots=%.1f cover_acquired=%.1f peeks=%.1f\n",
		avg(totalShots, n), avg(totalBlocked, n), avg(totalCover, n), avg(totalPeeks, n))
	fmt.Fprintf(out, "avg_nav_per_run: searches=%.1f no_path=%.1f rebuilds=%.1f hit_ratio=%s\n",
		avg(totalSearches, n), avg(totalNoPath, n), avg(totalRebuilds, n), ratioString(totalHits, totalHits+totalMisses))
	fmt.Fprintf(out, "phase_marker_avg_ticks: first_shot=%s first_cover=%s\n",
		avgTickString(shotTicks), avgTickString(coverTicks))
	fmt.Fprintf(out, "unique_shooters=%d [%s]\n", len(shootersGlobal), joinSet(shootersGlobal))

	fmt.Fprintln(out, "\n=== Per-Agent Averages ===")
	labels := make([]string, 0, len(agents))
	for label := range agents {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		ag := agents[label]
		fmt.Fprintf(out, "  %-4s shots=%.1f covers=%.1f peeks=%.1f\n",
			label, avg(ag.shots, ag.runs), avg(ag.covers, ag.runs), avg(ag.peeks, ag.runs))
	}
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func avgTickString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}

func ratioString(num, den int) string {
	if den == 0 {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", float64(num)/float64(den))
}

func joinSet(s map[string]struct{}) string {
	if len(s) == 0 {
		return "none"
	}
	labels := make([]string, 0, len(s))
	for k := range s {
		labels = append(labels, k)
	}
	sort.Strings(labels)
	return strings.Join(labels, ",")
}
