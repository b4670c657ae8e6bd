package main

import (
	"strings"
	"testing"

	"github.com/Garsondee/cover-shooter/internal/game"
	"github.com/Garsondee/cover-shooter/internal/nav"
	"github.com/Garsondee/cover-shooter/internal/simlog"
)

func TestFirstTick_MatchesCategoryKeyAndValue(t *testing.T) {
	entries := []simlog.Entry{
		{Tick: 3, Category: "tactical", Key: "phase", Value: "covering cover #1"},
		{Tick: 7, Category: "tactical", Key: "phase", Value: "peeking cover #1"},
		{Tick: 9, Category: "shot", Key: "fire", Value: "at (1,1)"},
	}
	if got := firstTick(entries, "tactical", "phase", "peeking"); got != 7 {
		t.Fatalf("expected tick 7, got %d", got)
	}
	if got := firstTick(entries, "shot", "fire", ""); got != 9 {
		t.Fatalf("expected tick 9, got %d", got)
	}
	if got := firstTick(entries, "nav", "no_path", ""); got != -1 {
		t.Fatalf("expected -1 for a missing entry, got %d", got)
	}
}

func TestFlagRun_CleanRun(t *testing.T) {
	rs := runStats{report: game.RunReport{Ticks: 600, Shots: 5, Nav: nav.Stats{CacheHits: 40, CacheMisses: 10, NoPath: 1}}}
	if bad, reason := flagRun(rs); bad {
		t.Fatalf("clean run flagged: %s", reason)
	}
}

func TestFlagRun_BlockedShots(t *testing.T) {
	rs := runStats{report: game.RunReport{Ticks: 600, Shots: 5, Blocked: 2}}
	bad, reason := flagRun(rs)
	if !bad || !strings.Contains(reason, "blocked_shots=2") {
		t.Fatalf("expected blocked shot flag, got %v %q", bad, reason)
	}
}

func TestFlagRun_MostlyNoPath(t *testing.T) {
	rs := runStats{report: game.RunReport{Ticks: 600, Shots: 1, Nav: nav.Stats{CacheHits: 2, CacheMisses: 8, NoPath: 6}}}
	bad, reason := flagRun(rs)
	if !bad || !strings.Contains(reason, "mostly_no_path") {
		t.Fatalf("expected no-path flag, got %v %q", bad, reason)
	}
}

func TestRunLevel_EmbeddedArena(t *testing.T) {
	lvl, err := loadLevel("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	rs := runLevel(1, 42, 600, game.DefaultConfig(), lvl)
	if rs.report.Ticks != 600 {
		t.Fatalf("expected 600 ticks, got %d", rs.report.Ticks)
	}
	if rs.report.Nav.Rebuilds == 0 {
		t.Fatal("expected at least the initial grid build")
	}
	var out strings.Builder
	writeRun(&out, rs)
	writeAggregate(&out, []runStats{rs})
	if !strings.Contains(out.String(), "=== Aggregate ===") {
		t.Fatalf("aggregate block missing:\n%s", out.String())
	}
}

func TestAvgHelpers(t *testing.T) {
	if avg(10, 0) != 0 || avg(9, 3) != 3 {
		t.Fatal("avg wrong")
	}
	if avgTickString(nil) != "n/a" || avgTickString([]int{2, 4}) != "3.0" {
		t.Fatal("avgTickString wrong")
	}
	if ratioString(1, 0) != "n/a" || ratioString(1, 4) != "0.25" {
		t.Fatal("ratioString wrong")
	}
	if joinSet(nil) != "none" || joinSet(map[string]struct{}{"b": {}, "a": {}}) != "a,b" {
		t.Fatal("joinSet wrong")
	}
}
