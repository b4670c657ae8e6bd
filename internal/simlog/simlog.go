// Package simlog records structured simulation events.
package simlog

import (
	"fmt"
	"strings"
)

// Global is the agent label used for events not tied to one agent.
const Global = "--"

// Entry is one recorded event.
type Entry struct {
	Tick     int
	Agent    string  // label e.g. "E0", "P", or "--" for global events
	Category string  // nav, tactical, chase, patrol, world
	Key      string  // specific event name within the category
	Value    string  // human-readable detail
	NumVal   float64 // optional numeric value for threshold checks
}

// String formats the entry as a fixed-width log line.
//
//	[T=042] E0   tactical  peek             cover #3
func (e Entry) String() string {
	return fmt.Sprintf("[T=%03d] %-4s %-9s %-16s %s",
		e.Tick, e.Agent, e.Category, e.Key, e.Value)
}

// Log collects structured events. It is unbounded and machine-readable;
// attach a Feed for a bounded on-screen view. A nil *Log discards everything.
type Log struct {
	entries []Entry
	verbose bool
	tick    int
	feed    *Feed
}

// New creates a Log. If verbose is true, per-tick movement and cache
// entries are also recorded.
func New(verbose bool) *Log {
	return &Log{verbose: verbose}
}

// Tee mirrors every future entry into feed.
func (l *Log) Tee(feed *Feed) {
	if l == nil {
		return
	}
	l.feed = feed
}

// SetTick stamps subsequent entries with tick.
func (l *Log) SetTick(tick int) {
	if l == nil {
		return
	}
	l.tick = tick
}

// Tick returns the current stamp.
func (l *Log) Tick() int {
	if l == nil {
		return 0
	}
	return l.tick
}

// Verbose reports whether verbose entries are recorded.
func (l *Log) Verbose() bool { return l != nil && l.verbose }

// Add records a new entry.
func (l *Log) Add(agent, category, key, value string, numVal float64) {
	if l == nil {
		return
	}
	e := Entry{
		Tick:     l.tick,
		Agent:    agent,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
	}
	l.entries = append(l.entries, e)
	if l.feed != nil {
		l.feed.Add(e)
	}
}

// AddVerbose records an entry only when verbose mode is on.
func (l *Log) AddVerbose(agent, category, key, value string, numVal float64) {
	if !l.Verbose() {
		return
	}
	l.Add(agent, category, key, value, numVal)
}

// Entries returns all recorded entries.
func (l *Log) Entries() []Entry {
	if l == nil {
		return nil
	}
	return l.entries
}

// Filter returns entries matching the given category and/or key.
// Pass empty string to match any value for that field.
func (l *Log) Filter(category, key string) []Entry {
	var out []Entry
	for _, e := range l.Entries() {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}

// FilterAgent returns entries for a specific agent label.
func (l *Log) FilterAgent(label string) []Entry {
	var out []Entry
	for _, e := range l.Entries() {
		if e.Agent == label {
			out = append(out, e)
		}
	}
	return out
}

// FilterTickRange returns entries within [fromTick, toTick] inclusive.
func (l *Log) FilterTickRange(fromTick, toTick int) []Entry {
	var out []Entry
	for _, e := range l.Entries() {
		if e.Tick >= fromTick && e.Tick <= toTick {
			out = append(out, e)
		}
	}
	return out
}

// Count returns how many entries match the given category and key.
func (l *Log) Count(category, key string) int {
	return len(l.Filter(category, key))
}

// LastOf returns the most recent entry matching category+key, or false if none.
func (l *Log) LastOf(category, key string) (Entry, bool) {
	entries := l.Filter(category, key)
	if len(entries) == 0 {
		return Entry{}, false
	}
	return entries[len(entries)-1], true
}

// HasEntry returns true if at least one entry matches category, key, and value substring.
func (l *Log) HasEntry(category, key, valueSubstr string) bool {
	for _, e := range l.Entries() {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		if valueSubstr != "" && !strings.Contains(e.Value, valueSubstr) {
			continue
		}
		return true
	}
	return false
}

// Format returns the full log as a single string for t.Log output.
func (l *Log) Format() string {
	return format(l.Entries())
}

// FormatRange returns a log string filtered to a tick range.
func (l *Log) FormatRange(fromTick, toTick int) string {
	return format(l.FilterTickRange(fromTick, toTick))
}

func format(entries []Entry) string {
	var sb strings.Builder
	for _, e := range entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
