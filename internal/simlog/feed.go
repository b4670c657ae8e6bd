package simlog

// Feed is a fixed-capacity ring buffer of the most recent entries,
// used for the on-screen event panel.
type Feed struct {
	entries []Entry
	head    int
	count   int
}

// NewFeed creates a feed holding up to capacity entries.
func NewFeed(capacity int) *Feed {
	if capacity < 1 {
		capacity = 1
	}
	return &Feed{entries: make([]Entry, capacity)}
}

// Add appends an entry, overwriting the oldest when full.
func (f *Feed) Add(e Entry) {
	f.entries[f.head] = e
	f.head = (f.head + 1) % len(f.entries)
	if f.count < len(f.entries) {
		f.count++
	}
}

// Len returns the number of buffered entries.
func (f *Feed) Len() int { return f.count }

// Recent returns entries in chronological order (oldest first).
func (f *Feed) Recent() []Entry {
	n := len(f.entries)
	result := make([]Entry, f.count)
	for i := 0; i < f.count; i++ {
		idx := (f.head - f.count + i + n) % n
		result[i] = f.entries[idx]
	}
	return result
}
