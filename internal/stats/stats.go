// Package stats tracks in-process usage counters. Counts are telemetry,
// reset on restart.
package stats

import (
	"sort"
	"sync"
)

type Tracker struct {
	mu         sync.Mutex
	searches   map[string]int
	selections map[string]int
}

func NewTracker() *Tracker {
	return &Tracker{
		searches:   make(map[string]int),
		selections: make(map[string]int),
	}
}

func (t *Tracker) RecordSearch(query string) {
	t.mu.Lock()
	t.searches[query]++
	t.mu.Unlock()
}

func (t *Tracker) RecordSelection(name string) {
	t.mu.Lock()
	t.selections[name]++
	t.mu.Unlock()
}

// Entry pairs a counted key with its count.
type Entry struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// TopSearches returns up to n queries ordered by count descending.
func (t *Tracker) TopSearches(n int) []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	return top(t.searches, n)
}

// TopSelections returns up to n selected items ordered by count descending.
func (t *Tracker) TopSelections(n int) []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	return top(t.selections, n)
}

func top(m map[string]int, n int) []Entry {
	out := make([]Entry, 0, len(m))
	for k, v := range m {
		out = append(out, Entry{Key: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
