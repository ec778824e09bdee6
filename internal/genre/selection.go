// Package genre holds the multi-genre picker: an ordered selection set fed by a single
// dropdown and rendered as removable tags.
package genre

import (
	"slices"
	"sync"

	"movie-discovery-web/internal/models"
)

// Sentinel means "no genre filter". It never shares the selection with concrete genres.
const Sentinel = models.AnyValue

// Selection is an insertion-ordered set of genre ids.
// It is either exactly {Sentinel} or a duplicate-free list without Sentinel.
type Selection struct {
	mu        sync.Mutex
	items     []string
	listeners []func([]string)
}

func NewSelection() *Selection {
	return &Selection{}
}

// Restore rebuilds a selection from a stored list, normalizing it so the invariant holds
// even for data written by an older release.
func Restore(items []string) *Selection {
	s := NewSelection()
	for _, id := range items {
		s.add(id)
	}
	return s
}

// Add selects id. Adding Sentinel replaces everything; adding a concrete genre drops
// Sentinel and appends id unless it is already present. It reports whether the set changed.
func (s *Selection) Add(id string) bool {
	s.mu.Lock()
	changed := s.add(id)
	snapshot := slices.Clone(s.items)
	listeners := s.listeners
	s.mu.Unlock()

	if changed {
		notify(listeners, snapshot)
	}
	return changed
}

func (s *Selection) add(id string) bool {
	if id == "" {
		return false
	}
	if id == Sentinel {
		if len(s.items) == 1 && s.items[0] == Sentinel {
			return false
		}
		s.items = []string{Sentinel}
		return true
	}

	changed := false
	if i := slices.Index(s.items, Sentinel); i >= 0 {
		s.items = slices.Delete(s.items, i, i+1)
		changed = true
	}
	if !slices.Contains(s.items, id) {
		s.items = append(s.items, id)
		changed = true
	}
	return changed
}

// Remove drops id if present and reports whether it was.
func (s *Selection) Remove(id string) bool {
	s.mu.Lock()
	i := slices.Index(s.items, id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	s.items = slices.Delete(s.items, i, i+1)
	snapshot := slices.Clone(s.items)
	listeners := s.listeners
	s.mu.Unlock()

	notify(listeners, snapshot)
	return true
}

// Current returns a copy of the selection in insertion order.
func (s *Selection) Current() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items)
}

// Len returns the number of selected ids.
func (s *Selection) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Subscribe registers fn to be called with the new contents after every change.
// Callbacks run outside the lock, in registration order.
func (s *Selection) Subscribe(fn func([]string)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

func notify(listeners []func([]string), items []string) {
	for _, fn := range listeners {
		fn(slices.Clone(items))
	}
}
