package session

import (
	"context"
	"slices"
	"sync"
	"time"
)

type memoryEntry struct {
	genres     []string
	generation uint64
	expires    time.Time
}

// MemoryStore is the single-process fallback used when Redis is unavailable.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]*memoryEntry
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]*memoryEntry),
	}
}

func (s *MemoryStore) Name() string { return "memory" }

// entry returns the live entry for id, creating it when create is set. Caller holds mu.
func (s *MemoryStore) entry(id string, create bool) *memoryEntry {
	now := s.now()
	e, ok := s.entries[id]
	if ok && now.After(e.expires) {
		delete(s.entries, id)
		ok = false
	}
	if !ok {
		if !create {
			return nil
		}
		e = &memoryEntry{genres: []string{}}
		s.entries[id] = e
	}
	e.expires = now.Add(s.ttl)
	return e
}

func (s *MemoryStore) Genres(_ context.Context, sessionID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.entry(sessionID, false)
	if e == nil {
		return []string{}, nil
	}
	return slices.Clone(e.genres), nil
}

func (s *MemoryStore) UpdateGenres(_ context.Context, sessionID string, fn func([]string) []string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.entry(sessionID, true)
	e.genres = slices.Clone(fn(slices.Clone(e.genres)))
	return slices.Clone(e.genres), nil
}

func (s *MemoryStore) NextGeneration(_ context.Context, sessionID string) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.entry(sessionID, true)
	e.generation++
	return e.generation, nil
}

func (s *MemoryStore) Generation(_ context.Context, sessionID string) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.entry(sessionID, false)
	if e == nil {
		return 0, nil
	}
	return e.generation, nil
}

// Sweep drops expired sessions and returns how many were removed.
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	removed := 0
	for id, e := range s.entries {
		if now.After(e.expires) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}

// RunSweeper calls Sweep every interval until ctx is done.
func (s *MemoryStore) RunSweeper(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.Sweep()
		}
	}
}
