package session

import (
	"context"
	"slices"
	"sync"
	"testing"
	"time"
)

func TestMemoryStoreGenres(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Hour)

	got, err := s.Genres(ctx, "a")
	if err != nil || len(got) != 0 {
		t.Fatalf("Genres(unknown) = %v, %v", got, err)
	}

	_, _ = s.UpdateGenres(ctx, "a", func(cur []string) []string { return append(cur, "comedy") })
	_, _ = s.UpdateGenres(ctx, "a", func(cur []string) []string { return append(cur, "drama") })

	got, _ = s.Genres(ctx, "a")
	if !slices.Equal(got, []string{"comedy", "drama"}) {
		t.Errorf("Genres(a) = %v", got)
	}
	if other, _ := s.Genres(ctx, "b"); len(other) != 0 {
		t.Errorf("sessions leak into each other: %v", other)
	}
}

func TestMemoryStoreGenerationIsMonotonic(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Hour)

	var wg sync.WaitGroup
	seen := make(chan uint64, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, _ := s.NextGeneration(ctx, "a")
			seen <- n
		}()
	}
	wg.Wait()
	close(seen)

	unique := map[uint64]bool{}
	for n := range seen {
		unique[n] = true
	}
	if len(unique) != 50 {
		t.Errorf("issued %d distinct generations, want 50", len(unique))
	}
	if g, _ := s.Generation(ctx, "a"); g != 50 {
		t.Errorf("Generation() = %d, want 50", g)
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Minute)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	_, _ = s.UpdateGenres(ctx, "a", func([]string) []string { return []string{"war"} })
	_, _ = s.NextGeneration(ctx, "a")

	now = now.Add(2 * time.Minute)
	if removed := s.Sweep(); removed != 1 {
		t.Errorf("Sweep() removed %d, want 1", removed)
	}
	if g, _ := s.Generation(ctx, "a"); g != 0 {
		t.Errorf("expired session kept generation %d", g)
	}
	if got, _ := s.Genres(ctx, "a"); len(got) != 0 {
		t.Errorf("expired session kept genres %v", got)
	}
}
