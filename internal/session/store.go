// Package session keeps the per-visitor page state the browser would otherwise hold:
// the genre selection and the submission generation counter.
package session

import (
	"context"
	"errors"
)

// ErrConflict is returned when a concurrent writer kept winning an optimistic update.
var ErrConflict = errors.New("session update conflict")

// Store persists page-session state. Implementations must make UpdateGenres and
// NextGeneration atomic per session.
type Store interface {
	// Genres returns the stored selection, empty for an unknown session.
	Genres(ctx context.Context, sessionID string) ([]string, error)
	// UpdateGenres applies fn to the stored selection and saves its result.
	UpdateGenres(ctx context.Context, sessionID string, fn func(current []string) []string) ([]string, error)
	// NextGeneration issues the next submission number for the session.
	NextGeneration(ctx context.Context, sessionID string) (uint64, error)
	// Generation returns the latest issued submission number, 0 if none.
	Generation(ctx context.Context, sessionID string) (uint64, error)
	// Name identifies the backend in logs and the health check.
	Name() string
}

func genresKey(sessionID string) string {
	return "session:" + sessionID + ":genres"
}

func generationKey(sessionID string) string {
	return "session:" + sessionID + ":generation"
}
