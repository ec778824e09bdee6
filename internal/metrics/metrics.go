// Package metrics exposes Prometheus instrumentation for the form controller.
package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"movie-discovery-web/internal/backend"
	"movie-discovery-web/internal/models"
	"movie-discovery-web/internal/recommend"
)

var (
	// Submission lifecycle
	StateTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "form_state_transitions_total",
			Help: "Request controller state transitions by target state and error kind",
		},
		[]string{"state", "error_kind"},
	)

	StaleResponses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "form_stale_responses_total",
			Help: "Backend responses discarded because a newer submission was issued",
		},
	)

	// Backend
	BackendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommendation_backend_duration_seconds",
			Help:    "Duration of recommendation backend calls",
			Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 40, 80},
		},
		[]string{"result"}, // "success", "failure", "transport_error"
	)

	// Genre picker
	GenreEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "genre_selection_events_total",
			Help: "Genre dropdown and tag events",
		},
		[]string{"event"}, // "add", "any", "ignored", "remove"
	)

	RateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "form_submissions_rate_limited_total",
			Help: "Submissions refused by the per-session rate limiter",
		},
	)
)

// Observer records controller transitions.
var Observer = recommend.ObserverFunc(func(t recommend.Transition) {
	StateTransitions.WithLabelValues(t.To.String(), string(t.Kind)).Inc()
})

// RecordOutcome counts a finished submission, including stale ones.
func RecordOutcome(o recommend.Outcome) {
	if o.Stale {
		StaleResponses.Inc()
	}
}

// RecordBackendCall observes one backend round trip.
func RecordBackendCall(result string, d time.Duration) {
	BackendDuration.WithLabelValues(result).Observe(d.Seconds())
}

// RecordGenreEvent counts a genre picker event.
func RecordGenreEvent(event string) {
	GenreEvents.WithLabelValues(event).Inc()
}

type instrumented struct {
	next recommend.Recommender
}

// InstrumentRecommender times every backend call made through next.
func InstrumentRecommender(next recommend.Recommender) recommend.Recommender {
	return instrumented{next: next}
}

func (i instrumented) Recommend(ctx context.Context, c models.FilterCriteria) (*models.RecommendationResponse, error) {
	start := time.Now()
	resp, err := i.next.Recommend(ctx, c)

	result := "success"
	switch {
	case errors.Is(err, backend.ErrTransport):
		result = "transport_error"
	case err != nil || !resp.Success:
		result = "failure"
	}
	RecordBackendCall(result, time.Since(start))
	return resp, err
}
