// Package recommend runs the submit lifecycle of the recommendation form: build the
// criteria, validate, call the backend and classify the outcome.
package recommend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"movie-discovery-web/internal/backend"
	"movie-discovery-web/internal/models"
)

// GenericErrorMessage is shown whenever the backend gave no usable message.
const GenericErrorMessage = "Something went wrong. Please try again later."

// RateLimitMessage is shown when this server refuses a submission for going too fast.
const RateLimitMessage = "Sorry 😔 We've reached the API limit for now. Please wait before trying again."

// Recommender is the backend call.
type Recommender interface {
	Recommend(ctx context.Context, criteria models.FilterCriteria) (*models.RecommendationResponse, error)
}

// Generations issues and reads per-session submission numbers.
type Generations interface {
	NextGeneration(ctx context.Context, sessionID string) (uint64, error)
	Generation(ctx context.Context, sessionID string) (uint64, error)
}

// Outcome is the final view state of one submission.
type Outcome struct {
	State           State                   `json:"state"`
	Generation      uint64                  `json:"generation"`
	Criteria        models.FilterCriteria   `json:"-"`
	Recommendations []models.Recommendation `json:"recommendations,omitempty"`
	ErrorMessage    string                  `json:"error,omitempty"`
	ErrorKind       ErrorKind               `json:"error_kind,omitempty"`
	// ErrorType is the backend's own error_type, when it sent one.
	ErrorType     string `json:"error_type,omitempty"`
	SubmitEnabled bool   `json:"submit_enabled"`
	// Stale is set when a newer submission for the same session was issued while this
	// one was in flight. Stale outcomes must not be displayed.
	Stale bool `json:"stale"`
}

// Options tunes a Controller.
type Options struct {
	LocationField   string
	DefaultFromYear int
	Now             func() time.Time
	Observer        Observer
}

// Controller drives submissions for all sessions.
type Controller struct {
	backend         Recommender
	gens            Generations
	locationField   string
	defaultFromYear int
	now             func() time.Time
	observer        Observer
}

func NewController(rec Recommender, gens Generations, opts Options) *Controller {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.DefaultFromYear == 0 {
		opts.DefaultFromYear = 1950
	}
	return &Controller{
		backend:         rec,
		gens:            gens,
		locationField:   opts.LocationField,
		defaultFromYear: opts.DefaultFromYear,
		now:             opts.Now,
		observer:        opts.Observer,
	}
}

// ValidationError is the client-side year check failure.
type ValidationError struct {
	CurrentYear int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("From Year cannot be greater than %d", e.CurrentYear)
}

// Validate applies the only client-side rule: the from-year may not lie in the future.
// A year that does not parse is left for the backend to judge.
func Validate(criteria models.FilterCriteria, now time.Time) error {
	year, ok := criteria.YearValue()
	if !ok {
		return nil
	}
	if current := now.Year(); year > current {
		return &ValidationError{CurrentYear: current}
	}
	return nil
}

// Submit runs one submission for sessionID with the form values and the session's genre
// selection. The returned outcome always has the submit control re-enabled.
func (c *Controller) Submit(ctx context.Context, sessionID string, in models.FormInput, genres []string) (out Outcome) {
	out.Generation = c.nextGeneration(ctx, sessionID)
	defer func() { out.SubmitEnabled = true }()

	out.Criteria = models.NewFilterCriteria(in, genres, c.locationField, c.defaultFromYear)

	if err := Validate(out.Criteria, c.now()); err != nil {
		c.fail(sessionID, &out, ErrorKindValidation, err.Error(), "")
		return out
	}

	c.publish(sessionID, out.Generation, Loading, ErrorKindNone)

	resp, err := c.backend.Recommend(ctx, out.Criteria)

	if c.isStale(ctx, sessionID, out.Generation) {
		out.Stale = true
		slog.Info("discarding stale recommendation response", "session_id", sessionID, "generation", out.Generation)
		return out
	}

	switch {
	case err != nil:
		if !errors.Is(err, backend.ErrTransport) {
			slog.Warn("recommendation request failed before sending", "session_id", sessionID, "error", err)
		} else {
			slog.Error("recommendation backend call failed", "session_id", sessionID, "error", err)
		}
		c.fail(sessionID, &out, ErrorKindTransport, GenericErrorMessage, "")
	case !resp.Success:
		msg := resp.Error
		if msg == "" {
			msg = GenericErrorMessage
		}
		c.fail(sessionID, &out, ErrorKindBackend, msg, resp.ErrorType)
	default:
		out.State = ResultsShown
		out.Recommendations = resp.Recommendations
		if out.Recommendations == nil {
			out.Recommendations = []models.Recommendation{}
		}
		c.publish(sessionID, out.Generation, ResultsShown, ErrorKindNone)
		slog.Info("recommendations shown", "session_id", sessionID, "count", len(out.Recommendations))
	}
	return out
}

// Reject ends a submission without calling the backend, e.g. when it was rate limited.
// It still takes a generation so an older response cannot replace the message.
func (c *Controller) Reject(ctx context.Context, sessionID string, kind ErrorKind, message string) Outcome {
	out := Outcome{Generation: c.nextGeneration(ctx, sessionID)}
	c.fail(sessionID, &out, kind, message, "")
	out.SubmitEnabled = true
	return out
}

func (c *Controller) fail(sessionID string, out *Outcome, kind ErrorKind, message, errorType string) {
	out.State = ErrorShown
	out.ErrorKind = kind
	out.ErrorMessage = message
	out.ErrorType = errorType
	c.publish(sessionID, out.Generation, ErrorShown, kind)
}

func (c *Controller) nextGeneration(ctx context.Context, sessionID string) uint64 {
	gen, err := c.gens.NextGeneration(ctx, sessionID)
	if err != nil {
		// Without a generation the response is always applied.
		slog.Warn("could not issue request generation", "session_id", sessionID, "error", err)
		return 0
	}
	return gen
}

func (c *Controller) isStale(ctx context.Context, sessionID string, gen uint64) bool {
	if gen == 0 {
		return false
	}
	latest, err := c.gens.Generation(ctx, sessionID)
	if err != nil {
		slog.Warn("could not read request generation", "session_id", sessionID, "error", err)
		return false
	}
	return latest != gen
}

func (c *Controller) publish(sessionID string, gen uint64, to State, kind ErrorKind) {
	if c.observer == nil {
		return
	}
	c.observer.Transition(Transition{SessionID: sessionID, Generation: gen, To: to, Kind: kind})
}
