package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/utils/v2"

	"movie-discovery-web/internal/config"
	"movie-discovery-web/internal/genre"
	"movie-discovery-web/internal/metrics"
	"movie-discovery-web/internal/middleware"
	"movie-discovery-web/internal/models"
	"movie-discovery-web/internal/recommend"
	"movie-discovery-web/internal/render"
	"movie-discovery-web/internal/session"
)

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SelectionRequest is the JSON body of a dropdown change.
type SelectionRequest struct {
	Genre string `json:"genre"`
}

// PageHandler serves the form page, its HTMX fragments and the JSON mirror of both.
type PageHandler struct {
	store           session.Store
	controller      *recommend.Controller
	html            *render.HTML
	locationField   string
	defaultFromYear int
	now             func() time.Time
}

// NewPageHandler creates a new PageHandler.
func NewPageHandler(cfg *config.Config, store session.Store, controller *recommend.Controller, html *render.HTML) *PageHandler {
	return &PageHandler{
		store:           store,
		controller:      controller,
		html:            html,
		locationField:   cfg.LocationField,
		defaultFromYear: cfg.DefaultFromYear,
		now:             time.Now,
	}
}

// Health returns service health status.
func (h *PageHandler) Health(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":        "ok",
		"service":       "movie-discovery-web",
		"session_store": h.store.Name(),
	})
}

// Index renders the full page with the visitor's current genre tags.
func (h *PageHandler) Index(c fiber.Ctx) error {
	view, err := h.currentView(c.Context(), middleware.SessionID(c))
	if err != nil {
		slog.Error("failed to load genre selection", "error", err)
		view = genre.View{Tags: []genre.Tag{}, Placeholder: genre.PlaceholderLabel}
	}

	locations, label := models.OTTPlatformOptions, "OTT Platform"
	if h.locationField == config.LocationCountry {
		locations, label = models.CountryOptions, "Country"
	}

	page, err := h.html.Page(render.PageData{
		ContentTypes:    models.ContentTypeOptions,
		Genres:          models.GenreOptions,
		Languages:       models.LanguageOptions,
		Locations:       locations,
		LocationLabel:   label,
		Formats:         models.FormatOptions,
		Tags:            view,
		DefaultFromYear: h.defaultFromYear,
		CurrentYear:     h.now().Year(),
	})
	if err != nil {
		return err
	}
	return sendHTML(c, page)
}

// AddGenre handles a genre dropdown change and returns the tag list fragment.
func (h *PageHandler) AddGenre(c fiber.Ctx) error {
	update, err := h.changeGenre(c.Context(), middleware.SessionID(c), c.FormValue("genre"))
	if err != nil {
		slog.Error("failed to update genre selection", "error", err)
		return c.Status(fiber.StatusServiceUnavailable).SendString("genre selection unavailable")
	}

	fragment, err := h.html.Tags(update.View, update.ResetDropdown)
	if err != nil {
		return err
	}
	return sendHTML(c, fragment)
}

// RemoveGenre handles a tag's remove control and returns the tag list fragment.
func (h *PageHandler) RemoveGenre(c fiber.Ctx) error {
	view, err := h.removeGenre(c)
	if err != nil {
		slog.Error("failed to remove genre", "error", err)
		return c.Status(fiber.StatusServiceUnavailable).SendString("genre selection unavailable")
	}

	fragment, err := h.html.Tags(view, false)
	if err != nil {
		return err
	}
	return sendHTML(c, fragment)
}

// Recommend submits the form and returns the outcome fragment. A response overtaken by a
// newer submission is answered with 204 so the page keeps the newer outcome.
func (h *PageHandler) Recommend(c fiber.Ctx) error {
	in := models.FormInput{
		ContentType: c.FormValue("contentType"),
		Language:    c.FormValue("language"),
		Location:    c.FormValue("location"),
		Format:      c.FormValue("format"),
		FromYear:    c.FormValue("fromYear"),
	}

	out := h.submit(c, in)
	if out.Stale {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return h.sendOutcome(c, out)
}

// RecommendRateLimited answers an HTMX submission refused by the rate limiter.
func (h *PageHandler) RecommendRateLimited(c fiber.Ctx) error {
	metrics.RateLimited.Inc()
	out := h.controller.Reject(c.Context(), middleware.SessionID(c), recommend.ErrorKindRateLimit, recommend.RateLimitMessage)
	return h.sendOutcome(c, out)
}

// GetSelection returns the current genre tags.
func (h *PageHandler) GetSelection(c fiber.Ctx) error {
	view, err := h.currentView(c.Context(), middleware.SessionID(c))
	if err != nil {
		slog.Error("failed to load genre selection", "error", err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{Error: "genre selection unavailable"})
	}
	return c.JSON(view)
}

// PostSelection applies a dropdown change given as JSON.
func (h *PageHandler) PostSelection(c fiber.Ctx) error {
	var req SelectionRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	update, err := h.changeGenre(c.Context(), middleware.SessionID(c), req.Genre)
	if err != nil {
		slog.Error("failed to update genre selection", "error", err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{Error: "genre selection unavailable"})
	}
	return c.JSON(update)
}

// DeleteSelection removes one genre.
func (h *PageHandler) DeleteSelection(c fiber.Ctx) error {
	view, err := h.removeGenre(c)
	if err != nil {
		slog.Error("failed to remove genre", "error", err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{Error: "genre selection unavailable"})
	}
	return c.JSON(view)
}

// APIRecommend submits filters given as JSON and returns the outcome as JSON.
func (h *PageHandler) APIRecommend(c fiber.Ctx) error {
	var in models.FormInput
	if len(c.Body()) > 0 {
		if err := json.Unmarshal(c.Body(), &in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
		}
	}
	return c.JSON(h.submit(c, in))
}

// APIRecommendRateLimited answers a JSON submission refused by the rate limiter.
func (h *PageHandler) APIRecommendRateLimited(c fiber.Ctx) error {
	metrics.RateLimited.Inc()
	out := h.controller.Reject(c.Context(), middleware.SessionID(c), recommend.ErrorKindRateLimit, recommend.RateLimitMessage)
	return c.Status(fiber.StatusTooManyRequests).JSON(out)
}

func (h *PageHandler) submit(c fiber.Ctx, in models.FormInput) recommend.Outcome {
	ctx, sid := c.Context(), middleware.SessionID(c)

	genres, err := h.store.Genres(ctx, sid)
	if err != nil {
		slog.Error("failed to load genre selection for submission", "session_id", sid, "error", err)
		return h.controller.Reject(ctx, sid, recommend.ErrorKindTransport, recommend.GenericErrorMessage)
	}

	out := h.controller.Submit(ctx, sid, in, genres)
	metrics.RecordOutcome(out)
	return out
}

func (h *PageHandler) sendOutcome(c fiber.Ctx, out recommend.Outcome) error {
	fragment, err := h.html.Outcome(render.NewOutcome(out))
	if err != nil {
		return err
	}
	return sendHTML(c, fragment)
}

func (h *PageHandler) currentView(ctx context.Context, sid string) (genre.View, error) {
	items, err := h.store.Genres(ctx, sid)
	if err != nil {
		return genre.View{}, err
	}
	return genre.NewController(genre.Restore(items), models.GenreOptions, nil).Render(), nil
}

func (h *PageHandler) changeGenre(ctx context.Context, sid, value string) (genre.Update, error) {
	// Stored past the request, so detach it from fiber's buffers.
	value = utils.CopyString(value)

	var update genre.Update
	_, err := h.store.UpdateGenres(ctx, sid, func(current []string) []string {
		ctrl := genre.NewController(genre.Restore(current), models.GenreOptions, nil)
		update = ctrl.OnDropdownChange(value)
		return ctrl.Selection().Current()
	})
	if err != nil {
		return genre.Update{}, err
	}

	switch {
	case update.Ignored:
		metrics.RecordGenreEvent("ignored")
	case value == models.AnyValue:
		metrics.RecordGenreEvent("any")
	default:
		metrics.RecordGenreEvent("add")
	}
	return update, nil
}

func (h *PageHandler) removeGenre(c fiber.Ctx) (genre.View, error) {
	id, err := url.PathUnescape(c.Params("genre"))
	if err != nil {
		id = c.Params("genre")
	}

	var view genre.View
	_, err = h.store.UpdateGenres(c.Context(), middleware.SessionID(c), func(current []string) []string {
		ctrl := genre.NewController(genre.Restore(current), models.GenreOptions, nil)
		view = ctrl.RemoveGenre(id)
		return ctrl.Selection().Current()
	})
	if err != nil {
		return genre.View{}, err
	}
	metrics.RecordGenreEvent("remove")
	return view, nil
}

func sendHTML(c fiber.Ctx, body []byte) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(body)
}

// ErrorHandler logs unhandled errors and answers with ErrorResponse.
func ErrorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code >= fiber.StatusInternalServerError {
		slog.Error("request failed", "method", c.Method(), "path", c.Path(), "error", err)
	}

	msg := "internal server error"
	if fe != nil {
		msg = fe.Message
	}
	return c.Status(code).JSON(ErrorResponse{Error: msg})
}
