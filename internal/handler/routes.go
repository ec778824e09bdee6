package handler

import (
	"embed"
	"io/fs"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/static"

	"movie-discovery-web/internal/middleware"
)

//go:embed static
var staticFS embed.FS

//go:embed swagger.yaml
var swaggerYAML []byte

// Register mounts every route of the page on app. A nil limiter leaves submissions unthrottled.
func Register(app *fiber.App, h *PageHandler, limiter *middleware.RateLimiter) error {
	assets, err := fs.Sub(staticFS, "static")
	if err != nil {
		return err
	}

	RegisterSwagger(app, swaggerYAML)
	app.Get("/health", h.Health)
	app.Use("/static", static.New("", static.Config{FS: assets}))

	submit := func(onLimit fiber.Handler) fiber.Handler {
		if limiter == nil {
			return func(c fiber.Ctx) error { return c.Next() }
		}
		return limiter.Handler(onLimit)
	}

	app.Get("/", h.Index)
	app.Post("/genres", h.AddGenre)
	app.Delete("/genres/:genre", h.RemoveGenre)
	app.Post("/recommendations", submit(h.RecommendRateLimited), h.Recommend)

	api := app.Group("/api/v1")
	api.Get("/selection", h.GetSelection)
	api.Post("/selection", h.PostSelection)
	api.Delete("/selection/:genre", h.DeleteSelection)
	api.Post("/recommendations", submit(h.APIRecommendRateLimited), h.APIRecommend)

	return nil
}
