package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	fiberRecover "github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"movie-discovery-web/internal/backend"
	"movie-discovery-web/internal/config"
	"movie-discovery-web/internal/handler"
	"movie-discovery-web/internal/metrics"
	"movie-discovery-web/internal/middleware"
	"movie-discovery-web/internal/recommend"
	"movie-discovery-web/internal/render"
	"movie-discovery-web/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Session state lives in Redis when it is reachable, in process memory otherwise
	var (
		rdb     *redis.Client
		store   session.Store
		limiter *middleware.RateLimiter
	)
	rdb, err = session.NewRedis(cfg.Redis)
	if err != nil {
		slog.Warn("Redis unavailable, keeping sessions in memory without rate limiting", "error", err)
		mem := session.NewMemoryStore(cfg.Session.TTL)
		go mem.RunSweeper(ctx, time.Minute)
		store = mem
	} else {
		store = session.NewRedisStore(rdb, cfg.Session.TTL)
		limiter = middleware.NewRateLimiter(middleware.NewRedisCounter(rdb), cfg.RateLimit.Max, cfg.RateLimit.WindowSeconds)
	}

	client := metrics.InstrumentRecommender(backend.NewClient(cfg.BackendURL, cfg.BackendTimeout))
	controller := recommend.NewController(client, store, recommend.Options{
		LocationField:   cfg.LocationField,
		DefaultFromYear: cfg.DefaultFromYear,
		Observer:        metrics.Observer,
	})

	html, err := render.NewHTML()
	if err != nil {
		slog.Error("failed to parse templates", "error", err)
		os.Exit(1)
	}

	app := fiber.New(fiber.Config{
		AppName:      "movie-discovery-web",
		ServerHeader: "movie-discovery-web",
		ErrorHandler: handler.ErrorHandler,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})

	// Global middleware
	app.Use(fiberRecover.New())
	app.Use(logger.New())
	app.Use(cors.New())
	app.Use(middleware.SessionMiddleware(cfg.Session.CookieName, cfg.Session.TTL))

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	pages := handler.NewPageHandler(cfg, store, controller, html)
	if err := handler.Register(app, pages, limiter); err != nil {
		slog.Error("failed to register routes", "error", err)
		os.Exit(1)
	}

	go func() {
		slog.Info("movie-discovery-web starting", "port", cfg.Port, "backend", cfg.BackendURL, "session_store", store.Name())
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server error", "error", err)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down movie-discovery-web...")

	// Shutdown HTTP server first (stop accepting new requests)
	if err := app.Shutdown(); err != nil {
		slog.Error("error shutting down HTTP server", "error", err)
	}
	slog.Info("HTTP server stopped")

	if rdb != nil {
		if err := rdb.Close(); err != nil {
			slog.Error("error closing Redis connection", "error", err)
		} else {
			slog.Info("Redis connection closed")
		}
	}

	slog.Info("movie-discovery-web shutdown complete")
}
