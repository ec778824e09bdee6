package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Wire names for the location filter. The backend variant decides which one it reads.
const (
	LocationOTTPlatform = "ottPlatform"
	LocationCountry     = "country"
)

type Config struct {
	Redis           RedisConfig
	Session         SessionConfig
	Port            string        `validate:"required,numeric"`
	BackendURL      string        `validate:"required,url"`
	BackendTimeout  time.Duration `validate:"gte=0"`
	LocationField   string        `validate:"oneof=ottPlatform country"`
	DefaultFromYear int           `validate:"gte=1800,lte=3000"`
	RateLimit       RateLimitConfig
	LogLevel        slog.Level
}

type RedisConfig struct {
	Addr     string `validate:"required,hostname_port"`
	Password string
	DB       int `validate:"gte=0,lte=15"`
}

type SessionConfig struct {
	CookieName string        `validate:"required,alphanum"`
	TTL        time.Duration `validate:"gt=0"`
}

type RateLimitConfig struct {
	Max           int `validate:"gte=0"`
	WindowSeconds int `validate:"gt=0"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := getEnvInt("REDIS_DB", 4)
	if err != nil {
		return nil, err
	}
	fromYear, err := getEnvInt("DEFAULT_FROM_YEAR", 1950)
	if err != nil {
		return nil, err
	}
	rateLimitMax, err := getEnvInt("RATE_LIMIT_MAX", 30)
	if err != nil {
		return nil, err
	}
	rateLimitWindow, err := getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60)
	if err != nil {
		return nil, err
	}

	backendTimeout, err := time.ParseDuration(getEnv("BACKEND_TIMEOUT", "0s"))
	if err != nil {
		return nil, fmt.Errorf("parse BACKEND_TIMEOUT: %w", err)
	}
	sessionTTL, err := time.ParseDuration(getEnv("SESSION_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("parse SESSION_TTL: %w", err)
	}

	cfg := &Config{
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Session: SessionConfig{
			CookieName: getEnv("SESSION_COOKIE", "sid"),
			TTL:        sessionTTL,
		},
		Port:            getEnv("SERVER_PORT", "8080"),
		BackendURL:      getEnv("BACKEND_URL", "http://localhost:5000/get-recommendations"),
		BackendTimeout:  backendTimeout,
		LocationField:   getEnv("LOCATION_FIELD", LocationOTTPlatform),
		DefaultFromYear: fromYear,
		RateLimit: RateLimitConfig{
			Max:           rateLimitMax,
			WindowSeconds: rateLimitWindow,
		},
		LogLevel: parseLevel(getEnv("LOG_LEVEL", "info")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the assembled configuration and reports every offending field at once.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	err := v.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate config: %w", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := getEnv(key, "")
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return n, nil
}
