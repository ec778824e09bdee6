package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"movie-discovery-web/internal/config"
)

const maxUpdateRetries = 5

// NewRedis connects and pings Redis.
func NewRedis(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	slog.Info("connected to Redis", "addr", cfg.Addr)
	return client, nil
}

// RedisStore keeps sessions in Redis with a sliding TTL.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func (s *RedisStore) Name() string { return "redis" }

func (s *RedisStore) Genres(ctx context.Context, sessionID string) ([]string, error) {
	raw, err := s.rdb.Get(ctx, genresKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get genres: %w", err)
	}
	return decodeGenres(raw)
}

// UpdateGenres runs fn inside a WATCH transaction and retries when another request for
// the same session wrote in between.
func (s *RedisStore) UpdateGenres(ctx context.Context, sessionID string, fn func([]string) []string) ([]string, error) {
	key := genresKey(sessionID)
	var result []string

	txf := func(tx *redis.Tx) error {
		current := []string{}
		raw, err := tx.Get(ctx, key).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
		case err != nil:
			return err
		default:
			if current, err = decodeGenres(raw); err != nil {
				return err
			}
		}

		result = fn(current)
		data, err := json.Marshal(result)
		if err != nil {
			return fmt.Errorf("encode genres: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, s.ttl)
			return nil
		})
		return err
	}

	for i := 0; i < maxUpdateRetries; i++ {
		err := s.rdb.Watch(ctx, txf, key)
		if err == nil {
			return result, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			slog.Debug("genre update raced, retrying", "session_id", sessionID, "attempt", i+1)
			continue
		}
		return nil, fmt.Errorf("update genres: %w", err)
	}
	return nil, ErrConflict
}

func (s *RedisStore) NextGeneration(ctx context.Context, sessionID string) (uint64, error) {
	key := generationKey(sessionID)
	pipe := s.rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("next generation: %w", err)
	}
	return uint64(incr.Val()), nil
}

func (s *RedisStore) Generation(ctx context.Context, sessionID string) (uint64, error) {
	n, err := s.rdb.Get(ctx, generationKey(sessionID)).Uint64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get generation: %w", err)
	}
	return n, nil
}

func decodeGenres(raw []byte) ([]string, error) {
	var items []string
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode genres: %w", err)
	}
	if items == nil {
		items = []string{}
	}
	return items, nil
}
