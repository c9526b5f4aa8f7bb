package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gmviana11/fornecedor-conecta/internal/config"
)

const (
	pingTimeout  = 5 * time.Second
	pingAttempts = 3
	pingBackoff  = 200 * time.Millisecond
)

// NewRedisClient connects to the redis shared by the event stream and the
// redis store driver. The ping is retried with doubling backoff so the API
// and worker can start alongside a redis container.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig, log zerolog.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		ReadTimeout:  -1,
		WriteTimeout: 3 * time.Second,
	})

	if err := ping(ctx, client, log); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

func ping(ctx context.Context, client *redis.Client, log zerolog.Logger) error {
	delay := pingBackoff
	var err error
	for attempt := 1; attempt <= pingAttempts; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		err = client.Ping(pingCtx).Err()
		cancel()
		if err == nil {
			return nil
		}
		if attempt == pingAttempts {
			break
		}
		log.Warn().Err(err).Int("attempt", attempt).Dur("retry_in", delay).Msg("redis not ready")
		select {
		case <-ctx.Done():
			return fmt.Errorf("redis ping: %w", ctx.Err())
		case <-time.After(delay):
		}
		delay *= 2
	}
	return fmt.Errorf("redis ping after %d attempts: %w", pingAttempts, err)
}
