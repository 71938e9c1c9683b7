package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/keyxmakerx/datepicker/internal/config"
)

// redisClientName tags the picker's connections in CLIENT LIST so session
// traffic can be told apart on a shared Redis.
const redisClientName = "datepicker"

// NewRedis creates the client that holds picker sessions and rate limit
// counters, and waits until Redis answers.
func NewRedis(cfg config.RedisConfig) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %w", err)
	}
	if opts.ClientName == "" {
		opts.ClientName = redisClientName
	}

	client := redis.NewClient(opts)
	ping := func(ctx context.Context) error { return client.Ping(ctx).Err() }
	if err := redisReadiness.wait("redis", ping); err != nil {
		client.Close()
		return nil, err
	}

	slog.Info("redis ready",
		slog.String("addr", opts.Addr),
		slog.Int("db", opts.DB),
	)
	return client, nil
}
