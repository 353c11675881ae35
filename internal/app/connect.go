package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/avast/retry-go/v4"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"eventmgt/internal/adapters/cache"
	"eventmgt/internal/adapters/queue"
)

// ConnectPolicy controls how often backing services are dialed before startup fails.
type ConnectPolicy struct {
	Attempts uint
	Delay    time.Duration
}

// DefaultConnectPolicy covers containers that start in parallel with the database.
var DefaultConnectPolicy = ConnectPolicy{Attempts: 10, Delay: 2 * time.Second}

func withRetry(ctx context.Context, policy ConnectPolicy, logger *slog.Logger, target string, fn func() error) error {
	return retry.Do(fn,
		retry.Context(ctx),
		retry.Attempts(policy.Attempts),
		retry.Delay(policy.Delay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(attempt uint, err error) {
			logger.Warn("connection failed, retrying", "target", target, "attempt", attempt+1, "err", err)
		}),
	)
}

// OpenDB opens the Postgres pool and waits until it answers a ping.
func OpenDB(ctx context.Context, url string, policy ConnectPolicy, logger *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	err = withRetry(ctx, policy, logger, "postgres", func() error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return db.PingContext(pingCtx)
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// OpenRedis dials the category cache backend.
func OpenRedis(ctx context.Context, url string, policy ConnectPolicy, logger *slog.Logger) (*redis.Client, error) {
	var client *redis.Client
	err := withRetry(ctx, policy, logger, "redis", func() error {
		c, err := cache.NewRedisClient(ctx, url)
		if err != nil {
			return err
		}
		client = c
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return client, nil
}

// OpenRabbitMQ dials the broker and declares the notification queue.
func OpenRabbitMQ(ctx context.Context, config queue.RabbitMQConfig, policy ConnectPolicy, logger *slog.Logger) (*queue.RabbitMQ, error) {
	var mq *queue.RabbitMQ
	err := withRetry(ctx, policy, logger, "rabbitmq", func() error {
		q, err := queue.NewRabbitMQ(config, logger)
		if err != nil {
			return err
		}
		mq = q
		return nil
	})
	if err != nil {
		return nil, err
	}
	return mq, nil
}
