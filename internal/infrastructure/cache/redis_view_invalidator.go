package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisViewInvalidator drops cached member views from Redis. Suitable for
// distributed deployments where several back-office instances share the
// cached balance and transaction-history views.
type RedisViewInvalidator struct {
	client    *redis.Client
	keyPrefix string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisViewInvalidator creates a Redis-backed view invalidator
func NewRedisViewInvalidator(cfg RedisConfig) (*RedisViewInvalidator, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisViewInvalidator{
		client:    client,
		keyPrefix: "views:member:",
	}, nil
}

// NewRedisViewInvalidatorWithClient creates an invalidator with an existing
// Redis client. Useful for testing or when sharing a client across components.
func NewRedisViewInvalidatorWithClient(client *redis.Client, keyPrefix string) *RedisViewInvalidator {
	if keyPrefix == "" {
		keyPrefix = "views:member:"
	}
	return &RedisViewInvalidator{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// InvalidateMemberViews deletes every cached view that depends on the
// member's balances or transaction history
func (i *RedisViewInvalidator) InvalidateMemberViews(ctx context.Context, memberID uuid.UUID) error {
	keys := []string{
		i.keyPrefix + memberID.String() + ":balances",
		i.keyPrefix + memberID.String() + ":transactions",
	}
	if err := i.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate member views: %w", err)
	}
	return nil
}

// Close closes the underlying Redis client
func (i *RedisViewInvalidator) Close() error {
	return i.client.Close()
}
