package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopassist/backend/internal/domain/shared"
)

// RedisReplayStore implements DeliveryReplayStore on Redis so that every
// instance behind the load balancer shares the same set of seen deliveries.
type RedisReplayStore struct {
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

// NewRedisReplayStore creates a Redis-backed replay store and verifies the
// connection before returning.
func NewRedisReplayStore(cfg RedisConfig) (*RedisReplayStore, error) {
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

	return &RedisReplayStore{
		client:    client,
		keyPrefix: "webhook:replay:",
	}, nil
}

// NewRedisReplayStoreWithClient creates a store with an existing Redis
// client. Useful for testing or when sharing a client across components.
func NewRedisReplayStoreWithClient(client *redis.Client, keyPrefix string) *RedisReplayStore {
	if keyPrefix == "" {
		keyPrefix = "webhook:replay:"
	}
	return &RedisReplayStore{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// MarkSeen records a delivery identifier for the TTL window using SETNX,
// so the check-and-record is a single atomic operation.
// Returns true if the identifier was newly recorded, false if it already
// existed, which means the delivery is a replay.
func (s *RedisReplayStore) MarkSeen(ctx context.Context, deliveryID string, ttl time.Duration) (bool, error) {
	key := s.keyPrefix + deliveryID

	result, err := s.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to record webhook delivery: %w", err)
	}
	return result, nil
}

// Close closes the Redis client
func (s *RedisReplayStore) Close() error {
	return s.client.Close()
}

var _ shared.DeliveryReplayStore = (*RedisReplayStore)(nil)
