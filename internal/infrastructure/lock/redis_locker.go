// Package lock implements the advisory locker port on Redis, with an
// in-process fallback for single-instance deployments and tests.
package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/erp/connector/internal/domain/connector"
)

const keyPrefix = "connector:lock:"

// RedisLocker implements AdvisoryLocker on Redis SETNX. A token stored
// with the key makes release safe: a handle can only delete the lock it
// acquired, never one re-acquired after its TTL expired.
type RedisLocker struct {
	client *redis.Client
	ttl    time.Duration
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisLocker creates a locker with its own Redis client
func NewRedisLocker(cfg RedisConfig, ttl time.Duration) (*RedisLocker, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisLocker{client: client, ttl: ttl}, nil
}

// NewRedisLockerWithClient creates a locker with an existing Redis client.
// This is useful for testing or when sharing a client across components.
func NewRedisLockerWithClient(client *redis.Client, ttl time.Duration) *RedisLocker {
	return &RedisLocker{client: client, ttl: ttl}
}

// TryAcquire acquires the named lock or returns ErrLockBusy. The TTL
// bounds how long a crashed holder can keep the lock.
func (l *RedisLocker) TryAcquire(ctx context.Context, name string) (connector.LockHandle, error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, keyPrefix+name, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", connector.ErrNetworkRetryable, err)
	}
	if !ok {
		return nil, connector.ErrLockBusy
	}
	return &redisHandle{client: l.client, key: keyPrefix + name, token: token}, nil
}

// releaseScript deletes the key only while it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

type redisHandle struct {
	client *redis.Client
	key    string
	token  string
}

// Release releases the lock.
func (h *redisHandle) Release(ctx context.Context) error {
	return releaseScript.Run(ctx, h.client, []string{h.key}, h.token).Err()
}
