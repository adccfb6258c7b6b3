// Package lock holds the Redis InvoiceLocker used when several checkout
// instances share one database.
package lock

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const pollInterval = 50 * time.Millisecond

// releaseScript deletes the key only if it still holds our token, so an
// expired lock taken over by another instance is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisLocker struct {
	client      *redis.Client
	ttl         time.Duration
	serviceName string
	logger      *slog.Logger
}

// NewRedisLocker returns a locker whose locks expire after ttl. ttl must be
// longer than the slowest processor call.
func NewRedisLocker(client *redis.Client, serviceName string, ttl time.Duration, logger *slog.Logger) *RedisLocker {
	return &RedisLocker{
		client:      client,
		ttl:         ttl,
		serviceName: serviceName,
		logger:      logger.With("component", "redis_locker"),
	}
}

func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	redisKey := l.generateKey(key)
	token := uuid.NewString()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, redisKey, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire lock %s: %w", redisKey, err)
		}
		if ok {
			return func() { l.release(redisKey, token) }, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (l *RedisLocker) release(redisKey, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	n, err := releaseScript.Run(ctx, l.client, []string{redisKey}, token).Int()
	if err != nil && !errors.Is(err, redis.Nil) {
		l.logger.Error("failed to release lock", "key", redisKey, "error", err)
		return
	}
	if n == 0 {
		l.logger.Warn("lock expired before release", "key", redisKey)
	}
}

func (l *RedisLocker) generateKey(key string) string {
	return fmt.Sprintf("%s:invoice-lock:%s", l.serviceName, key)
}
