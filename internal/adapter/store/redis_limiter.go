package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"interview-core/internal/domain/entity"
)

// RedisLimiter counts generations per user, feature and UTC day.
type RedisLimiter struct {
	client *redis.Client
	limit  int // Max calls per feature per day
	now    func() time.Time
}

func NewRedisLimiter(client *redis.Client, limit int) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		limit:  limit,
		now:    time.Now,
	}
}

func (r *RedisLimiter) key(userID string, feature entity.UseCase) string {
	return fmt.Sprintf("usage:%s:%s:%s", feature, userID, r.now().UTC().Format("2006-01-02"))
}

func (r *RedisLimiter) CheckLimit(ctx context.Context, userID string, feature entity.UseCase) (bool, error) {
	val, err := r.client.Get(ctx, r.key(userID, feature)).Result()
	if errors.Is(err, redis.Nil) {
		return true, nil // No usage yet
	}
	if err != nil {
		return false, fmt.Errorf("read usage: %w", err)
	}
	usage, err := strconv.Atoi(val)
	if err != nil {
		return false, fmt.Errorf("corrupt usage counter %q: %w", val, err)
	}
	return usage < r.limit, nil
}

func (r *RedisLimiter) Increment(ctx context.Context, userID string, feature entity.UseCase) error {
	key := r.key(userID, feature)
	pipe := r.client.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, 48*time.Hour)
	_, err := pipe.Exec(ctx)
	return err
}
