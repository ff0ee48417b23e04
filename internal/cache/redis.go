package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultEventTTL outlives the processor's webhook retry window (three days).
const DefaultEventTTL = 72 * time.Hour

func NewRedisLedger(client *redis.Client) *RedisLedger {
	return &RedisLedger{
		client: client,
		ttl:    DefaultEventTTL,
	}
}

type RedisLedger struct {
	client *redis.Client
	ttl    time.Duration
}

func (r *RedisLedger) Claim(ctx context.Context, eventID string) (bool, error) {
	stamp := time.Now().UTC().Format(time.RFC3339)
	ok, err := r.client.SetNX(ctx, eventKey(eventID), stamp, r.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx failed: %w", err)
	}
	return ok, nil
}

func (r *RedisLedger) Release(ctx context.Context, eventID string) error {
	if err := r.client.Del(ctx, eventKey(eventID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func eventKey(eventID string) string {
	return fmt.Sprintf("webhook:event:%s", eventID)
}
