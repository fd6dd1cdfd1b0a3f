package events

import (
	"context"
	"fmt"

	portssvc "github.com/SscSPs/heartchain_backend/internal/core/ports/services"
	"github.com/redis/go-redis/v9"
)

// RedisStreamPublisher appends events to a Redis stream named after the topic.
type RedisStreamPublisher struct {
	client *redis.Client
	maxLen int64
}

// NewRedisStreamPublisher creates a publisher. maxLen > 0 caps the stream approximately.
func NewRedisStreamPublisher(client *redis.Client, maxLen int64) *RedisStreamPublisher {
	return &RedisStreamPublisher{client: client, maxLen: maxLen}
}

var _ portssvc.EventPublisher = (*RedisStreamPublisher)(nil)

func (p *RedisStreamPublisher) Publish(ctx context.Context, topic, key string, payload []byte) error {
	args := &redis.XAddArgs{
		Stream: topic,
		Values: map[string]interface{}{
			"key":     key,
			"payload": payload,
		},
	}
	if p.maxLen > 0 {
		args.MaxLen = p.maxLen
		args.Approx = true
	}
	if err := p.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("redis xadd to %s: %w", topic, err)
	}
	return nil
}

// Close is a no-op; the client is owned by the caller.
func (p *RedisStreamPublisher) Close() error { return nil }
