package events_test

import (
	"context"
	"os"
	"testing"

	"github.com/SscSPs/heartchain_backend/internal/adapters/events"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopPublisher(t *testing.T) {
	var p events.NoopPublisher
	assert.NoError(t, p.Publish(context.Background(), "topic", "key", []byte("{}")))
	assert.NoError(t, p.Close())
}

// Runs only when REDIS_URL points at a disposable instance.
func TestRedisStreamPublisher(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}
	opts, err := redis.ParseURL(url)
	require.NoError(t, err)
	client := redis.NewClient(opts)
	t.Cleanup(func() { _ = client.Close() })

	stream := "heartchain:test:events:" + uuid.NewString()
	t.Cleanup(func() { client.Del(context.Background(), stream) })

	p := events.NewRedisStreamPublisher(client, 1000)
	require.NoError(t, p.Publish(context.Background(), stream, "don-1", []byte(`{"donation_id":"don-1"}`)))

	msgs, err := client.XRange(context.Background(), stream, "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "don-1", msgs[0].Values["key"])
	assert.Equal(t, `{"donation_id":"don-1"}`, msgs[0].Values["payload"])
}
