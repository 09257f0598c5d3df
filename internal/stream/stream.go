// Package stream publishes digest-lifecycle events onto a Redis Stream so
// other services (notification delivery, analytics) can react without the
// digest pipeline knowing about them.
package stream

import (
	"context"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// StreamDigestGenerated is the only stream this service publishes to: one
// entry per completed Generate call, fallback or not.
const StreamDigestGenerated = "digest:generated"

// RedisStream is a thin XAdd wrapper covering only the publish half of
// Redis Streams — no consumer group management, since nothing in this
// service reads its own stream back.
type RedisStream struct {
	client *redis.Client
}

func NewRedisStream(client *redis.Client) *RedisStream {
	return &RedisStream{client: client}
}

func (s *RedisStream) Publish(ctx context.Context, stream string, data any) (string, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return "", err
	}
	return s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]any{"data": payload},
	}).Result()
}

// DigestGeneratedEvent is the payload published after every Generate call.
type DigestGeneratedEvent struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	CreatedAt     time.Time `json:"created_at"`
	Fallback      bool      `json:"fallback"`
	Verified      bool      `json:"verified"`
	CriticalCount int       `json:"critical_count"`
	FeaturedCount int       `json:"featured_count"`
}

// Producer publishes digest-completion events. A nil stream degrades
// PublishDigestGenerated to a no-op, matching the bootstrap's
// connect-log-degrade convention for optional Redis-backed capabilities.
type Producer struct {
	stream *RedisStream
}

func NewProducer(stream *RedisStream) *Producer {
	return &Producer{stream: stream}
}

func (p *Producer) PublishDigestGenerated(ctx context.Context, userID string, out DigestGeneratedEvent) error {
	if p == nil || p.stream == nil {
		return nil
	}
	out.ID = uuid.New().String()
	out.UserID = userID
	out.CreatedAt = time.Now()
	_, err := p.stream.Publish(ctx, StreamDigestGenerated, out)
	return err
}
