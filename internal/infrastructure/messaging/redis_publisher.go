// Package messaging publishes domain events to Redis streams.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sangkips/pressing-api/internal/domain/event"
	"go.uber.org/zap"
)

const defaultStreamMaxLen = 100000

// RedisEventPublisher appends events to the stream "events:<type>".
type RedisEventPublisher struct {
	client *redis.Client
	maxLen int64
	logger *zap.Logger
}

// NewRedisEventPublisher creates a publisher. Streams are trimmed to about maxLen entries.
func NewRedisEventPublisher(client *redis.Client, maxLen int64, logger *zap.Logger) *RedisEventPublisher {
	if maxLen <= 0 {
		maxLen = defaultStreamMaxLen
	}
	return &RedisEventPublisher{client: client, maxLen: maxLen, logger: logger}
}

// StreamKey returns the stream an event type is written to.
func StreamKey(eventType string) string {
	return "events:" + eventType
}

func streamValues(e event.DomainEvent) (map[string]interface{}, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}
	return map[string]interface{}{
		"event_id":     e.GetEventID(),
		"event_type":   e.GetEventType(),
		"aggregate_id": e.GetAggregateID(),
		"tenant_id":    e.GetTenantID(),
		"occurred_at":  e.GetOccurredAt().Unix(),
		"data":         string(data),
	}, nil
}

// Publish implements event.Publisher
func (p *RedisEventPublisher) Publish(ctx context.Context, e event.DomainEvent) error {
	values, err := streamValues(e)
	if err != nil {
		return err
	}

	stream := StreamKey(e.GetEventType())
	err = p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		MaxLen: p.maxLen,
		Approx: true,
		Values: values,
	}).Err()
	if err != nil {
		p.logger.Error("failed to publish event",
			zap.Error(err),
			zap.String("event_type", e.GetEventType()),
			zap.String("event_id", e.GetEventID()),
		)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.Debug("event published",
		zap.String("event_type", e.GetEventType()),
		zap.String("event_id", e.GetEventID()),
		zap.String("stream", stream),
	)
	return nil
}

// LogPublisher only logs events. It is used when Redis is disabled.
type LogPublisher struct {
	logger *zap.Logger
}

// NewLogPublisher creates a LogPublisher
func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// Publish implements event.Publisher
func (p *LogPublisher) Publish(_ context.Context, e event.DomainEvent) error {
	p.logger.Info("event",
		zap.String("event_type", e.GetEventType()),
		zap.String("event_id", e.GetEventID()),
		zap.String("aggregate_id", e.GetAggregateID()),
	)
	return nil
}
