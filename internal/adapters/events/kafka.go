// Package events publishes integration events to a message broker.
package events

import (
	"context"
	"fmt"
	"time"

	portssvc "github.com/SscSPs/heartchain_backend/internal/core/ports/services"
	"github.com/segmentio/kafka-go"
)

// KafkaPublisher writes events to Kafka, keyed so one donation's events stay ordered.
type KafkaPublisher struct {
	writer *kafka.Writer
}

// NewKafkaPublisher creates a publisher for brokers. The topic is chosen per message.
func NewKafkaPublisher(brokers []string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.Hash{},
			AllowAutoTopicCreation: true,
			RequiredAcks:           kafka.RequireAll,
			BatchSize:              100,
			BatchTimeout:           10 * time.Millisecond,
		},
	}
}

var _ portssvc.EventPublisher = (*KafkaPublisher)(nil)

func (p *KafkaPublisher) Publish(ctx context.Context, topic, key string, payload []byte) error {
	err := p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: payload,
	})
	if err != nil {
		return fmt.Errorf("kafka write to %s: %w", topic, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
