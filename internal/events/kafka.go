package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"storefront/internal/domain"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// messageWriter is the subset of *kafka.Writer the publisher needs
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes order events to a topic, keyed by order id
type KafkaPublisher struct {
	w        messageWriter
	producer string
	now      func() time.Time
}

// NewKafkaPublisher creates an async publisher. Delivery errors are logged from the writer's
// completion callback and never reach the caller.
func NewKafkaPublisher(brokers []string, topic, producer string, logger *zap.Logger) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Error("Failed to deliver order events",
					zap.Error(err),
					zap.Int("messages", len(messages)),
					zap.String("topic", topic),
				)
			}
		},
	}
	return newKafkaPublisher(w, producer)
}

func newKafkaPublisher(w messageWriter, producer string) *KafkaPublisher {
	return &KafkaPublisher{w: w, producer: producer, now: time.Now}
}

func (p *KafkaPublisher) PublishOrderPlaced(ctx context.Context, order domain.Order) error {
	env, err := NewOrderPlacedEnvelope(p.producer, order, p.now())
	if err != nil {
		return err
	}

	value, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to encode envelope: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(order.ID),
		Value: value,
		Time:  env.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(env.EventType)},
			{Key: "event_id", Value: []byte(env.EventID)},
		},
	}

	if err := p.w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s: %w", env.EventType, err)
	}
	return nil
}

// Close flushes pending messages and closes the writer
func (p *KafkaPublisher) Close() error {
	return p.w.Close()
}
