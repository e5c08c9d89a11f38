package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Mukulraj109/rez-backend-sub002/internal/domain"
	"github.com/Mukulraj109/rez-backend-sub002/prometheus"
	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes domain events as JSON to a single topic keyed by aggregate id
type KafkaPublisher struct {
	writer messageWriter
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
			Async:        false,
		},
	}
}

func (k *KafkaPublisher) Publish(ctx context.Context, event domain.Event) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	msg, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", event.Type, err)
	}

	err = k.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Key),
		Value: msg,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(event.Type)},
		},
	})
	prometheus.RecordEventPublished(event.Type, err)
	return err
}

func (k *KafkaPublisher) Close() error {
	return k.writer.Close()
}

// NoopPublisher drops events. It is used when no brokers are configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, domain.Event) error { return nil }
