package events

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

// batchTimeout bounds how long a single synchronous write waits for a batch to fill.
const batchTimeout = 10 * time.Millisecond

// KafkaPublisher writes JSON events to a single topic.
type KafkaPublisher struct {
	writer *kafka.Writer
}

// NewKafkaPublisher creates a writer for topic on the given brokers. Messages
// with the same key land on the same partition, so per-order ordering holds.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			BatchTimeout: batchTimeout,
			WriteTimeout: 5 * time.Second,
		},
	}
}

// Publish sends one event.
func (p *KafkaPublisher) Publish(ctx context.Context, key string, event any) error {
	msg, err := newMessage(key, event)
	if err != nil {
		return err
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		log.Printf("[Events] Kafka write to %s failed: %v", p.writer.Topic, err)
		return err
	}
	return nil
}

// Close flushes pending writes.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func newMessage(key string, event any) (kafka.Message, error) {
	value, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, err
	}

	msg := kafka.Message{Key: []byte(key), Value: value}
	if e, ok := event.(OrderEvent); ok {
		msg.Headers = []kafka.Header{{Key: "event-type", Value: []byte(e.Type)}}
		msg.Time = e.OccurredAt
	}
	return msg, nil
}
