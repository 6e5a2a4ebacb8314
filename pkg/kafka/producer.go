package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// DefaultTopic carries every shop event.
const DefaultTopic = "shop-events"

// EventTypeHeader names the header holding the event type.
const EventTypeHeader = "event-type"

// messageWriter is the part of kafka.Writer the producer uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer writes shop events to a single topic.
type Producer struct {
	w messageWriter
}

// NewProducer creates a producer for topic on brokers.
func NewProducer(brokers []string, topic string) *Producer {
	if topic == "" {
		topic = DefaultTopic
	}
	return &Producer{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
		},
	}
}

// NewMessage builds the record for one event. Events of the same type share a
// partition so they stay ordered.
func NewMessage(routingKey string, body []byte) kafka.Message {
	return kafka.Message{
		Key:   []byte(routingKey),
		Value: body,
		Time:  time.Now(),
		Headers: []kafka.Header{
			{Key: EventTypeHeader, Value: []byte(routingKey)},
		},
	}
}

// Publish writes one event and waits for the leader to acknowledge it.
func (p *Producer) Publish(ctx context.Context, routingKey string, body []byte) error {
	if err := p.w.WriteMessages(ctx, NewMessage(routingKey, body)); err != nil {
		return fmt.Errorf("failed to write %s to kafka: %w", routingKey, err)
	}
	return nil
}

// Close flushes and closes the writer.
func (p *Producer) Close() error {
	return p.w.Close()
}
