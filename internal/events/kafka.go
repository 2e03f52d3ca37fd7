package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
)

// MessageWriter is the part of *kafka.Writer the publisher uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes order.completed events to a topic. Other event
// types stay in process.
type KafkaPublisher struct {
	writer MessageWriter
}

func NewKafkaPublisher(writer MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: writer}
}

func (p *KafkaPublisher) Publish(ctx context.Context, evt Event) error {
	if evt.Type != OrderCompleted || evt.Order == nil {
		return nil
	}

	eventJSON, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	// order.completed.ORD-123456
	msg := kafka.Message{
		Key:   []byte(fmt.Sprintf("order.completed.%s", evt.Order.ID)),
		Value: eventJSON,
	}

	return p.writer.WriteMessages(ctx, msg)
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
