package producer

import (
	"context"

	"github.com/rohityadav0112/hrms-lite/internal/messaging/kafka"

	kafkago "github.com/segmentio/kafka-go"
)

// Publisher writes outbox events to their Kafka topics, keyed by aggregate
// id so events for one employee stay ordered within a partition.
type Publisher struct {
	writer *kafkago.Writer
}

func NewPublisher(writer *kafkago.Writer) *Publisher {
	return &Publisher{writer: writer}
}

func (p *Publisher) Publish(ctx context.Context, event kafka.OutboxEvent) error {
	return p.writer.WriteMessages(ctx, kafkago.Message{
		Topic: event.Topic,
		Key:   []byte(event.AggregateID),
		Value: event.Payload,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
			{Key: "aggregate_type", Value: []byte(event.AggregateType)},
		},
	})
}
