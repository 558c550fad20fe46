package events

import (
	"context"
	"encoding/json"
	"fmt"

	"checkout-wizard/internal/model"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type kafkaPublisher struct {
	writer messageWriter
	logger zerolog.Logger
}

// NewKafkaPublisher creates a Publisher writing JSON events to topic.
// Messages are keyed by session so events of one checkout stay ordered.
func NewKafkaPublisher(brokers []string, topic string, logger zerolog.Logger) Publisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return newKafkaPublisher(w, logger)
}

func newKafkaPublisher(w messageWriter, logger zerolog.Logger) *kafkaPublisher {
	return &kafkaPublisher{
		writer: w,
		logger: logger.With().Str("component", "event-publisher").Logger(),
	}
}

func (p *kafkaPublisher) PublishOrderPlaced(ctx context.Context, event model.OrderPlacedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal order placed event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.SessionID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(EventOrderPlaced)},
			{Key: "order_id", Value: []byte(event.OrderID)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error().Err(err).Str("order_id", event.OrderID).Msg("failed to publish order placed event")
		return fmt.Errorf("failed to publish order placed event: %w", err)
	}

	p.logger.Debug().Str("order_id", event.OrderID).Msg("order placed event published")
	return nil
}

func (p *kafkaPublisher) Close() error {
	return p.writer.Close()
}
