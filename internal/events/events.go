// Package events publishes checkout domain events.
package events

import (
	"context"

	"checkout-wizard/internal/model"

	"github.com/rs/zerolog"
)

// EventOrderPlaced is the event_type header of order placed events.
const EventOrderPlaced = "order.placed"

// Publisher publishes checkout events.
type Publisher interface {
	PublishOrderPlaced(ctx context.Context, event model.OrderPlacedEvent) error
	Close() error
}

type noopPublisher struct {
	logger zerolog.Logger
}

// NewNoopPublisher returns a Publisher that only logs events.
func NewNoopPublisher(logger zerolog.Logger) Publisher {
	return &noopPublisher{logger: logger.With().Str("component", "event-publisher").Logger()}
}

func (p *noopPublisher) PublishOrderPlaced(ctx context.Context, event model.OrderPlacedEvent) error {
	p.logger.Debug().Str("order_id", event.OrderID).Msg("order placed event dropped, no broker configured")
	return nil
}

func (p *noopPublisher) Close() error {
	return nil
}
