package payment

import (
	"context"
	"math/rand/v2"
	"strings"
	"time"

	"checkout-wizard/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// SimulatorConfig configures the simulated processor.
type SimulatorConfig struct {
	// DeclineRate is the probability in [0, 1] that a payment is declined.
	DeclineRate float64
	// Delay is the simulated gateway latency.
	Delay time.Duration
	// DeliveryDays is added to the confirmation time to estimate delivery.
	DeliveryDays int
}

type simulatedProcessor struct {
	cfg    SimulatorConfig
	rand   func() float64
	now    func() time.Time
	newID  func() uuid.UUID
	logger zerolog.Logger
}

// NewSimulatedProcessor creates a Processor that confirms orders after a
// delay and declines a configurable share of them.
func NewSimulatedProcessor(cfg SimulatorConfig, logger zerolog.Logger) Processor {
	if cfg.DeliveryDays <= 0 {
		cfg.DeliveryDays = 7
	}
	return &simulatedProcessor{
		cfg:    cfg,
		rand:   rand.Float64,
		now:    time.Now,
		newID:  uuid.New,
		logger: logger.With().Str("component", "payment-simulator").Logger(),
	}
}

func (p *simulatedProcessor) Process(ctx context.Context, data model.CheckoutData) (*model.OrderResponse, error) {
	if p.cfg.Delay > 0 {
		timer := time.NewTimer(p.cfg.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return nil, err
	}

	if p.rand() < p.cfg.DeclineRate {
		p.logger.Info().
			Str("session_id", data.SessionID).
			Str("payment_method", string(data.Payment.Method)).
			Float64("amount", data.AmountDue).
			Msg("payment declined")
		return nil, &DeclinedError{Reason: DefaultDeclineReason}
	}

	delivery := p.now().Add(time.Duration(p.cfg.DeliveryDays) * 24 * time.Hour)
	resp := &model.OrderResponse{
		OrderID:           OrderNumber(p.newID()),
		Status:            model.OrderConfirmed,
		EstimatedDelivery: &delivery,
	}

	p.logger.Info().
		Str("session_id", data.SessionID).
		Str("order_id", resp.OrderID).
		Float64("amount", data.AmountDue).
		Msg("payment approved")

	return resp, nil
}

// OrderNumber derives the public order number from id.
func OrderNumber(id uuid.UUID) string {
	return "ORD-" + strings.ToUpper(id.String()[:8])
}
