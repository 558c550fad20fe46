package payment

import (
	"context"
	"fmt"
	"time"

	"checkout-wizard/internal/model"
	"checkout-wizard/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type recordingProcessor struct {
	next   Processor
	orders repository.OrderRepository
	now    func() time.Time
	logger zerolog.Logger
}

// NewRecordingProcessor wraps next so that every approved payment is stored
// as an order. A failure to store is logged and does not undo the payment.
func NewRecordingProcessor(next Processor, orders repository.OrderRepository, logger zerolog.Logger) Processor {
	return &recordingProcessor{
		next:   next,
		orders: orders,
		now:    time.Now,
		logger: logger.With().Str("component", "order-recorder").Logger(),
	}
}

func (p *recordingProcessor) Process(ctx context.Context, data model.CheckoutData) (*model.OrderResponse, error) {
	resp, err := p.next.Process(ctx, data)
	if err != nil {
		return nil, err
	}

	if err := p.record(ctx, data, resp); err != nil {
		p.logger.Error().
			Err(err).
			Str("order_id", resp.OrderID).
			Str("session_id", data.SessionID).
			Msg("failed to record order")
	}

	return resp, nil
}

func (p *recordingProcessor) record(ctx context.Context, data model.CheckoutData, resp *model.OrderResponse) (err error) {
	order, items, err := buildOrder(data, resp, p.now())
	if err != nil {
		return err
	}

	tx, err := p.orders.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				p.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = p.orders.CreateOrder(ctx, tx, order); err != nil {
		return err
	}
	if err = p.orders.CreateOrderItems(ctx, tx, items); err != nil {
		return err
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	p.logger.Debug().Str("order_id", order.OrderNumber).Int("items", len(items)).Msg("order recorded")
	return nil
}

func buildOrder(data model.CheckoutData, resp *model.OrderResponse, now time.Time) (*model.Order, []model.OrderItem, error) {
	sessionID, err := uuid.Parse(data.SessionID)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid session id %q: %w", data.SessionID, err)
	}

	var coupon *string
	if data.CouponCode != "" {
		code := data.CouponCode
		coupon = &code
	}

	order := &model.Order{
		ID:            uuid.New(),
		OrderNumber:   resp.OrderID,
		SessionID:     sessionID,
		Email:         data.Customer.Email,
		PaymentMethod: data.Payment.Method,
		CouponCode:    coupon,
		Subtotal:      data.Subtotal,
		ShippingCost:  data.ShippingCost,
		Discount:      data.Discount,
		Total:         data.AmountDue,
		Status:        resp.Status,
		CreatedAt:     now,
	}

	items := make([]model.OrderItem, 0, len(data.Products))
	for _, p := range data.Products {
		items = append(items, model.OrderItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ProductID: p.ID,
			Name:      p.Name,
			UnitPrice: p.Price,
			Quantity:  p.Quantity,
		})
	}

	return order, items, nil
}
