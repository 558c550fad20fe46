package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"checkout-wizard/internal/cart"
	"checkout-wizard/internal/checkout"
	"checkout-wizard/internal/events"
	"checkout-wizard/internal/model"
	"checkout-wizard/internal/payment"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const publishTimeout = 5 * time.Second

// orderService implements OrderService.
type orderService struct {
	store     SessionStore
	cart      cart.Source
	processor payment.Processor
	publisher events.Publisher
	opts      Options
	now       func() time.Time
	logger    zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	store SessionStore,
	carts cart.Source,
	processor payment.Processor,
	publisher events.Publisher,
	opts Options,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		store:     store,
		cart:      carts,
		processor: processor,
		publisher: publisher,
		opts:      opts,
		now:       time.Now,
		logger:    logger.With().Str("service", "order").Logger(),
	}
}

// Submit hands the session snapshot to the payment processor. The session is
// locked for submission until the processor answers; a failed payment leaves
// the buyer on the review step.
func (s *orderService) Submit(ctx context.Context, id uuid.UUID) (*model.OrderConfirmation, error) {
	sess, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}

	data, err := sess.BeginSubmission()
	if err != nil {
		s.logger.Debug().Err(err).Str("session_id", id.String()).Msg("order submission refused")
		return nil, err
	}

	s.logger.Info().
		Str("session_id", id.String()).
		Str("payment_method", string(data.Payment.Method)).
		Float64("amount_due", data.AmountDue).
		Msg("submitting order")

	resp, err := s.processor.Process(ctx, data)
	if err != nil {
		if derr := sess.Dispatch(checkout.SetLoading{Loading: false}); derr != nil {
			s.logger.Error().Err(derr).Str("session_id", id.String()).Msg("failed to clear loading flag")
		}

		var declined *payment.DeclinedError
		if errors.As(err, &declined) {
			s.logger.Warn().
				Str("session_id", id.String()).
				Str("reason", declined.Reason).
				Msg("payment declined")
			return nil, err
		}

		s.logger.Error().Err(err).Str("session_id", id.String()).Msg("payment failed")
		return nil, fmt.Errorf("%w: %w", payment.ErrFailed, err)
	}

	conf := model.OrderConfirmation{
		OrderID:           resp.OrderID,
		Status:            resp.Status,
		Email:             data.Customer.Email,
		TotalPaid:         data.AmountDue,
		EstimatedDelivery: resp.EstimatedDelivery,
		ConfirmedAt:       s.now(),
	}
	if err := sess.Dispatch(checkout.Confirm{Confirmation: conf}); err != nil {
		return nil, fmt.Errorf("failed to confirm order: %w", err)
	}

	s.logger.Info().
		Str("session_id", id.String()).
		Str("order_id", conf.OrderID).
		Msg("order confirmed")

	s.publish(ctx, data, conf)
	return &conf, nil
}

// publish outlives the request; a failed publish never fails the order.
func (s *orderService) publish(ctx context.Context, data model.CheckoutData, conf model.OrderConfirmation) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	event := model.OrderPlacedEvent{
		OrderID:       conf.OrderID,
		SessionID:     data.SessionID,
		Email:         conf.Email,
		PaymentMethod: data.Payment.Method,
		Items:         data.Products,
		Total:         data.Total,
		AmountPaid:    conf.TotalPaid,
		CouponCode:    data.CouponCode,
		PlacedAt:      conf.ConfirmedAt,
	}
	if err := s.publisher.PublishOrderPlaced(ctx, event); err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", conf.OrderID).
			Msg("failed to publish order placed event")
	}
}

func (s *orderService) NewOrder(ctx context.Context, id uuid.UUID) (*SessionView, error) {
	sess, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	if sess.State().IsLoading {
		return nil, model.ErrSubmissionInFlight
	}

	products, err := s.cart.Products(ctx, sess.CartID())
	if err != nil {
		s.logger.Warn().Err(err).Str("cart_id", sess.CartID()).Msg("failed to reload cart")
		return nil, fmt.Errorf("%w: %w", model.ErrCartUnavailable, err)
	}

	if err := sess.Restart(checkout.SetProducts{Products: products}); err != nil {
		return nil, err
	}

	s.logger.Info().Str("session_id", id.String()).Msg("checkout session restarted")
	return newSessionView(sess, s.opts), nil
}
