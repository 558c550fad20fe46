// Package payment submits checkout snapshots for payment.
package payment

import (
	"context"

	"checkout-wizard/internal/model"
)

// Processor charges an order and reports its status.
type Processor interface {
	Process(ctx context.Context, data model.CheckoutData) (*model.OrderResponse, error)
}

// Payment outcomes other than success.
var (
	ErrDeclined = model.NewDomainError(model.ErrCodePaymentDeclined, "payment declined")
	ErrFailed   = model.NewDomainError(model.ErrCodePaymentFailed, "payment could not be processed")
)

// DefaultDeclineReason is the message shown for a declined payment.
const DefaultDeclineReason = "Pagamento recusado. Verifique os dados do cartão."

// DeclinedError is returned when the processor refuses the payment. Reason is
// meant for the buyer.
type DeclinedError struct {
	Reason string
}

func (e *DeclinedError) Error() string {
	return e.Reason
}

// Is matches ErrDeclined.
func (e *DeclinedError) Is(target error) bool {
	return target == ErrDeclined
}
