package service

import (
	"context"

	"checkout-wizard/internal/checkout"
	"checkout-wizard/internal/model"

	"github.com/google/uuid"
)

// CheckoutService defines the operations that drive a checkout session
// through its steps.
type CheckoutService interface {
	// Start opens a session for cartID, or the default cart when empty.
	Start(ctx context.Context, cartID string) (*SessionView, error)

	// Get returns the current view of a session.
	Get(ctx context.Context, id uuid.UUID) (*SessionView, error)

	// Locale returns the locale the session last settled on.
	Locale(ctx context.Context, id uuid.UUID) (string, error)

	// Abandon drops a session.
	Abandon(ctx context.Context, id uuid.UUID) error

	// GoToStep opens step if it is navigable.
	GoToStep(ctx context.Context, id uuid.UUID, step string) (*SessionView, error)

	// Back returns to the previous step.
	Back(ctx context.Context, id uuid.UUID) (*SessionView, error)

	// ValidateField validates a single field, as on blur, and records the outcome.
	ValidateField(ctx context.Context, id uuid.UUID, step, name, value string) (*FieldResult, error)

	// SubmitCustomer validates and commits the customer form.
	SubmitCustomer(ctx context.Context, id uuid.UUID, customer model.CustomerInfo) (*SessionView, error)

	// ChangeZipCode records a new postal code, autofills the address and
	// fetches shipping quotes for it.
	ChangeZipCode(ctx context.Context, id uuid.UUID, draft model.ShippingAddress) (*SessionView, error)

	// SelectShippingOption picks one of the quoted shipping options.
	SelectShippingOption(ctx context.Context, id uuid.UUID, optionID string) (*SessionView, error)

	// SubmitShipping validates and commits the shipping form.
	SubmitShipping(ctx context.Context, id uuid.UUID, addr model.ShippingAddress) (*SessionView, error)

	// SelectPaymentMethod switches the payment form to method.
	SelectPaymentMethod(ctx context.Context, id uuid.UUID, method model.PaymentMethod) (*SessionView, error)

	// SubmitPayment validates and commits the payment form.
	SubmitPayment(ctx context.Context, id uuid.UUID, payment model.PaymentInfo) (*SessionView, error)

	// ApplyCoupon resolves code and applies its discount.
	ApplyCoupon(ctx context.Context, id uuid.UUID, code string) (*SessionView, error)

	// RemoveCoupon clears the applied coupon.
	RemoveCoupon(ctx context.Context, id uuid.UUID) (*SessionView, error)
}

// OrderService defines the order submission operations.
type OrderService interface {
	// Submit places the order of a session that has reached review.
	Submit(ctx context.Context, id uuid.UUID) (*model.OrderConfirmation, error)

	// NewOrder resets the session and reloads its cart.
	NewOrder(ctx context.Context, id uuid.UUID) (*SessionView, error)
}

// Options holds the checkout switches the services honour.
type Options struct {
	CouponEnabled     bool
	ShippingEnabled   bool
	AutofillOverwrite bool
	DefaultCartID     string
	DefaultLocale     string
	PaymentMethods    []model.PaymentMethod
}

// Service-level rejections.
var (
	ErrUnknownField          = model.NewDomainError(model.ErrCodeUnknownField, "no validation rule for field")
	ErrShippingOptionUnknown = model.NewDomainError(model.ErrCodeShippingOption, "shipping option not offered for this postal code")
	ErrShippingDisabled      = model.NewDomainError(model.ErrCodeShippingUnavailable, "shipping options are not enabled for this checkout")
	ErrPaymentMethodDisabled = model.NewDomainError(model.ErrCodePaymentMethod, "payment method not available for this checkout")
)

// Features tells clients which optional parts of the checkout are on.
type Features struct {
	Coupon       bool `json:"coupon"`
	Shipping     bool `json:"shipping"`
	Installments bool `json:"installments"`
	PixDiscount  bool `json:"pixDiscount"`
}

// Totals are the monetary figures derived from the session state.
type Totals struct {
	Subtotal     float64 `json:"subtotal"`
	ShippingCost float64 `json:"shippingCost"`
	Discount     float64 `json:"discount"`
	Total        float64 `json:"total"`
	AmountDue    float64 `json:"amountDue"`
}

// SessionView is what clients see of a session.
type SessionView struct {
	ID             string                 `json:"id"`
	CartID         string                 `json:"cartId"`
	Locale         string                 `json:"locale"`
	State          checkout.State         `json:"state"`
	Totals         Totals                 `json:"totals"`
	Installments   []checkout.Installment `json:"installments"`
	PaymentMethod  model.PaymentMethod    `json:"paymentMethod"`
	PaymentMethods []model.PaymentMethod  `json:"paymentMethods"`
	CardBrand      string                 `json:"cardBrand,omitempty"`
	ShippingDraft  checkout.ShippingDraft `json:"shippingDraft"`
	Navigable      map[checkout.Step]bool `json:"navigable"`
	Features       Features               `json:"features"`
}

// FieldResult is the outcome of a single field validation.
type FieldResult struct {
	Field string `json:"field"`
	Error string `json:"error,omitempty"`
	Valid bool   `json:"valid"`
}
