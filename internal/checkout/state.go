package checkout

import (
	"errors"
	"maps"
	"slices"

	"checkout-wizard/internal/model"
)

// Store-level errors. They indicate a wiring bug in the caller rather than a
// condition the buyer can fix, except ErrOrderCompleted.
var (
	ErrUnknownStep         = errors.New("unknown checkout step")
	ErrUnknownCommand      = errors.New("unknown checkout command")
	ErrInvalidDiscount     = errors.New("discount must be non-negative and carry a coupon code")
	ErrInvalidShippingCost = errors.New("shipping cost must be non-negative")
	ErrOrderCompleted      = model.NewDomainError(model.ErrCodeOrderCompleted, "order already placed; start a new order to make changes")
)

// State is the full checkout session state. Values are treated as immutable:
// Reduce always returns a fresh copy.
type State struct {
	CurrentStep    Step                     `json:"currentStep"`
	CompletedSteps StepSet                  `json:"completedSteps"`
	Customer       model.CustomerInfo       `json:"customer"`
	Shipping       model.ShippingAddress    `json:"shipping"`
	Payment        model.PaymentInfo        `json:"payment"`
	Products       []model.Product          `json:"products"`
	ShippingCost   float64                  `json:"shippingCost"`
	Discount       float64                  `json:"discount"`
	CouponCode     string                   `json:"couponCode,omitempty"`
	IsLoading      bool                     `json:"isLoading"`
	Errors         map[string]string        `json:"errors"`
	Touched        map[string]bool          `json:"touched"`
	Confirmation   *model.OrderConfirmation `json:"confirmation,omitempty"`
}

// InitialState returns the state of a fresh session.
func InitialState() State {
	return State{
		CurrentStep: StepCustomer,
		Shipping: model.ShippingAddress{
			Country: model.DefaultCountry,
		},
		Payment: model.PaymentInfo{
			Method:       model.PaymentCredit,
			Installments: 1,
		},
		Products: []model.Product{},
		Errors:   map[string]string{},
		Touched:  map[string]bool{},
	}
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	out := s
	out.Products = slices.Clone(s.Products)
	if out.Products == nil {
		out.Products = []model.Product{}
	}
	out.Errors = maps.Clone(s.Errors)
	if out.Errors == nil {
		out.Errors = map[string]string{}
	}
	out.Touched = maps.Clone(s.Touched)
	if out.Touched == nil {
		out.Touched = map[string]bool{}
	}
	if s.Confirmation != nil {
		c := *s.Confirmation
		out.Confirmation = &c
	}
	return out
}

// Confirmed reports whether the order has been placed.
func (s State) Confirmed() bool {
	return s.Confirmation != nil
}

// HasCoupon reports whether a coupon is active.
func (s State) HasCoupon() bool {
	return s.CouponCode != ""
}

// CanNavigate reports whether step may be opened: it has been completed, or
// it is not past the current step. Nothing is navigable once the order is placed.
func (s State) CanNavigate(step Step) bool {
	if s.Confirmed() || !step.Valid() {
		return false
	}
	return s.CompletedSteps.Has(step) || step.Index() <= s.CurrentStep.Index()
}

// ReadyForSubmission reports whether every input step has been completed and
// the wizard sits on the review step.
func (s State) ReadyForSubmission() bool {
	if s.Confirmed() || s.CurrentStep != StepReview {
		return false
	}
	for _, step := range []Step{StepCustomer, StepShipping, StepPayment} {
		if !s.CompletedSteps.Has(step) {
			return false
		}
	}
	return true
}

// Subtotal derives the subtotal from the product list.
func (s State) Subtotal() float64 {
	return Subtotal(s.Products)
}

// Total derives the order total, clamped at zero.
func (s State) Total() float64 {
	return Total(s.Subtotal(), s.ShippingCost, s.Discount)
}

// AmountDue is the total after any payment-method discount.
func (s State) AmountDue(policy Policy) float64 {
	return AmountDue(s.Total(), s.Payment.Method, policy)
}

// Snapshot builds the immutable data handed to the payment processor.
func (s State) Snapshot(policy Policy) model.CheckoutData {
	c := s.Clone()
	return model.CheckoutData{
		Customer:     c.Customer,
		Shipping:     c.Shipping,
		Payment:      c.Payment,
		Products:     c.Products,
		Subtotal:     c.Subtotal(),
		ShippingCost: c.ShippingCost,
		Discount:     c.Discount,
		Total:        c.Total(),
		AmountDue:    c.AmountDue(policy),
		CouponCode:   c.CouponCode,
	}
}
