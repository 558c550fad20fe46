package checkout

import (
	"fmt"
	"maps"
	"slices"

	"checkout-wizard/internal/model"
)

// Command is a state transition request. The set of commands is closed:
// only types in this package implement it.
type Command interface {
	commandName() string
}

type (
	// SetStep jumps to Step. Gating is up to the caller (see State.CanNavigate).
	SetStep struct{ Step Step }
	// CompleteStep marks Step as completed.
	CompleteStep struct{ Step Step }
	// NextStep advances to the following step; no-op at the last step.
	NextStep struct{}
	// PrevStep goes back one step; no-op at the first step.
	PrevStep struct{}
	// SetCustomer replaces the customer record.
	SetCustomer struct{ Customer model.CustomerInfo }
	// SetShipping replaces the shipping address.
	SetShipping struct{ Shipping model.ShippingAddress }
	// SetPayment replaces the payment record.
	SetPayment struct{ Payment model.PaymentInfo }
	// SetProducts replaces the product list.
	SetProducts struct{ Products []model.Product }
	// SetShippingCost replaces the shipping cost.
	SetShippingCost struct{ Cost float64 }
	// ApplyDiscount sets the discount and coupon code together.
	ApplyDiscount struct {
		Amount float64
		Code   string
	}
	// ClearDiscount clears the discount and coupon code together.
	ClearDiscount struct{}
	// SetLoading toggles the loading flag.
	SetLoading struct{ Loading bool }
	// SetFieldError records one field error; an empty message removes it.
	SetFieldError struct{ Field, Message string }
	// SetFieldErrors replaces all field errors and marks Touched fields.
	SetFieldErrors struct {
		Errors  map[string]string
		Touched []string
	}
	// ClearFieldErrors drops errors and touched marks for the named fields.
	ClearFieldErrors struct{ Fields []string }
	// ClearErrors drops every field error and touched mark.
	ClearErrors struct{}
	// MarkTouched marks fields as touched.
	MarkTouched struct{ Fields []string }
	// Confirm records the placed order. It is terminal until Reset.
	Confirm struct{ Confirmation model.OrderConfirmation }
	// Reset restores the initial state.
	Reset struct{}
)

func (SetStep) commandName() string          { return "set_step" }
func (CompleteStep) commandName() string     { return "complete_step" }
func (NextStep) commandName() string         { return "next_step" }
func (PrevStep) commandName() string         { return "prev_step" }
func (SetCustomer) commandName() string      { return "set_customer" }
func (SetShipping) commandName() string      { return "set_shipping" }
func (SetPayment) commandName() string       { return "set_payment" }
func (SetProducts) commandName() string      { return "set_products" }
func (SetShippingCost) commandName() string  { return "set_shipping_cost" }
func (ApplyDiscount) commandName() string    { return "apply_discount" }
func (ClearDiscount) commandName() string    { return "clear_discount" }
func (SetLoading) commandName() string       { return "set_loading" }
func (SetFieldError) commandName() string    { return "set_field_error" }
func (SetFieldErrors) commandName() string   { return "set_field_errors" }
func (ClearFieldErrors) commandName() string { return "clear_field_errors" }
func (ClearErrors) commandName() string      { return "clear_errors" }
func (MarkTouched) commandName() string      { return "mark_touched" }
func (Confirm) commandName() string          { return "confirm" }
func (Reset) commandName() string            { return "reset" }

// CommandName returns a stable name for logging.
func CommandName(cmd Command) string {
	if cmd == nil {
		return "<nil>"
	}
	return cmd.commandName()
}

// Reduce applies cmd to state and returns the new state. state is never
// modified. On error the returned state equals the input.
func Reduce(state State, cmd Command) (State, error) {
	if state.Confirmed() {
		if _, ok := cmd.(Reset); !ok {
			return state, ErrOrderCompleted
		}
	}

	next := state.Clone()

	switch c := cmd.(type) {
	case SetStep:
		if !c.Step.Valid() {
			return state, fmt.Errorf("%w: %q", ErrUnknownStep, c.Step)
		}
		next.CurrentStep = c.Step

	case CompleteStep:
		if !c.Step.Valid() {
			return state, fmt.Errorf("%w: %q", ErrUnknownStep, c.Step)
		}
		next.CompletedSteps = next.CompletedSteps.With(c.Step)

	case NextStep:
		if s, ok := next.CurrentStep.Next(); ok {
			next.CurrentStep = s
		}

	case PrevStep:
		if s, ok := next.CurrentStep.Prev(); ok {
			next.CurrentStep = s
		}

	case SetCustomer:
		next.Customer = c.Customer

	case SetShipping:
		next.Shipping = c.Shipping

	case SetPayment:
		next.Payment = c.Payment

	case SetProducts:
		next.Products = slices.Clone(c.Products)
		if next.Products == nil {
			next.Products = []model.Product{}
		}

	case SetShippingCost:
		if c.Cost < 0 {
			return state, ErrInvalidShippingCost
		}
		next.ShippingCost = c.Cost

	case ApplyDiscount:
		if c.Amount < 0 || c.Code == "" {
			return state, ErrInvalidDiscount
		}
		next.Discount = c.Amount
		next.CouponCode = c.Code

	case ClearDiscount:
		next.Discount = 0
		next.CouponCode = ""

	case SetLoading:
		next.IsLoading = c.Loading

	case SetFieldError:
		if c.Message == "" {
			delete(next.Errors, c.Field)
		} else {
			next.Errors[c.Field] = c.Message
		}

	case SetFieldErrors:
		next.Errors = maps.Clone(c.Errors)
		if next.Errors == nil {
			next.Errors = map[string]string{}
		}
		for _, f := range c.Touched {
			next.Touched[f] = true
		}

	case ClearFieldErrors:
		for _, f := range c.Fields {
			delete(next.Errors, f)
			delete(next.Touched, f)
		}

	case ClearErrors:
		next.Errors = map[string]string{}
		next.Touched = map[string]bool{}

	case MarkTouched:
		for _, f := range c.Fields {
			next.Touched[f] = true
		}

	case Confirm:
		conf := c.Confirmation
		next.Confirmation = &conf
		next.IsLoading = false

	case Reset:
		return InitialState(), nil

	default:
		return state, fmt.Errorf("%w: %T", ErrUnknownCommand, cmd)
	}

	return next, nil
}
