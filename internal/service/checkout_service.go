package service

import (
	"context"
	"errors"
	"fmt"

	"checkout-wizard/internal/address"
	"checkout-wizard/internal/cart"
	"checkout-wizard/internal/checkout"
	"checkout-wizard/internal/coupon"
	"checkout-wizard/internal/i18n"
	"checkout-wizard/internal/model"
	"checkout-wizard/internal/shipping"
	"checkout-wizard/internal/validation"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Dependencies are the collaborators of the checkout service.
type Dependencies struct {
	Store     SessionStore
	Cart      cart.Source
	Address   address.Lookup
	Shipping  shipping.Quoter
	Coupons   *coupon.Resolver
	Validator *validation.Validator
}

// checkoutService implements CheckoutService.
type checkoutService struct {
	store     SessionStore
	cart      cart.Source
	address   address.Lookup
	shipping  shipping.Quoter
	coupons   *coupon.Resolver
	validator *validation.Validator
	opts      Options
	logger    zerolog.Logger
}

// NewCheckoutService creates a new checkout service.
func NewCheckoutService(deps Dependencies, opts Options, logger zerolog.Logger) CheckoutService {
	return &checkoutService{
		store:     deps.Store,
		cart:      deps.Cart,
		address:   deps.Address,
		shipping:  deps.Shipping,
		coupons:   deps.Coupons,
		validator: deps.Validator,
		opts:      opts,
		logger:    logger.With().Str("service", "checkout").Logger(),
	}
}

func (s *checkoutService) Start(ctx context.Context, cartID string) (*SessionView, error) {
	if cartID == "" {
		cartID = s.opts.DefaultCartID
	}

	products, err := s.cart.Products(ctx, cartID)
	if err != nil {
		s.logger.Warn().Err(err).Str("cart_id", cartID).Msg("failed to load cart")
		return nil, fmt.Errorf("%w: %w", model.ErrCartUnavailable, err)
	}

	locale := s.opts.DefaultLocale
	if l, ok := i18n.FromContext(ctx); ok {
		locale = string(l)
	}

	sess := s.store.Create(locale)
	sess.SetCartID(cartID)
	if err := sess.Dispatch(checkout.SetProducts{Products: products}); err != nil {
		s.store.Delete(sess.ID())
		return nil, fmt.Errorf("failed to start session: %w", err)
	}

	s.logger.Info().
		Str("session_id", sess.ID().String()).
		Str("cart_id", cartID).
		Int("item_count", len(products)).
		Msg("checkout session started")

	return newSessionView(sess, s.opts), nil
}

func (s *checkoutService) Get(ctx context.Context, id uuid.UUID) (*SessionView, error) {
	sess, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	translatorFor(ctx, sess)
	return newSessionView(sess, s.opts), nil
}

func (s *checkoutService) Locale(ctx context.Context, id uuid.UUID) (string, error) {
	sess, err := s.store.Get(id)
	if err != nil {
		return "", err
	}
	return sess.Locale(), nil
}

func (s *checkoutService) Abandon(ctx context.Context, id uuid.UUID) error {
	if !s.store.Delete(id) {
		return model.ErrSessionNotFound
	}
	s.logger.Info().Str("session_id", id.String()).Msg("checkout session abandoned")
	return nil
}

func (s *checkoutService) GoToStep(ctx context.Context, id uuid.UUID, name string) (*SessionView, error) {
	sess, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}

	step, err := checkout.ParseStep(name)
	if err != nil {
		return nil, model.ErrUnknownStep
	}
	if err := sess.Navigate(step); err != nil {
		return nil, err
	}
	return newSessionView(sess, s.opts), nil
}

func (s *checkoutService) Back(ctx context.Context, id uuid.UUID) (*SessionView, error) {
	sess, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	if err := sess.Dispatch(checkout.PrevStep{}); err != nil {
		return nil, err
	}
	return newSessionView(sess, s.opts), nil
}

func (s *checkoutService) ValidateField(ctx context.Context, id uuid.UUID, stepName, name, value string) (*FieldResult, error) {
	sess, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	tr := translatorFor(ctx, sess)

	step, err := checkout.ParseStep(stepName)
	if err != nil {
		return nil, model.ErrUnknownStep
	}

	msg, err := s.validator.Field(tr, step, sess.PaymentMethod(), name, value)
	if errors.Is(err, validation.ErrUnknownField) {
		return nil, ErrUnknownField
	}
	if err != nil {
		return nil, err
	}

	if err := sess.Dispatch(
		checkout.SetFieldError{Field: name, Message: msg},
		checkout.MarkTouched{Fields: []string{name}},
	); err != nil {
		return nil, err
	}

	return &FieldResult{Field: name, Error: msg, Valid: msg == ""}, nil
}

func (s *checkoutService) SubmitCustomer(ctx context.Context, id uuid.UUID, customer model.CustomerInfo) (*SessionView, error) {
	sess, err := s.formSession(id, checkout.StepCustomer)
	if err != nil {
		return nil, err
	}
	tr := translatorFor(ctx, sess)

	res, clean := s.validator.Customer(tr, customer)
	if !res.Valid {
		return nil, s.reject(sess, checkout.StepCustomer, res)
	}
	if err := sess.CommitStep(checkout.StepCustomer, checkout.SetCustomer{Customer: clean}); err != nil {
		return nil, err
	}

	s.logStepCompleted(sess, checkout.StepCustomer)
	return newSessionView(sess, s.opts), nil
}

// ChangeZipCode never fails on lookup or quote errors; they end up in the
// draft's lookup error for the client to show next to the postal code.
func (s *checkoutService) ChangeZipCode(ctx context.Context, id uuid.UUID, draft model.ShippingAddress) (*SessionView, error) {
	sess, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	tr := translatorFor(ctx, sess)

	tag, err := sess.BeginZipLookup(draft.ZipCode)
	if err != nil {
		return nil, err
	}
	sess.UpdateShippingDraft(draft)

	zip, err := address.NormalizeZip(draft.ZipCode)
	if err != nil {
		sess.CancelZipLookup(tag, "")
		return newSessionView(sess, s.opts), nil
	}

	log := s.logger.With().Str("session_id", id.String()).Str("zip_code", zip).Logger()

	var lookupErr string
	addr, err := s.address.Lookup(ctx, zip)
	switch {
	case err == nil:
		if !sess.ApplyAddressLookup(tag, *addr, s.opts.AutofillOverwrite) {
			log.Debug().Msg("discarded stale address lookup")
			return newSessionView(sess, s.opts), nil
		}
	case errors.Is(err, address.ErrNotFound):
		lookupErr = tr.T(i18n.ZipCodeNotFound)
	case errors.Is(err, address.ErrInvalidZip):
		lookupErr = tr.T(i18n.ZipCodeInvalid)
	default:
		log.Warn().Err(err).Msg("address lookup failed")
		lookupErr = tr.T(i18n.AddressLookupFailed)
	}

	var options []model.ShippingOption
	if s.opts.ShippingEnabled {
		options, err = s.shipping.Quote(ctx, zip)
		if err != nil {
			log.Warn().Err(err).Msg("shipping quote failed")
			options = nil
			if lookupErr == "" {
				lookupErr = tr.T(i18n.ShippingUnavailable)
			}
		}
	}

	if !sess.ApplyShippingQuotes(tag, options, lookupErr) {
		log.Debug().Msg("discarded stale shipping quotes")
	}
	return newSessionView(sess, s.opts), nil
}

func (s *checkoutService) SelectShippingOption(ctx context.Context, id uuid.UUID, optionID string) (*SessionView, error) {
	if !s.opts.ShippingEnabled {
		return nil, ErrShippingDisabled
	}

	sess, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}

	opt, ok, err := sess.SelectShippingOption(optionID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrShippingOptionUnknown
	}

	s.logger.Debug().
		Str("session_id", id.String()).
		Str("option_id", opt.ID).
		Float64("price", opt.Price).
		Msg("shipping option selected")

	return newSessionView(sess, s.opts), nil
}

func (s *checkoutService) SubmitShipping(ctx context.Context, id uuid.UUID, addr model.ShippingAddress) (*SessionView, error) {
	sess, err := s.formSession(id, checkout.StepShipping)
	if err != nil {
		return nil, err
	}
	tr := translatorFor(ctx, sess)

	// the selected option only counts for the postal code it was quoted for
	draft := sess.ShippingDraft()
	optionSelected := draft.SelectedOptionID != "" &&
		validation.Digits(draft.Address.ZipCode) == validation.Digits(addr.ZipCode)

	res, clean := s.validator.Shipping(tr, addr, optionSelected)
	if !res.Valid {
		return nil, s.reject(sess, checkout.StepShipping, res)
	}
	if err := sess.CommitStep(checkout.StepShipping, checkout.SetShipping{Shipping: clean}); err != nil {
		return nil, err
	}

	s.logStepCompleted(sess, checkout.StepShipping)
	return newSessionView(sess, s.opts), nil
}

func (s *checkoutService) SelectPaymentMethod(ctx context.Context, id uuid.UUID, method model.PaymentMethod) (*SessionView, error) {
	sess, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	if !s.validator.MethodEnabled(method) {
		return nil, ErrPaymentMethodDisabled
	}
	if err := sess.SelectPaymentMethod(method, validation.PaymentFields); err != nil {
		return nil, err
	}
	return newSessionView(sess, s.opts), nil
}

func (s *checkoutService) SubmitPayment(ctx context.Context, id uuid.UUID, p model.PaymentInfo) (*SessionView, error) {
	sess, err := s.formSession(id, checkout.StepPayment)
	if err != nil {
		return nil, err
	}
	tr := translatorFor(ctx, sess)

	res, clean := s.validator.Payment(tr, p, sess.State().Total())
	if !res.Valid {
		return nil, s.reject(sess, checkout.StepPayment, res)
	}
	if err := sess.CommitStep(checkout.StepPayment, checkout.SetPayment{Payment: clean}); err != nil {
		return nil, err
	}
	if err := sess.SelectPaymentMethod(clean.Method, nil); err != nil {
		return nil, err
	}

	s.logStepCompleted(sess, checkout.StepPayment)
	return newSessionView(sess, s.opts), nil
}

func (s *checkoutService) ApplyCoupon(ctx context.Context, id uuid.UUID, code string) (*SessionView, error) {
	if !s.opts.CouponEnabled {
		return nil, model.ErrCouponDisabled
	}

	sess, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}

	st := sess.State()
	if st.Confirmed() {
		return nil, checkout.ErrOrderCompleted
	}

	app, err := s.coupons.Apply(ctx, code, st.Subtotal())
	if err != nil {
		s.logger.Debug().Err(err).Str("session_id", id.String()).Msg("coupon rejected")
		return nil, err
	}

	if err := sess.Dispatch(checkout.ApplyDiscount{Amount: app.DiscountAmount, Code: app.Code}); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("session_id", id.String()).
		Str("coupon_code", app.Code).
		Float64("discount", app.DiscountAmount).
		Msg("coupon applied")

	return newSessionView(sess, s.opts), nil
}

func (s *checkoutService) RemoveCoupon(ctx context.Context, id uuid.UUID) (*SessionView, error) {
	sess, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	if err := sess.Dispatch(checkout.ClearDiscount{}); err != nil {
		return nil, err
	}
	return newSessionView(sess, s.opts), nil
}

// formSession returns the session if step is the one being filled in.
func (s *checkoutService) formSession(id uuid.UUID, step checkout.Step) (*checkout.Session, error) {
	sess, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}

	st := sess.State()
	if st.Confirmed() {
		return nil, checkout.ErrOrderCompleted
	}
	if st.CurrentStep != step {
		return nil, model.ErrStepNotCurrent
	}
	return sess, nil
}

// reject records the form errors on the session and returns them.
func (s *checkoutService) reject(sess *checkout.Session, step checkout.Step, res validation.Result) error {
	if err := sess.Dispatch(checkout.SetFieldErrors{Errors: res.Errors, Touched: res.Touched}); err != nil {
		return err
	}

	s.logger.Debug().
		Str("session_id", sess.ID().String()).
		Str("step", step.String()).
		Int("error_count", len(res.Errors)).
		Msg("form rejected")

	return &model.ValidationError{Step: step.String(), Fields: res.Errors}
}

func (s *checkoutService) logStepCompleted(sess *checkout.Session, step checkout.Step) {
	s.logger.Info().
		Str("session_id", sess.ID().String()).
		Str("step", step.String()).
		Msg("checkout step completed")
}
