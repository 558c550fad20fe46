package service

import (
	"context"
	"errors"
	"testing"
	"time"

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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCartSource is a mock implementation of cart.Source.
type MockCartSource struct {
	mock.Mock
}

func (m *MockCartSource) Products(ctx context.Context, cartID string) ([]model.Product, error) {
	args := m.Called(ctx, cartID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

// MockAddressLookup is a mock implementation of address.Lookup.
type MockAddressLookup struct {
	mock.Mock
}

func (m *MockAddressLookup) Lookup(ctx context.Context, zipCode string) (*model.AddressLookup, error) {
	args := m.Called(ctx, zipCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AddressLookup), args.Error(1)
}

// MockQuoter is a mock implementation of shipping.Quoter.
type MockQuoter struct {
	mock.Mock
}

func (m *MockQuoter) Quote(ctx context.Context, zipCode string) ([]model.ShippingOption, error) {
	args := m.Called(ctx, zipCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ShippingOption), args.Error(1)
}

const testZip = "01310100"

var (
	validCustomer = model.CustomerInfo{
		FirstName: "João",
		LastName:  "Silva",
		Email:     "joao@example.com",
		Phone:     "(11) 98765-4321",
	}
	validAddress = model.ShippingAddress{
		Street:       "Avenida Paulista",
		Number:       "1000",
		Neighborhood: "Bela Vista",
		City:         "São Paulo",
		State:        "SP",
		ZipCode:      "01310-100",
		Country:      "Brasil",
	}
	validCard = model.PaymentInfo{
		Method:       model.PaymentCredit,
		CardNumber:   "4111 1111 1111 1111",
		CardName:     "joao silva",
		ExpiryDate:   "12/30",
		CVV:          "123",
		Installments: 3,
	}
	paulista = &model.AddressLookup{
		Street:       "Avenida Paulista",
		Neighborhood: "Bela Vista",
		City:         "São Paulo",
		State:        "SP",
	}
)

type checkoutTestEnv struct {
	svc     CheckoutService
	store   SessionStore
	cart    *MockCartSource
	address *MockAddressLookup
	quoter  *MockQuoter
}

func testOptions() Options {
	return Options{
		CouponEnabled:   true,
		ShippingEnabled: true,
		DefaultCartID:   "demo",
		DefaultLocale:   "pt",
		PaymentMethods:  []model.PaymentMethod{model.PaymentCredit, model.PaymentPix, model.PaymentBoleto},
	}
}

func newCheckoutTestEnv(t *testing.T, opts Options) *checkoutTestEnv {
	t.Helper()
	logger := zerolog.Nop()

	env := &checkoutTestEnv{
		store:   NewMemorySessionStore(checkout.DefaultPolicy(), time.Hour, logger),
		cart:    new(MockCartSource),
		address: new(MockAddressLookup),
		quoter:  new(MockQuoter),
	}

	validator := validation.New(validation.Options{
		ShippingEnabled: opts.ShippingEnabled,
		PaymentMethods:  opts.PaymentMethods,
		Policy:          checkout.DefaultPolicy(),
		Now:             func() time.Time { return time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC) },
	})
	resolver := coupon.NewResolver(coupon.NewStaticCatalogue(coupon.BuiltinCoupons(), logger), false, logger)

	env.svc = NewCheckoutService(Dependencies{
		Store:     env.store,
		Cart:      env.cart,
		Address:   env.address,
		Shipping:  env.quoter,
		Coupons:   resolver,
		Validator: validator,
	}, opts, logger)
	return env
}

// start opens a session on the demo cart.
func (env *checkoutTestEnv) start(t *testing.T) uuid.UUID {
	t.Helper()
	env.cart.On("Products", mock.Anything, "demo").Return(cart.DemoProducts(), nil).Maybe()

	view, err := env.svc.Start(context.Background(), "")
	require.NoError(t, err)
	return uuid.MustParse(view.ID)
}

// toShipping walks a fresh session up to the shipping step.
func (env *checkoutTestEnv) toShipping(t *testing.T) uuid.UUID {
	t.Helper()
	id := env.start(t)

	_, err := env.svc.SubmitCustomer(context.Background(), id, validCustomer)
	require.NoError(t, err)
	return id
}

// toPayment walks a fresh session up to the payment step with express shipping.
func (env *checkoutTestEnv) toPayment(t *testing.T) uuid.UUID {
	t.Helper()
	ctx := context.Background()
	id := env.toShipping(t)

	env.address.On("Lookup", mock.Anything, testZip).Return(paulista, nil).Maybe()
	env.quoter.On("Quote", mock.Anything, testZip).Return(shipping.DefaultOptions(), nil).Maybe()

	_, err := env.svc.ChangeZipCode(ctx, id, model.ShippingAddress{ZipCode: validAddress.ZipCode})
	require.NoError(t, err)
	_, err = env.svc.SelectShippingOption(ctx, id, "express")
	require.NoError(t, err)
	_, err = env.svc.SubmitShipping(ctx, id, validAddress)
	require.NoError(t, err)
	return id
}

func TestCheckoutService_Start(t *testing.T) {
	env := newCheckoutTestEnv(t, testOptions())
	env.cart.On("Products", mock.Anything, "demo").Return(cart.DemoProducts(), nil)

	ctx := i18n.WithLocale(context.Background(), i18n.EN)
	view, err := env.svc.Start(ctx, "")
	require.NoError(t, err)

	assert.Equal(t, "demo", view.CartID)
	assert.Equal(t, "en", view.Locale)
	assert.Equal(t, checkout.StepCustomer, view.State.CurrentStep)
	assert.Len(t, view.State.Products, 3)
	assert.InDelta(t, 14446.00, view.Totals.Subtotal, 0.001)
	assert.InDelta(t, 14446.00, view.Totals.Total, 0.001)
	assert.True(t, view.Navigable[checkout.StepCustomer])
	assert.False(t, view.Navigable[checkout.StepShipping])
	assert.True(t, view.Features.Coupon)
	assert.Equal(t, 1, env.store.Len())
	env.cart.AssertExpectations(t)
}

func TestCheckoutService_Start_CartUnavailable(t *testing.T) {
	env := newCheckoutTestEnv(t, testOptions())
	env.cart.On("Products", mock.Anything, "missing").Return(nil, cart.ErrNotFound)

	_, err := env.svc.Start(context.Background(), "missing")
	assert.ErrorIs(t, err, model.ErrCartUnavailable)
	assert.ErrorIs(t, err, cart.ErrNotFound)
	assert.Equal(t, 0, env.store.Len())
}

func TestCheckoutService_UnknownSession(t *testing.T) {
	env := newCheckoutTestEnv(t, testOptions())
	ctx := context.Background()
	id := uuid.New()

	_, err := env.svc.Get(ctx, id)
	assert.ErrorIs(t, err, model.ErrSessionNotFound)
	_, err = env.svc.SubmitCustomer(ctx, id, validCustomer)
	assert.ErrorIs(t, err, model.ErrSessionNotFound)
	assert.ErrorIs(t, env.svc.Abandon(ctx, id), model.ErrSessionNotFound)
}

func TestCheckoutService_Abandon(t *testing.T) {
	env := newCheckoutTestEnv(t, testOptions())
	id := env.start(t)

	require.NoError(t, env.svc.Abandon(context.Background(), id))
	assert.Equal(t, 0, env.store.Len())
}

func TestCheckoutService_SubmitCustomer(t *testing.T) {
	env := newCheckoutTestEnv(t, testOptions())
	ctx := context.Background()
	id := env.start(t)

	t.Run("invalid form records errors and stays", func(t *testing.T) {
		_, err := env.svc.SubmitCustomer(ctx, id, model.CustomerInfo{FirstName: "J", Email: "nope"})

		var verr *model.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "customer", verr.Step)
		assert.Contains(t, verr.Fields, validation.FieldFirstName)
		assert.Contains(t, verr.Fields, validation.FieldLastName)
		assert.Contains(t, verr.Fields, validation.FieldEmail)
		assert.Contains(t, verr.Fields, validation.FieldPhone)

		view, err := env.svc.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, checkout.StepCustomer, view.State.CurrentStep)
		assert.Equal(t, verr.Fields, view.State.Errors)
		assert.True(t, view.State.Touched[validation.FieldEmail])
	})

	t.Run("valid form advances", func(t *testing.T) {
		view, err := env.svc.SubmitCustomer(ctx, id, validCustomer)
		require.NoError(t, err)

		assert.Equal(t, checkout.StepShipping, view.State.CurrentStep)
		assert.True(t, view.State.CompletedSteps.Has(checkout.StepCustomer))
		assert.Empty(t, view.State.Errors)
		assert.Equal(t, "joao@example.com", view.State.Customer.Email)
	})

	t.Run("form of a step that is not current", func(t *testing.T) {
		_, err := env.svc.SubmitCustomer(ctx, id, validCustomer)
		assert.ErrorIs(t, err, model.ErrStepNotCurrent)
	})
}

func TestCheckoutService_ChangeZipCode(t *testing.T) {
	pt := i18n.New(i18n.PT)

	tests := []struct {
		name          string
		zip           string
		lookup        *model.AddressLookup
		lookupErr     error
		quote         bool
		quoteErr      error
		wantStreet    string
		wantOptions   int
		wantLookupErr string
	}{
		{
			name:        "address and quotes",
			zip:         "01310-100",
			lookup:      paulista,
			quote:       true,
			wantStreet:  "Avenida Paulista",
			wantOptions: 3,
		},
		{
			name:          "unknown postal code still quotes",
			zip:           "99999999",
			lookupErr:     address.ErrNotFound,
			quote:         true,
			wantOptions:   3,
			wantLookupErr: pt.T(i18n.ZipCodeNotFound),
		},
		{
			name:          "lookup service down",
			zip:           "01310100",
			lookupErr:     address.ErrUnavailable,
			quote:         true,
			wantOptions:   3,
			wantLookupErr: pt.T(i18n.AddressLookupFailed),
		},
		{
			name:          "quote failure",
			zip:           "01310100",
			lookup:        paulista,
			quote:         true,
			quoteErr:      shipping.ErrNoOptions,
			wantStreet:    "Avenida Paulista",
			wantLookupErr: pt.T(i18n.ShippingUnavailable),
		},
		{
			name: "incomplete postal code",
			zip:  "0131",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newCheckoutTestEnv(t, testOptions())
			id := env.toShipping(t)
			digits := validation.Digits(tt.zip)

			if tt.lookup != nil || tt.lookupErr != nil {
				env.address.On("Lookup", mock.Anything, digits).Return(tt.lookup, tt.lookupErr).Once()
			}
			if tt.quote {
				if tt.quoteErr != nil {
					env.quoter.On("Quote", mock.Anything, digits).Return(nil, tt.quoteErr).Once()
				} else {
					env.quoter.On("Quote", mock.Anything, digits).Return(shipping.DefaultOptions(), nil).Once()
				}
			}

			view, err := env.svc.ChangeZipCode(context.Background(), id, model.ShippingAddress{ZipCode: tt.zip, Number: "42"})
			require.NoError(t, err)

			draft := view.ShippingDraft
			assert.Equal(t, tt.zip, draft.Address.ZipCode)
			assert.Equal(t, "42", draft.Address.Number)
			assert.Equal(t, tt.wantStreet, draft.Address.Street)
			assert.Len(t, draft.Options, tt.wantOptions)
			assert.Equal(t, tt.wantLookupErr, draft.LookupError)
			assert.False(t, draft.LookupPending)

			env.address.AssertExpectations(t)
			env.quoter.AssertExpectations(t)
		})
	}
}

func TestCheckoutService_ChangeZipCode_ShippingDisabled(t *testing.T) {
	opts := testOptions()
	opts.ShippingEnabled = false
	env := newCheckoutTestEnv(t, opts)
	id := env.toShipping(t)

	env.address.On("Lookup", mock.Anything, testZip).Return(paulista, nil).Once()

	view, err := env.svc.ChangeZipCode(context.Background(), id, model.ShippingAddress{ZipCode: testZip})
	require.NoError(t, err)
	assert.Empty(t, view.ShippingDraft.Options)
	assert.Equal(t, "São Paulo", view.ShippingDraft.Address.City)
	env.quoter.AssertNotCalled(t, "Quote", mock.Anything, mock.Anything)

	_, err = env.svc.SelectShippingOption(context.Background(), id, "standard")
	assert.ErrorIs(t, err, ErrShippingDisabled)
}

func TestCheckoutService_SelectShippingOption(t *testing.T) {
	env := newCheckoutTestEnv(t, testOptions())
	ctx := context.Background()
	id := env.toShipping(t)

	env.address.On("Lookup", mock.Anything, testZip).Return(paulista, nil)
	env.quoter.On("Quote", mock.Anything, testZip).Return(shipping.DefaultOptions(), nil)

	_, err := env.svc.SelectShippingOption(ctx, id, "express")
	assert.ErrorIs(t, err, ErrShippingOptionUnknown, "nothing quoted yet")

	_, err = env.svc.ChangeZipCode(ctx, id, model.ShippingAddress{ZipCode: testZip})
	require.NoError(t, err)

	view, err := env.svc.SelectShippingOption(ctx, id, "express")
	require.NoError(t, err)
	assert.InDelta(t, 49.90, view.Totals.ShippingCost, 0.001)
	assert.InDelta(t, 14495.90, view.Totals.Total, 0.001)
	assert.Equal(t, "express", view.ShippingDraft.SelectedOptionID)

	_, err = env.svc.SelectShippingOption(ctx, id, "teleport")
	assert.ErrorIs(t, err, ErrShippingOptionUnknown)
}

func TestCheckoutService_SubmitShipping(t *testing.T) {
	env := newCheckoutTestEnv(t, testOptions())
	ctx := context.Background()
	id := env.start(t)

	env.address.On("Lookup", mock.Anything, mock.Anything).Return(paulista, nil)
	env.quoter.On("Quote", mock.Anything, mock.Anything).Return(shipping.DefaultOptions(), nil)

	_, err := env.svc.SubmitCustomer(ctx, id, validCustomer)
	require.NoError(t, err)

	t.Run("option required", func(t *testing.T) {
		_, err := env.svc.SubmitShipping(ctx, id, validAddress)

		var verr *model.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, map[string]string{
			validation.FieldShipping: i18n.New(i18n.PT).T(i18n.ShippingRequired),
		}, verr.Fields)
	})

	t.Run("option quoted for another postal code", func(t *testing.T) {
		_, err := env.svc.ChangeZipCode(ctx, id, model.ShippingAddress{ZipCode: "20040020"})
		require.NoError(t, err)
		_, err = env.svc.SelectShippingOption(ctx, id, "standard")
		require.NoError(t, err)

		_, err = env.svc.SubmitShipping(ctx, id, validAddress)
		var verr *model.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Contains(t, verr.Fields, validation.FieldShipping)
	})

	t.Run("valid form advances", func(t *testing.T) {
		_, err := env.svc.ChangeZipCode(ctx, id, model.ShippingAddress{ZipCode: validAddress.ZipCode})
		require.NoError(t, err)
		_, err = env.svc.SelectShippingOption(ctx, id, "standard")
		require.NoError(t, err)

		view, err := env.svc.SubmitShipping(ctx, id, validAddress)
		require.NoError(t, err)
		assert.Equal(t, checkout.StepPayment, view.State.CurrentStep)
		assert.Equal(t, testZip, view.State.Shipping.ZipCode)
		assert.InDelta(t, 29.90, view.State.ShippingCost, 0.001)
	})
}

func TestCheckoutService_ShippingLockedAfterCommit(t *testing.T) {
	env := newCheckoutTestEnv(t, testOptions())
	ctx := context.Background()
	id := env.toPayment(t)

	view, err := env.svc.SubmitPayment(ctx, id, validCard)
	require.NoError(t, err)
	require.Equal(t, checkout.StepReview, view.State.CurrentStep)
	require.InDelta(t, 49.90, view.Totals.ShippingCost, 0.001)

	_, err = env.svc.ChangeZipCode(ctx, id, model.ShippingAddress{ZipCode: "20040-020"})
	assert.ErrorIs(t, err, model.ErrStepNotCurrent)

	_, err = env.svc.SelectShippingOption(ctx, id, "standard")
	assert.ErrorIs(t, err, model.ErrStepNotCurrent)

	sess := env.mustSession(t, id)
	assert.Equal(t, "express", sess.ShippingDraft().SelectedOptionID)
	assert.Equal(t, validAddress.ZipCode, sess.ShippingDraft().Address.ZipCode)

	snap, err := sess.BeginSubmission()
	require.NoError(t, err)
	assert.InDelta(t, 49.90, snap.ShippingCost, 0.001)
	assert.InDelta(t, 14495.90, snap.Total, 0.001)
	env.address.AssertNotCalled(t, "Lookup", mock.Anything, "20040020")
}

func TestCheckoutService_SubmitShipping_ShippingDisabled(t *testing.T) {
	opts := testOptions()
	opts.ShippingEnabled = false
	env := newCheckoutTestEnv(t, opts)
	ctx := context.Background()
	id := env.start(t)

	_, err := env.svc.SubmitCustomer(ctx, id, validCustomer)
	require.NoError(t, err)

	view, err := env.svc.SubmitShipping(ctx, id, validAddress)
	require.NoError(t, err)
	assert.Equal(t, checkout.StepPayment, view.State.CurrentStep)
	assert.Zero(t, view.Totals.ShippingCost)
}

func TestCheckoutService_SubmitPayment(t *testing.T) {
	t.Run("credit card is masked in the view", func(t *testing.T) {
		env := newCheckoutTestEnv(t, testOptions())
		id := env.toPayment(t)

		view, err := env.svc.SubmitPayment(context.Background(), id, validCard)
		require.NoError(t, err)

		assert.Equal(t, checkout.StepReview, view.State.CurrentStep)
		assert.Equal(t, "************1111", view.State.Payment.CardNumber)
		assert.Empty(t, view.State.Payment.CVV)
		assert.Equal(t, "JOAO SILVA", view.State.Payment.CardName)
		assert.Equal(t, 3, view.State.Payment.Installments)
		assert.Equal(t, validation.BrandVisa, view.CardBrand)

		full := env.mustSession(t, id).Snapshot()
		assert.Equal(t, "4111111111111111", full.Payment.CardNumber)
		assert.Equal(t, "123", full.Payment.CVV)
	})

	t.Run("pix drops card details and discounts", func(t *testing.T) {
		env := newCheckoutTestEnv(t, testOptions())
		id := env.toPayment(t)

		p := validCard
		p.Method = model.PaymentPix
		view, err := env.svc.SubmitPayment(context.Background(), id, p)
		require.NoError(t, err)

		assert.Equal(t, model.PaymentPix, view.State.Payment.Method)
		assert.Empty(t, view.State.Payment.CardNumber)
		assert.Equal(t, model.PaymentPix, view.PaymentMethod)
		assert.InDelta(t, checkout.RoundCents(view.Totals.Total*0.9), view.Totals.AmountDue, 0.001)
	})

	t.Run("invalid card", func(t *testing.T) {
		env := newCheckoutTestEnv(t, testOptions())
		id := env.toPayment(t)

		p := validCard
		p.CardNumber = "4111 1111 1111 1112"
		p.ExpiryDate = "13/30"
		_, err := env.svc.SubmitPayment(context.Background(), id, p)

		var verr *model.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Contains(t, verr.Fields, validation.FieldCardNumber)
		assert.Contains(t, verr.Fields, validation.FieldExpiryDate)
	})

	t.Run("disabled method", func(t *testing.T) {
		env := newCheckoutTestEnv(t, testOptions())
		id := env.toPayment(t)

		p := validCard
		p.Method = model.PaymentDebit
		_, err := env.svc.SubmitPayment(context.Background(), id, p)

		var verr *model.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Contains(t, verr.Fields, validation.FieldMethod)
	})
}

func TestCheckoutService_SelectPaymentMethod(t *testing.T) {
	env := newCheckoutTestEnv(t, testOptions())
	ctx := context.Background()
	id := env.toPayment(t)

	_, err := env.svc.SubmitPayment(ctx, id, model.PaymentInfo{Method: model.PaymentCredit})
	require.Error(t, err)

	view, err := env.svc.SelectPaymentMethod(ctx, id, model.PaymentBoleto)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentBoleto, view.PaymentMethod)
	assert.Empty(t, view.State.Errors, "switching method clears payment errors")

	_, err = env.svc.SelectPaymentMethod(ctx, id, model.PaymentDebit)
	assert.ErrorIs(t, err, ErrPaymentMethodDisabled)
}

func TestCheckoutService_ValidateField(t *testing.T) {
	env := newCheckoutTestEnv(t, testOptions())
	ctx := context.Background()
	id := env.start(t)

	tests := []struct {
		name      string
		step      string
		field     string
		value     string
		wantValid bool
		wantErr   error
	}{
		{name: "valid email", step: "customer", field: validation.FieldEmail, value: "a@b.co", wantValid: true},
		{name: "invalid email", step: "customer", field: validation.FieldEmail, value: "a@b", wantValid: false},
		{name: "zip on shipping", step: "shipping", field: validation.FieldZipCode, value: "0131", wantValid: false},
		{name: "card number", step: "payment", field: validation.FieldCardNumber, value: "4111111111111111", wantValid: true},
		{name: "unknown field", step: "customer", field: "nickname", value: "x", wantErr: ErrUnknownField},
		{name: "unknown step", step: "gift", field: "email", value: "x", wantErr: model.ErrUnknownStep},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := env.svc.ValidateField(ctx, id, tt.step, tt.field, tt.value)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.field, res.Field)
			assert.Equal(t, tt.wantValid, res.Valid)
			assert.Equal(t, tt.wantValid, res.Error == "")
		})
	}

	view, err := env.svc.Get(ctx, id)
	require.NoError(t, err)
	assert.True(t, view.State.Touched[validation.FieldEmail])
	assert.Contains(t, view.State.Errors, validation.FieldEmail)
	assert.Contains(t, view.State.Errors, validation.FieldZipCode)
	assert.NotContains(t, view.State.Errors, validation.FieldCardNumber)
}

func TestCheckoutService_ValidateField_Locale(t *testing.T) {
	env := newCheckoutTestEnv(t, testOptions())
	id := env.start(t)

	locale, err := env.svc.Locale(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "pt", locale)

	ctx := i18n.WithLocale(context.Background(), i18n.EN)
	res, err := env.svc.ValidateField(ctx, id, "customer", validation.FieldEmail, "")
	require.NoError(t, err)
	assert.Equal(t, i18n.New(i18n.EN).T(i18n.EmailRequired), res.Error)

	view, err := env.svc.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "en", view.Locale, "requested locale sticks to the session")

	locale, err = env.svc.Locale(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "en", locale)

	_, err = env.svc.Locale(context.Background(), uuid.New())
	assert.ErrorIs(t, err, model.ErrSessionNotFound)
}

func TestCheckoutService_Navigation(t *testing.T) {
	env := newCheckoutTestEnv(t, testOptions())
	ctx := context.Background()
	id := env.toPayment(t)

	_, err := env.svc.GoToStep(ctx, id, "review")
	assert.ErrorIs(t, err, model.ErrStepNotNavigable)

	_, err = env.svc.GoToStep(ctx, id, "gift")
	assert.ErrorIs(t, err, model.ErrUnknownStep)

	view, err := env.svc.GoToStep(ctx, id, "customer")
	require.NoError(t, err)
	assert.Equal(t, checkout.StepCustomer, view.State.CurrentStep)
	assert.True(t, view.Navigable[checkout.StepShipping], "completed steps stay reachable")
	assert.False(t, view.Navigable[checkout.StepPayment], "the step left behind was never completed")

	view, err = env.svc.GoToStep(ctx, id, "shipping")
	require.NoError(t, err)
	assert.Equal(t, checkout.StepShipping, view.State.CurrentStep)

	view, err = env.svc.Back(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, checkout.StepCustomer, view.State.CurrentStep)

	view, err = env.svc.Back(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, checkout.StepCustomer, view.State.CurrentStep, "back on the first step is a no-op")
}

func TestCheckoutService_Coupons(t *testing.T) {
	env := newCheckoutTestEnv(t, testOptions())
	ctx := context.Background()
	id := env.start(t)

	view, err := env.svc.ApplyCoupon(ctx, id, " welcome10 ")
	require.NoError(t, err)
	assert.Equal(t, "WELCOME10", view.State.CouponCode)
	assert.InDelta(t, 1444.60, view.Totals.Discount, 0.001)
	assert.InDelta(t, 13001.40, view.Totals.Total, 0.001)

	_, err = env.svc.ApplyCoupon(ctx, id, "BOGUS")
	assert.ErrorIs(t, err, coupon.ErrInvalid)

	_, err = env.svc.ApplyCoupon(ctx, id, "   ")
	assert.ErrorIs(t, err, coupon.ErrEmptyCode)

	view, err = env.svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "WELCOME10", view.State.CouponCode, "rejections leave the applied coupon alone")

	view, err = env.svc.ApplyCoupon(ctx, id, "SAVE50")
	require.NoError(t, err)
	assert.Equal(t, "SAVE50", view.State.CouponCode)
	assert.InDelta(t, 50.0, view.Totals.Discount, 0.001)

	view, err = env.svc.RemoveCoupon(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, view.State.CouponCode)
	assert.Zero(t, view.Totals.Discount)
}

func TestCheckoutService_CouponsDisabled(t *testing.T) {
	opts := testOptions()
	opts.CouponEnabled = false
	env := newCheckoutTestEnv(t, opts)
	id := env.start(t)

	_, err := env.svc.ApplyCoupon(context.Background(), id, "WELCOME10")
	assert.ErrorIs(t, err, model.ErrCouponDisabled)
}

func (env *checkoutTestEnv) mustSession(t *testing.T, id uuid.UUID) *checkout.Session {
	t.Helper()
	sess, err := env.store.Get(id)
	require.NoError(t, err)
	return sess
}
