package coupon

import (
	"context"
	"errors"
	"testing"

	"checkout-wizard/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockLookup is a mock implementation of Lookup.
type MockLookup struct {
	mock.Mock
}

func (m *MockLookup) Find(ctx context.Context, code string) (*model.Coupon, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Coupon), args.Error(1)
}

func TestResolver_Apply(t *testing.T) {
	resolver := NewResolver(NewStaticCatalogue(BuiltinCoupons(), zerolog.Nop()), false, zerolog.Nop())
	ctx := context.Background()

	tests := []struct {
		name     string
		code     string
		subtotal float64
		expected *model.CouponApplication
		wantErr  error
	}{
		{
			name:     "percentage",
			code:     "WELCOME10",
			subtotal: 1000,
			expected: &model.CouponApplication{Code: "WELCOME10", DiscountAmount: 100},
		},
		{
			name:     "percentage rounds to cents",
			code:     "welcome10",
			subtotal: 14446.6,
			expected: &model.CouponApplication{Code: "WELCOME10", DiscountAmount: 1444.66},
		},
		{
			name:     "fixed regardless of subtotal",
			code:     " save50 ",
			subtotal: 10,
			expected: &model.CouponApplication{Code: "SAVE50", DiscountAmount: 50},
		},
		{
			name:     "fixed on large subtotal",
			code:     "SAVE50",
			subtotal: 14446,
			expected: &model.CouponApplication{Code: "SAVE50", DiscountAmount: 50},
		},
		{
			name:     "free shipping value",
			code:     "FREESHIP",
			subtotal: 100,
			expected: &model.CouponApplication{Code: "FREESHIP", DiscountAmount: 29.90},
		},
		{name: "unknown", code: "NOPE", subtotal: 100, wantErr: ErrInvalid},
		{name: "empty", code: "   ", subtotal: 100, wantErr: ErrEmptyCode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolver.Apply(ctx, tt.code, tt.subtotal)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestResolver_Apply_MinPurchase(t *testing.T) {
	lookup := NewStaticCatalogue(BuiltinCoupons(), zerolog.Nop())
	ctx := context.Background()

	enforcing := NewResolver(lookup, true, zerolog.Nop())

	_, err := enforcing.Apply(ctx, "SAVE50", 150)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMinPurchase)
	var minErr *MinPurchaseError
	require.True(t, errors.As(err, &minErr))
	assert.Equal(t, 200.0, minErr.MinPurchase)

	got, err := enforcing.Apply(ctx, "SAVE50", 200)
	require.NoError(t, err)
	assert.Equal(t, 50.0, got.DiscountAmount)

	// Coupons without a minimum are unaffected
	got, err = enforcing.Apply(ctx, "WELCOME10", 10)
	require.NoError(t, err)
	assert.Equal(t, 1.0, got.DiscountAmount)
}

func TestResolver_Apply_LookupFailure(t *testing.T) {
	lookup := new(MockLookup)
	lookup.On("Find", mock.Anything, "WELCOME10").Return(nil, errors.New("connection reset"))

	resolver := NewResolver(lookup, false, zerolog.Nop())
	_, err := resolver.Apply(context.Background(), "welcome10", 100)

	assert.ErrorIs(t, err, ErrLookupFailed)
	assert.NotErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "connection reset")
	lookup.AssertExpectations(t)
}

func TestDiscount_UnknownType(t *testing.T) {
	_, err := Discount(model.Coupon{Code: "X", DiscountType: "bogo", DiscountValue: 1}, 100)
	assert.Error(t, err)
}
