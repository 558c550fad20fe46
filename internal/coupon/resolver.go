package coupon

import (
	"context"
	"errors"
	"fmt"

	"checkout-wizard/internal/checkout"
	"checkout-wizard/internal/model"

	"github.com/rs/zerolog"
)

// Rejections returned by Resolver.Apply.
var (
	ErrEmptyCode    = model.NewDomainError(model.ErrCodeCouponEmpty, "coupon code is empty")
	ErrInvalid      = model.NewDomainError(model.ErrCodeCouponInvalid, "invalid or expired coupon")
	ErrLookupFailed = model.NewDomainError(model.ErrCodeCouponLookupFailed, "coupon lookup failed")
	ErrMinPurchase  = model.NewDomainError(model.ErrCodeCouponMinPurchase, "order below the coupon minimum purchase")
)

// MinPurchaseError rejects a coupon whose minimum purchase is not met.
type MinPurchaseError struct {
	Code        string
	MinPurchase float64
	Subtotal    float64
}

func (e *MinPurchaseError) Error() string {
	return fmt.Sprintf("coupon %s requires a minimum purchase of %.2f (subtotal %.2f)", e.Code, e.MinPurchase, e.Subtotal)
}

// Is matches ErrMinPurchase.
func (e *MinPurchaseError) Is(target error) bool {
	return target == ErrMinPurchase
}

// Resolver turns a coupon code into a discount for a subtotal.
type Resolver struct {
	lookup             Lookup
	enforceMinPurchase bool
	logger             zerolog.Logger
}

// NewResolver creates a Resolver. With enforceMinPurchase unset, a coupon's
// minimum purchase is carried but not checked.
func NewResolver(lookup Lookup, enforceMinPurchase bool, logger zerolog.Logger) *Resolver {
	return &Resolver{
		lookup:             lookup,
		enforceMinPurchase: enforceMinPurchase,
		logger:             logger.With().Str("component", "coupon-resolver").Logger(),
	}
}

// Apply resolves code against subtotal. Percentage coupons discount a share
// of the subtotal; fixed coupons discount their value as is, even when it
// exceeds the subtotal.
func (r *Resolver) Apply(ctx context.Context, code string, subtotal float64) (*model.CouponApplication, error) {
	code = NormalizeCode(code)
	if code == "" {
		return nil, ErrEmptyCode
	}

	c, err := r.lookup.Find(ctx, code)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			r.logger.Debug().Str("coupon_code", code).Msg("coupon rejected")
			return nil, ErrInvalid
		}
		r.logger.Error().Err(err).Str("coupon_code", code).Msg("failed to look up coupon")
		return nil, fmt.Errorf("%w: %w", ErrLookupFailed, err)
	}

	if r.enforceMinPurchase && c.MinPurchase != nil && subtotal < *c.MinPurchase {
		r.logger.Debug().
			Str("coupon_code", code).
			Float64("min_purchase", *c.MinPurchase).
			Float64("subtotal", subtotal).
			Msg("coupon below minimum purchase")
		return nil, &MinPurchaseError{Code: code, MinPurchase: *c.MinPurchase, Subtotal: subtotal}
	}

	amount, err := Discount(*c, subtotal)
	if err != nil {
		return nil, err
	}

	return &model.CouponApplication{Code: code, DiscountAmount: amount}, nil
}

// Discount computes the discount c grants on subtotal.
func Discount(c model.Coupon, subtotal float64) (float64, error) {
	switch c.DiscountType {
	case model.DiscountPercentage:
		return checkout.RoundCents(subtotal * c.DiscountValue / 100), nil
	case model.DiscountFixed:
		return checkout.RoundCents(c.DiscountValue), nil
	default:
		return 0, fmt.Errorf("unknown discount type %q for coupon %s", c.DiscountType, c.Code)
	}
}
