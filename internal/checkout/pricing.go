package checkout

import (
	"math"

	"checkout-wizard/internal/model"
)

// Policy holds the pricing knobs of a checkout.
type Policy struct {
	PixDiscountEnabled  bool
	PixDiscountPercent  float64
	InstallmentsEnabled bool
	MaxInstallments     int
	MinInstallmentValue float64
}

// DefaultPolicy mirrors the storefront defaults: 10% off with Pix, up to 12
// interest-free installments of at least 50.
func DefaultPolicy() Policy {
	return Policy{
		PixDiscountEnabled:  true,
		PixDiscountPercent:  10,
		InstallmentsEnabled: true,
		MaxInstallments:     12,
		MinInstallmentValue: 50,
	}
}

// Installment is one installment plan offered for a total.
type Installment struct {
	Count int     `json:"count"`
	Value float64 `json:"value"`
}

// RoundCents rounds v to two decimal places.
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// Subtotal sums price times quantity over all line items.
func Subtotal(products []model.Product) float64 {
	sum := 0.0
	for _, p := range products {
		sum += p.Price * float64(p.Quantity)
	}
	return RoundCents(sum)
}

// RawTotal is subtotal + shipping - discount without any clamping. It can go
// negative when a fixed coupon exceeds the order value.
func RawTotal(subtotal, shippingCost, discount float64) float64 {
	return RoundCents(subtotal + shippingCost - discount)
}

// Total is the amount shown to the buyer. It never goes below zero.
func Total(subtotal, shippingCost, discount float64) float64 {
	return math.Max(0, RawTotal(subtotal, shippingCost, discount))
}

// AmountDue applies the Pix discount to total when it applies to method.
func AmountDue(total float64, method model.PaymentMethod, policy Policy) float64 {
	if method != model.PaymentPix || !policy.PixDiscountEnabled || policy.PixDiscountPercent <= 0 {
		return total
	}
	return RoundCents(total * (1 - policy.PixDiscountPercent/100))
}

// InstallmentOptions lists the installment plans available for total. A single
// installment is always offered; more are offered only while each installment
// stays at or above the policy minimum.
func InstallmentOptions(total float64, policy Policy) []Installment {
	maxCount := policy.MaxInstallments
	if !policy.InstallmentsEnabled || maxCount < 1 {
		maxCount = 1
	}

	options := make([]Installment, 0, maxCount)
	for n := 1; n <= maxCount; n++ {
		value := total / float64(n)
		if n > 1 && value < policy.MinInstallmentValue {
			continue
		}
		options = append(options, Installment{Count: n, Value: RoundCents(value)})
	}
	return options
}

// AllowsInstallments reports whether count is one of the offered plans.
func AllowsInstallments(total float64, count int, policy Policy) bool {
	for _, opt := range InstallmentOptions(total, policy) {
		if opt.Count == count {
			return true
		}
	}
	return false
}
