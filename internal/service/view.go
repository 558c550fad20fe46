package service

import (
	"context"
	"slices"

	"checkout-wizard/internal/checkout"
	"checkout-wizard/internal/i18n"
	"checkout-wizard/internal/model"
	"checkout-wizard/internal/validation"
)

// newSessionView renders sess for clients. Card details are masked and the
// CVV never leaves the session.
func newSessionView(sess *checkout.Session, opts Options) *SessionView {
	st := sess.State()
	policy := sess.Policy()

	subtotal := st.Subtotal()
	total := st.Total()

	var brand string
	if st.Payment.CardNumber != "" {
		brand = validation.CardBrand(st.Payment.CardNumber)
		st.Payment.CardNumber = validation.MaskCardNumber(st.Payment.CardNumber)
	}
	st.Payment.CVV = ""

	navigable := make(map[checkout.Step]bool, len(checkout.Steps))
	for _, step := range checkout.Steps {
		navigable[step] = st.CanNavigate(step)
	}

	methods := opts.PaymentMethods
	if methods == nil {
		methods = model.PaymentMethods
	}

	return &SessionView{
		ID:     sess.ID().String(),
		CartID: sess.CartID(),
		Locale: sess.Locale(),
		State:  st,
		Totals: Totals{
			Subtotal:     subtotal,
			ShippingCost: st.ShippingCost,
			Discount:     st.Discount,
			Total:        total,
			AmountDue:    st.AmountDue(policy),
		},
		Installments:   checkout.InstallmentOptions(total, policy),
		PaymentMethod:  sess.PaymentMethod(),
		PaymentMethods: slices.Clone(methods),
		CardBrand:      brand,
		ShippingDraft:  sess.ShippingDraft(),
		Navigable:      navigable,
		Features: Features{
			Coupon:       opts.CouponEnabled,
			Shipping:     opts.ShippingEnabled,
			Installments: policy.InstallmentsEnabled,
			PixDiscount:  policy.PixDiscountEnabled,
		},
	}
}

// translatorFor picks the locale requested with ctx, remembering it on the
// session, or falls back to the session locale.
func translatorFor(ctx context.Context, sess *checkout.Session) i18n.Translator {
	if l, ok := i18n.FromContext(ctx); ok {
		if string(l) != sess.Locale() {
			sess.SetLocale(string(l))
		}
		return i18n.New(l)
	}
	return i18n.For(sess.Locale())
}
