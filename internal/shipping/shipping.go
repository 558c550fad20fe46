// Package shipping quotes delivery options for a postal code.
package shipping

import (
	"context"
	"errors"
	"slices"

	"checkout-wizard/internal/address"
	"checkout-wizard/internal/model"

	"github.com/rs/zerolog"
)

// ErrNoOptions is returned when no carrier serves the postal code.
var ErrNoOptions = errors.New("no shipping options for postal code")

// Quoter returns the delivery options available for a postal code.
type Quoter interface {
	Quote(ctx context.Context, zipCode string) ([]model.ShippingOption, error)
}

// DefaultOptions is the storefront rate table.
func DefaultOptions() []model.ShippingOption {
	return []model.ShippingOption{
		{ID: "standard", Name: "Padrão", Price: 29.90, EstimatedDays: 7, Description: "Entrega econômica"},
		{ID: "express", Name: "Expresso", Price: 49.90, EstimatedDays: 3, Description: "Entrega rápida"},
		{ID: "same-day", Name: "Mesmo dia", Price: 99.90, EstimatedDays: 0, Description: "Receba hoje!"},
	}
}

type staticQuoter struct {
	options []model.ShippingOption
	logger  zerolog.Logger
}

// NewStaticQuoter creates a Quoter that offers the same options for every
// valid postal code. An empty table falls back to DefaultOptions.
func NewStaticQuoter(options []model.ShippingOption, logger zerolog.Logger) Quoter {
	if len(options) == 0 {
		options = DefaultOptions()
	}
	return &staticQuoter{
		options: slices.Clone(options),
		logger:  logger.With().Str("component", "shipping-quoter").Logger(),
	}
}

func (q *staticQuoter) Quote(ctx context.Context, zipCode string) ([]model.ShippingOption, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	zip, err := address.NormalizeZip(zipCode)
	if err != nil {
		return nil, err
	}

	q.logger.Debug().Str("zip_code", zip).Int("options", len(q.options)).Msg("shipping quoted")
	return slices.Clone(q.options), nil
}

// Find returns the option with id from options.
func Find(options []model.ShippingOption, id string) (model.ShippingOption, bool) {
	i := slices.IndexFunc(options, func(o model.ShippingOption) bool { return o.ID == id })
	if i < 0 {
		return model.ShippingOption{}, false
	}
	return options[i], true
}
