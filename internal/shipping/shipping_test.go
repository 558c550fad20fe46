package shipping

import (
	"context"
	"testing"

	"checkout-wizard/internal/address"
	"checkout-wizard/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticQuoter_Quote(t *testing.T) {
	q := NewStaticQuoter(nil, zerolog.Nop())

	options, err := q.Quote(context.Background(), "01310-100")
	require.NoError(t, err)
	require.Len(t, options, 3)
	assert.Equal(t, "standard", options[0].ID)
	assert.Equal(t, 29.90, options[0].Price)
	assert.Equal(t, 0, options[2].EstimatedDays)

	// callers get their own copy
	options[0].Price = 0
	again, err := q.Quote(context.Background(), "01310100")
	require.NoError(t, err)
	assert.Equal(t, 29.90, again[0].Price)
}

func TestStaticQuoter_Errors(t *testing.T) {
	q := NewStaticQuoter([]model.ShippingOption{{ID: "pickup", Name: "Retirada"}}, zerolog.Nop())

	_, err := q.Quote(context.Background(), "123")
	assert.ErrorIs(t, err, address.ErrInvalidZip)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = q.Quote(ctx, "01310100")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFind(t *testing.T) {
	options := DefaultOptions()

	opt, ok := Find(options, "express")
	assert.True(t, ok)
	assert.Equal(t, 49.90, opt.Price)

	_, ok = Find(options, "drone")
	assert.False(t, ok)
}
