//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"checkout-wizard/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrder(number string) (*model.Order, []model.OrderItem) {
	coupon := "WELCOME10"
	order := &model.Order{
		ID:            uuid.New(),
		OrderNumber:   number,
		SessionID:     uuid.New(),
		Email:         "ana@example.com",
		PaymentMethod: model.PaymentPix,
		CouponCode:    &coupon,
		Subtotal:      14446.00,
		ShippingCost:  29.90,
		Discount:      1444.60,
		Total:         13031.30,
		Status:        model.OrderConfirmed,
		CreatedAt:     time.Now().UTC().Truncate(time.Microsecond),
	}
	items := []model.OrderItem{
		{ID: uuid.New(), OrderID: order.ID, ProductID: "1", Name: `MacBook Pro 14"`, UnitPrice: 12999.00, Quantity: 1},
		{ID: uuid.New(), OrderID: order.ID, ProductID: "3", Name: "Magic Keyboard", UnitPrice: 299.00, Quantity: 2},
	}
	return order, items
}

func TestOrderRepository_CreateAndGet(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewOrderRepository(pool, zerolog.Nop())
	ctx := context.Background()

	order, items := newTestOrder("ORD-ABCDEF12")

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, repo.CreateOrder(ctx, tx, order))
	require.NoError(t, repo.CreateOrderItems(ctx, tx, items))
	require.NoError(t, tx.Commit(ctx))

	got, gotItems, err := repo.GetByOrderNumber(ctx, "ORD-ABCDEF12")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, order.ID, got.ID)
	assert.Equal(t, order.SessionID, got.SessionID)
	assert.Equal(t, model.PaymentPix, got.PaymentMethod)
	assert.Equal(t, model.OrderConfirmed, got.Status)
	require.NotNil(t, got.CouponCode)
	assert.Equal(t, "WELCOME10", *got.CouponCode)
	assert.Equal(t, 13031.30, got.Total)
	assert.True(t, order.CreatedAt.Equal(got.CreatedAt))

	require.Len(t, gotItems, 2)
	assert.Equal(t, "1", gotItems[0].ProductID)
	assert.Equal(t, 299.00, gotItems[1].UnitPrice)
}

func TestOrderRepository_Rollback(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewOrderRepository(pool, zerolog.Nop())
	ctx := context.Background()

	order, items := newTestOrder("ORD-ROLLBACK")

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, repo.CreateOrder(ctx, tx, order))
	require.NoError(t, repo.CreateOrderItems(ctx, tx, items))
	require.NoError(t, tx.Rollback(ctx))

	got, gotItems, err := repo.GetByOrderNumber(ctx, "ORD-ROLLBACK")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Nil(t, gotItems)
}

func TestOrderRepository_DuplicateOrderNumber(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewOrderRepository(pool, zerolog.Nop())
	ctx := context.Background()

	first, _ := newTestOrder("ORD-DUPLICATE")
	second, _ := newTestOrder("ORD-DUPLICATE")

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)

	require.NoError(t, repo.CreateOrder(ctx, tx, first))
	err = repo.CreateOrder(ctx, tx, second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create order")
}

func TestOrderRepository_CreateOrderItems_Empty(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewOrderRepository(pool, zerolog.Nop())
	ctx := context.Background()

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)

	assert.NoError(t, repo.CreateOrderItems(ctx, tx, nil))
}
