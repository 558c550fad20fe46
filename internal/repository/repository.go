package repository

import (
	"context"

	"checkout-wizard/internal/model"

	"github.com/jackc/pgx/v5"
)

// CartRepository defines the interface for cart data access operations.
type CartRepository interface {
	// GetItems retrieves the line items of a cart, joined with their products.
	// It returns nil, nil when the cart does not exist.
	GetItems(ctx context.Context, cartID string) ([]model.Product, error)
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts multiple order items within the provided transaction.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// GetByOrderNumber retrieves an order by its public number along with its items.
	// It returns nil, nil, nil when no such order exists.
	GetByOrderNumber(ctx context.Context, orderNumber string) (*model.Order, []model.OrderItem, error)
}
