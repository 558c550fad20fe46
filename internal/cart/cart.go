// Package cart provides the product snapshot a checkout session starts from.
package cart

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"checkout-wizard/internal/model"
	"checkout-wizard/internal/repository"

	"github.com/rs/zerolog"
)

// ErrNotFound is returned for an unknown cart.
var ErrNotFound = errors.New("cart not found")

// Source loads the line items of a cart.
type Source interface {
	Products(ctx context.Context, cartID string) ([]model.Product, error)
}

// DemoProducts is the storefront demo cart.
func DemoProducts() []model.Product {
	return []model.Product{
		{
			ID:          "1",
			Name:        `MacBook Pro 14"`,
			Description: "Apple M3 Pro, 18GB RAM, 512GB SSD",
			Price:       12999.00,
			Quantity:    1,
			Image:       "https://images.unsplash.com/photo-1517694712202-14dd9538aa97?w=120&h=120&fit=crop&q=80",
		},
		{
			ID:          "2",
			Name:        "Magic Mouse",
			Description: "Superfície Multi-Touch",
			Price:       849.00,
			Quantity:    1,
			Image:       "https://images.unsplash.com/photo-1527814050087-3793815479db?w=120&h=120&fit=crop&q=80",
		},
		{
			ID:          "3",
			Name:        "Magic Keyboard",
			Description: "Teclado Moderno",
			Price:       299.00,
			Quantity:    2,
			Image:       "https://images.unsplash.com/photo-1625948515291-69613efd103f?w=120&h=120&fit=crop&q=80",
		},
	}
}

type staticSource struct {
	products []model.Product
}

// NewStaticSource returns a Source that serves products for every cart ID.
func NewStaticSource(products []model.Product) Source {
	return &staticSource{products: slices.Clone(products)}
}

func (s *staticSource) Products(ctx context.Context, cartID string) ([]model.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return slices.Clone(s.products), nil
}

type repositorySource struct {
	repo   repository.CartRepository
	logger zerolog.Logger
}

// NewRepositorySource returns a Source backed by the cart tables.
func NewRepositorySource(repo repository.CartRepository, logger zerolog.Logger) Source {
	return &repositorySource{
		repo:   repo,
		logger: logger.With().Str("component", "cart-source").Logger(),
	}
}

func (s *repositorySource) Products(ctx context.Context, cartID string) ([]model.Product, error) {
	products, err := s.repo.GetItems(ctx, cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart %s: %w", cartID, err)
	}
	if products == nil {
		s.logger.Debug().Str("cart_id", cartID).Msg("cart not found")
		return nil, ErrNotFound
	}
	return products, nil
}
