package coupon

import (
	"context"
	"errors"

	"checkout-wizard/internal/model"
)

// ErrNotFound is returned by Lookup implementations for unknown codes.
var ErrNotFound = errors.New("coupon not found")

// Lookup finds coupon records by their normalized code.
type Lookup interface {
	// Find returns the coupon for code, or ErrNotFound.
	Find(ctx context.Context, code string) (*model.Coupon, error)
}

// Catalogue is a Lookup backed by coupon files loaded at start-up.
type Catalogue interface {
	Lookup

	// Size returns the number of coupons in the catalogue.
	Size() int

	// Close releases resources held by the catalogue.
	Close() error
}

// Set is a collection of coupon records keyed by code.
type Set interface {
	// Get returns the coupon stored under code.
	Get(code string) (model.Coupon, bool)

	// Size returns the number of coupons in the set.
	Size() int

	// All returns every coupon in the set, in no particular order.
	All() []model.Coupon
}

// Loader defines the interface for loading coupon files.
type Loader interface {
	// Load reads a gzipped coupon file and returns a Set.
	Load(ctx context.Context, filePath string) (Set, error)
}
