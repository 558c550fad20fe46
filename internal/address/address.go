// Package address resolves Brazilian postal codes (CEP) to street addresses.
package address

import (
	"context"
	"errors"
	"regexp"

	"checkout-wizard/internal/model"
)

var (
	// ErrInvalidZip is returned for postal codes that are not 8 digits.
	ErrInvalidZip = errors.New("invalid postal code")
	// ErrNotFound is returned when no address exists for the postal code.
	ErrNotFound = errors.New("postal code not found")
)

// Lookup resolves a postal code to an address.
type Lookup interface {
	Lookup(ctx context.Context, zipCode string) (*model.AddressLookup, error)
}

var nonDigits = regexp.MustCompile(`\D`)

// NormalizeZip strips formatting from zipCode and checks it has 8 digits.
func NormalizeZip(zipCode string) (string, error) {
	digits := nonDigits.ReplaceAllString(zipCode, "")
	if len(digits) != 8 {
		return "", ErrInvalidZip
	}
	return digits, nil
}
