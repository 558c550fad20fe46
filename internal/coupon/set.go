package coupon

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"checkout-wizard/internal/model"

	"github.com/rs/zerolog"
)

// mapSet implements Set using a map for O(1) lookups.
type mapSet struct {
	coupons map[string]model.Coupon
}

// NewMapSet creates a new map-based coupon set.
func NewMapSet(capacity int) Set {
	return &mapSet{
		coupons: make(map[string]model.Coupon, capacity),
	}
}

// Get returns the coupon stored under code.
func (s *mapSet) Get(code string) (model.Coupon, bool) {
	c, ok := s.coupons[code]
	return c, ok
}

// Size returns the number of coupons in the set.
func (s *mapSet) Size() int {
	return len(s.coupons)
}

// All returns every coupon in the set.
func (s *mapSet) All() []model.Coupon {
	out := make([]model.Coupon, 0, len(s.coupons))
	for _, c := range s.coupons {
		out = append(out, c)
	}
	return out
}

// Add stores c, replacing any coupon with the same code.
func (s *mapSet) Add(c model.Coupon) {
	s.coupons[c.Code] = c
}

// NormalizeCode trims and upper-cases a coupon code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ParseRecord parses one coupon record: CODE,TYPE,VALUE[,MIN_PURCHASE].
// TYPE is "percentage" or "fixed".
func ParseRecord(fields []string) (model.Coupon, error) {
	if len(fields) < 3 || len(fields) > 4 {
		return model.Coupon{}, fmt.Errorf("expected 3 or 4 fields, got %d", len(fields))
	}

	code := NormalizeCode(fields[0])
	if code == "" {
		return model.Coupon{}, errors.New("empty coupon code")
	}

	discountType := model.DiscountType(strings.ToLower(strings.TrimSpace(fields[1])))
	if discountType != model.DiscountPercentage && discountType != model.DiscountFixed {
		return model.Coupon{}, fmt.Errorf("unknown discount type %q", fields[1])
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(fields[2]), 64)
	if err != nil || value < 0 {
		return model.Coupon{}, fmt.Errorf("invalid discount value %q", fields[2])
	}
	if discountType == model.DiscountPercentage && value > 100 {
		return model.Coupon{}, fmt.Errorf("percentage discount above 100: %v", value)
	}

	c := model.Coupon{Code: code, DiscountType: discountType, DiscountValue: value}
	if len(fields) == 4 && strings.TrimSpace(fields[3]) != "" {
		min, err := strconv.ParseFloat(strings.TrimSpace(fields[3]), 64)
		if err != nil || min < 0 {
			return model.Coupon{}, fmt.Errorf("invalid minimum purchase %q", fields[3])
		}
		c.MinPurchase = &min
	}
	return c, nil
}

// readSet reads coupon records from r. Blank lines and lines starting with
// '#' are skipped; malformed records are logged and skipped.
func readSet(ctx context.Context, r io.Reader, source string, logger zerolog.Logger) (*mapSet, error) {
	set := NewMapSet(1024).(*mapSet)

	reader := csv.NewReader(r)
	reader.Comment = '#'
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true

	lineCount := 0
	skipped := 0
	for {
		// Check context cancellation periodically
		if lineCount%100_000 == 0 {
			select {
			case <-ctx.Done():
				logger.Warn().Str("source", source).Msg("coupon loading cancelled")
				return nil, ctx.Err()
			default:
			}
		}

		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			logger.Error().Err(err).Str("source", source).Msg("error reading coupon records")
			return nil, fmt.Errorf("error reading coupon records from %s: %w", source, err)
		}
		lineCount++

		if len(fields) == 1 && strings.TrimSpace(fields[0]) == "" {
			continue
		}

		c, err := ParseRecord(fields)
		if err != nil {
			skipped++
			logger.Warn().Err(err).Str("source", source).Int("line", lineCount).Msg("skipping malformed coupon record")
			continue
		}
		set.Add(c)
	}

	logger.Info().
		Str("source", source).
		Int("coupons_loaded", set.Size()).
		Int("records_skipped", skipped).
		Msg("coupon records loaded")

	return set, nil
}
