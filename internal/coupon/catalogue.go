package coupon

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"checkout-wizard/internal/model"

	"github.com/rs/zerolog"
)

// ErrClosed is returned by Find after Close.
var ErrClosed = errors.New("coupon catalogue is closed")

// catalogue implements Catalogue over a merged, read-only coupon set.
type catalogue struct {
	mu      sync.RWMutex
	coupons Set
	logger  zerolog.Logger
}

// CatalogueConfig holds configuration for the coupon catalogue.
type CatalogueConfig struct {
	// FilePaths is the list of coupon files to load. Records in later files
	// replace records with the same code in earlier ones.
	FilePaths []string
}

// BuiltinCoupons is the catalogue used when no coupon files are configured.
func BuiltinCoupons() []model.Coupon {
	minSave50 := 200.0
	return []model.Coupon{
		{Code: "WELCOME10", DiscountType: model.DiscountPercentage, DiscountValue: 10},
		{Code: "SAVE50", DiscountType: model.DiscountFixed, DiscountValue: 50, MinPurchase: &minSave50},
		{Code: "FREESHIP", DiscountType: model.DiscountFixed, DiscountValue: 29.90},
	}
}

// NewStaticCatalogue creates a catalogue holding exactly coupons.
func NewStaticCatalogue(coupons []model.Coupon, logger zerolog.Logger) Catalogue {
	set := NewMapSet(len(coupons)).(*mapSet)
	for _, c := range coupons {
		c.Code = NormalizeCode(c.Code)
		set.Add(c)
	}
	return &catalogue{
		coupons: set,
		logger:  logger.With().Str("component", "coupon-catalogue").Logger(),
	}
}

// NewCatalogue creates a coupon catalogue. It loads all coupon files
// concurrently at initialization time; with no files configured it serves
// BuiltinCoupons.
func NewCatalogue(ctx context.Context, config *CatalogueConfig, loader Loader, logger zerolog.Logger) (Catalogue, error) {
	if config == nil || len(config.FilePaths) == 0 {
		logger.Info().Msg("no coupon files configured, using built-in coupons")
		return NewStaticCatalogue(BuiltinCoupons(), logger), nil
	}

	logger = logger.With().Str("component", "coupon-catalogue").Logger()

	logger.Info().
		Int("file_count", len(config.FilePaths)).
		Msg("initialising coupon catalogue")

	type loadResult struct {
		index int
		set   Set
		err   error
	}

	resultChan := make(chan loadResult, len(config.FilePaths))
	var wg sync.WaitGroup

	for i, filePath := range config.FilePaths {
		wg.Add(1)
		go func(index int, path string) {
			defer wg.Done()

			set, err := loader.Load(ctx, path)
			resultChan <- loadResult{
				index: index,
				set:   set,
				err:   err,
			}
		}(i, filePath)
	}

	wg.Wait()
	close(resultChan)

	// Collect results in file order so overrides are deterministic
	results := make([]loadResult, len(config.FilePaths))
	for result := range resultChan {
		results[result.index] = result
	}

	merged := NewMapSet(0).(*mapSet)
	for i, result := range results {
		if result.err != nil {
			logger.Error().
				Err(result.err).
				Str("file", config.FilePaths[i]).
				Msg("failed to load coupon file")
			return nil, fmt.Errorf("failed to load coupon file %s: %w", config.FilePaths[i], result.err)
		}
		for _, c := range result.set.All() {
			merged.Add(c)
		}
	}

	logger.Info().
		Int("total_coupons", merged.Size()).
		Msg("coupon catalogue initialised successfully")

	return &catalogue{coupons: merged, logger: logger}, nil
}

// Find returns the coupon for code. code is expected to be normalized.
func (c *catalogue) Find(ctx context.Context, code string) (*model.Coupon, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.coupons == nil {
		return nil, ErrClosed
	}
	coupon, ok := c.coupons.Get(code)
	if !ok {
		c.logger.Debug().Str("coupon_code", code).Msg("coupon not in catalogue")
		return nil, ErrNotFound
	}
	return &coupon, nil
}

// Size returns the number of coupons in the catalogue.
func (c *catalogue) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.coupons == nil {
		return 0
	}
	return c.coupons.Size()
}

// Close releases the coupon set.
func (c *catalogue) Close() error {
	c.mu.Lock()
	c.coupons = nil
	c.mu.Unlock()

	c.logger.Info().Msg("coupon catalogue closed")

	return nil
}
