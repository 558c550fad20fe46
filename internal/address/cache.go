package address

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"checkout-wizard/internal/model"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// DefaultCacheTTL is used when NewCachedLookup receives a non-positive TTL.
const DefaultCacheTTL = 24 * time.Hour

// cachedLookup is a read-through Redis cache in front of another Lookup.
// Redis failures never fail a lookup; they only bypass the cache.
type cachedLookup struct {
	next   Lookup
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewCachedLookup wraps next with a Redis cache. Only found addresses are
// cached.
func NewCachedLookup(next Lookup, client *redis.Client, ttl time.Duration, logger zerolog.Logger) Lookup {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &cachedLookup{
		next:   next,
		client: client,
		ttl:    ttl,
		logger: logger.With().Str("component", "address-cache").Logger(),
	}
}

func (c *cachedLookup) Lookup(ctx context.Context, zipCode string) (*model.AddressLookup, error) {
	zip, err := NormalizeZip(zipCode)
	if err != nil {
		return nil, err
	}

	if addr, err := c.get(ctx, zip); err == nil {
		return addr, nil
	} else if !errors.Is(err, redis.Nil) {
		c.logger.Warn().Err(err).Str("zip_code", zip).Msg("address cache read failed")
	}

	addr, err := c.next.Lookup(ctx, zip)
	if err != nil {
		return nil, err
	}

	if err := c.set(ctx, zip, addr); err != nil {
		c.logger.Warn().Err(err).Str("zip_code", zip).Msg("address cache write failed")
	}
	return addr, nil
}

func (c *cachedLookup) get(ctx context.Context, zip string) (*model.AddressLookup, error) {
	data, err := c.client.Get(ctx, cacheKey(zip)).Bytes()
	if err != nil {
		return nil, err
	}

	var addr model.AddressLookup
	if err := json.Unmarshal(data, &addr); err != nil {
		return nil, fmt.Errorf("unmarshal address failed: %w", err)
	}
	return &addr, nil
}

func (c *cachedLookup) set(ctx context.Context, zip string, addr *model.AddressLookup) error {
	data, err := json.Marshal(addr)
	if err != nil {
		return fmt.Errorf("marshal address failed: %w", err)
	}
	if err := c.client.Set(ctx, cacheKey(zip), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func cacheKey(zip string) string {
	return fmt.Sprintf("address:%s", zip)
}
