package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/lankaship/courier-gateway/internal/core/domain"
	"github.com/lankaship/courier-gateway/internal/core/ports"
)

// Courier location directories change rarely; a day-long TTL keeps the
// upstream reference endpoints nearly idle.
const locationTTL = 24 * time.Hour

// LocationCache caches courier district and city directories in Redis. It
// implements ports.ReferenceCache. All failures degrade to a cache miss.
//
// Key format:
//
//	locations:<provider>:districts
//	locations:<provider>:cities:<district>
type LocationCache struct {
	client *redis.Client
	log    zerolog.Logger
}

func NewLocationCache(client *redis.Client, log zerolog.Logger) *LocationCache {
	return &LocationCache{client: client, log: log}
}

func (c *LocationCache) Districts(ctx context.Context, provider domain.Provider) ([]string, bool) {
	var districts []string
	if !c.get(ctx, districtsKey(provider), &districts) {
		return nil, false
	}
	return districts, true
}

func (c *LocationCache) SetDistricts(ctx context.Context, provider domain.Provider, districts []string) {
	c.set(ctx, districtsKey(provider), districts)
}

func (c *LocationCache) Cities(ctx context.Context, provider domain.Provider, district string) ([]domain.City, bool) {
	var cities []domain.City
	if !c.get(ctx, citiesKey(provider, district), &cities) {
		return nil, false
	}
	return cities, true
}

func (c *LocationCache) SetCities(ctx context.Context, provider domain.Provider, district string, cities []domain.City) {
	c.set(ctx, citiesKey(provider, district), cities)
}

func (c *LocationCache) get(ctx context.Context, key string, dest any) bool {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn().Err(err).Str("key", key).Msg("location cache read failed")
		}
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("location cache entry corrupt")
		return false
	}
	return true
}

func (c *LocationCache) set(ctx context.Context, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, raw, locationTTL).Err(); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("location cache write failed")
	}
}

func districtsKey(provider domain.Provider) string {
	return fmt.Sprintf("locations:%s:districts", provider)
}

func citiesKey(provider domain.Provider, district string) string {
	return fmt.Sprintf("locations:%s:cities:%s", provider, strings.ToLower(district))
}

var _ ports.ReferenceCache = (*LocationCache)(nil)
