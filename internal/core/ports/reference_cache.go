package ports

import (
	"context"

	"github.com/lankaship/courier-gateway/internal/core/domain"
)

// ReferenceCache caches courier location reference data, which is effectively
// static. Adapters consult it before hitting the courier's reference-data
// endpoints. A nil cache is valid; adapters then keep an instance-local map
// only. Cache failures are never fatal: a miss is returned instead.
type ReferenceCache interface {
	Districts(ctx context.Context, provider domain.Provider) ([]string, bool)
	SetDistricts(ctx context.Context, provider domain.Provider, districts []string)
	Cities(ctx context.Context, provider domain.Provider, district string) ([]domain.City, bool)
	SetCities(ctx context.Context, provider domain.Provider, district string, cities []domain.City)
}
