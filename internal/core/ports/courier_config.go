package ports

import (
	"context"

	"github.com/lankaship/courier-gateway/internal/core/domain"
)

// TenantCourierConfig is the opaque per-tenant credential bundle owned by the
// tenant settings subsystem. The shipping core consumes it read-only as
// adapter constructor input and never mutates it.
type TenantCourierConfig struct {
	TenantID string

	FardaAPIKey   string
	FardaClientID string

	TransAPIKey string

	// RoyalCredentials is the combined "email:password" merchant login pair.
	RoyalCredentials string
	RoyalTenant      string

	// OrderPrefix is an optional prefix applied to generated order references.
	OrderPrefix string
}

// TenantConfigStore reads tenant courier credentials. Implemented by the
// surrounding application's settings storage.
type TenantConfigStore interface {
	CourierConfig(ctx context.Context, tenantID string) (*TenantCourierConfig, error)
}

// AdapterFactory builds a courier adapter for a provider using tenant-scoped
// credentials. One adapter instance per call; the session-login provider
// caches its token per instance, so instances must not be shared across
// concurrent requests.
type AdapterFactory interface {
	Adapter(provider domain.Provider, cfg *TenantCourierConfig) (CourierAdapter, error)
}
