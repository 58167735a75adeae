package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/lankaship/courier-gateway/internal/core/domain"
)

// CreateShipmentRequest carries everything an adapter needs to book a parcel.
// TenantID/OrderID feed the generated courier order reference; when either is
// missing the adapter falls back to a random reference.
type CreateShipmentRequest struct {
	Origin      domain.ShippingAddress
	Destination domain.ShippingAddress
	Package     domain.PackageDetails
	Service     string
	CODAmount   decimal.Decimal
	TenantID    string
	OrderID     string
	OrderPrefix string
}

// ShippingProvider is the uniform contract every courier adapter implements.
//
// CreateShipment fails loudly: money and inventory commitments depend on it,
// and each call books a new shipment with the courier (no idempotency, no
// automatic retries). TrackShipment is advisory: on any transport or parsing
// failure it degrades to StatusPending with a nil error so caller flows (UI
// polling, batch refresh) are never blocked.
type ShippingProvider interface {
	// Name returns the stable human-readable provider name stored alongside
	// the tracking number.
	Name() string

	// GetRates returns the available service tiers for a route. Rates may be
	// static. For valid input it never fails; an empty slice means no rate is
	// computable.
	GetRates(ctx context.Context, origin, destination domain.ShippingAddress, pkg domain.PackageDetails) ([]domain.ShippingRate, error)

	// CreateShipment books a parcel and returns a label whose TrackingNumber
	// is guaranteed non-empty. Any response lacking an extractable tracking
	// number is an error, never an empty label.
	CreateShipment(ctx context.Context, req CreateShipmentRequest) (*domain.ShippingLabel, error)

	// TrackShipment returns the current normalized status of a waybill.
	TrackShipment(ctx context.Context, trackingNumber string) (domain.ShipmentStatus, error)

	// TrackingURL builds the public tracking page URL. Pure and deterministic.
	TrackingURL(trackingNumber string) string
}

// LocationDirectory exposes a provider's region/city reference data. Lookups
// degrade to hardcoded fallbacks on upstream failure so shipment forms remain
// usable when the courier's reference endpoint is down.
type LocationDirectory interface {
	// Districts enumerates the provider's top-level regions.
	Districts(ctx context.Context) ([]string, error)

	// Cities lists the provider's cities for a district, with the provider's
	// own numeric IDs. IDs are not interchangeable between providers.
	Cities(ctx context.Context, district string) ([]domain.City, error)
}

// CourierAdapter is the full per-provider surface: booking/tracking plus the
// provider's location directory.
type CourierAdapter interface {
	ShippingProvider
	LocationDirectory
}
