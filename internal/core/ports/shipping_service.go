package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/lankaship/courier-gateway/internal/core/domain"
)

// CreateShipmentInput is the orchestrator-level booking request built by the
// transport layer from order data and the caller's form input.
type CreateShipmentInput struct {
	TenantID    string
	OrderID     string
	Provider    domain.Provider
	Origin      domain.ShippingAddress
	Destination domain.ShippingAddress
	Package     domain.PackageDetails
	Service     string
	UnitPrice   decimal.Decimal
	Quantity    int
	Discount    decimal.Decimal
}

// GetRatesInput carries the parameters for a rate quote.
type GetRatesInput struct {
	TenantID    string
	Provider    domain.Provider
	Origin      domain.ShippingAddress
	Destination domain.ShippingAddress
	Package     domain.PackageDetails
}

// TrackOrderResult pairs an order's stored shipment identifiers with its
// freshly polled status.
type TrackOrderResult struct {
	OrderID        string
	Provider       domain.Provider
	ProviderName   string
	TrackingNumber string
	Status         domain.ShipmentStatus
	TrackingURL    string
}

// ShippingService is the orchestration surface consumed by the API layer and
// the tracking refresh workers.
type ShippingService interface {
	// CreateShipment books a parcel with the selected provider and persists
	// the resulting tracking identifiers onto the order record.
	CreateShipment(ctx context.Context, input CreateShipmentInput) (*domain.ShippingLabel, error)

	// RecordManualTracking stores a user-entered tracking number for SL Post
	// shipments, which have no API integration.
	RecordManualTracking(ctx context.Context, tenantID, orderID, trackingNumber string) error

	// TrackOrder polls the courier for the order's current status.
	TrackOrder(ctx context.Context, tenantID, orderID string) (*TrackOrderResult, error)

	// RefreshOrderStatus polls and persists the order's latest status.
	RefreshOrderStatus(ctx context.Context, tenantID, orderID string) error

	// GetRates quotes the provider's service tiers for a route.
	GetRates(ctx context.Context, input GetRatesInput) ([]domain.ShippingRate, error)

	// Districts and CitiesByDistrict expose the provider's location directory
	// for shipment forms.
	Districts(ctx context.Context, tenantID string, provider domain.Provider) ([]string, error)
	CitiesByDistrict(ctx context.Context, tenantID string, provider domain.Provider, district string) ([]domain.City, error)
}
