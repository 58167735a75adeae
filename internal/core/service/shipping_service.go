package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/lankaship/courier-gateway/internal/core/domain"
	"github.com/lankaship/courier-gateway/internal/core/ports"
	"github.com/lankaship/courier-gateway/internal/metrics"
)

const slPostName = "SL Post"

// ShippingOrchestrator selects the adapter for a provider, supplies
// tenant-scoped credentials, and persists tracking identifiers back onto the
// order record. It implements ports.ShippingService.
type ShippingOrchestrator struct {
	factory ports.AdapterFactory
	tenants ports.TenantConfigStore
	orders  ports.OrderShippingStore
	logger  zerolog.Logger
}

func NewShippingOrchestrator(
	factory ports.AdapterFactory,
	tenants ports.TenantConfigStore,
	orders ports.OrderShippingStore,
	logger zerolog.Logger,
) *ShippingOrchestrator {
	return &ShippingOrchestrator{factory: factory, tenants: tenants, orders: orders, logger: logger}
}

// adapterFor loads the tenant's credentials and builds a fresh adapter.
func (s *ShippingOrchestrator) adapterFor(ctx context.Context, tenantID string, provider domain.Provider) (ports.CourierAdapter, error) {
	cfg, err := s.tenants.CourierConfig(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return s.factory.Adapter(provider, cfg)
}

// CreateShipment books a parcel and persists the tracking identifiers. The
// booking is not idempotent: each call creates a new shipment with the
// courier, so callers must not double-submit. A failed booking leaves the
// order untouched.
func (s *ShippingOrchestrator) CreateShipment(ctx context.Context, input ports.CreateShipmentInput) (*domain.ShippingLabel, error) {
	cfg, err := s.tenants.CourierConfig(ctx, input.TenantID)
	if err != nil {
		return nil, err
	}
	adapter, err := s.factory.Adapter(input.Provider, cfg)
	if err != nil {
		return nil, err
	}

	label, err := adapter.CreateShipment(ctx, ports.CreateShipmentRequest{
		Origin:      input.Origin,
		Destination: input.Destination,
		Package:     input.Package.WithDefaultDimensions(),
		Service:     input.Service,
		CODAmount:   domain.CODAmount(input.UnitPrice, input.Quantity, input.Discount),
		TenantID:    input.TenantID,
		OrderID:     input.OrderID,
		OrderPrefix: cfg.OrderPrefix,
	})
	if err != nil {
		metrics.BookingErrorsTotal.WithLabelValues(string(input.Provider), string(domain.KindOf(err))).Inc()
		s.logger.Error().Err(err).
			Str("tenant_id", input.TenantID).
			Str("order_id", input.OrderID).
			Str("provider", string(input.Provider)).
			Msg("shipment booking failed")
		return nil, err
	}

	now := time.Now().UTC()
	info := &ports.OrderShipmentInfo{
		OrderID:        input.OrderID,
		TenantID:       input.TenantID,
		Provider:       input.Provider,
		ProviderName:   label.Provider,
		TrackingNumber: label.TrackingNumber,
		Status:         domain.StatusPending,
		CreatedAt:      now,
		LastCheckedAt:  now,
	}
	if err := s.orders.SetShipmentInfo(ctx, info); err != nil {
		// The parcel IS booked at this point; surface the tracking number in
		// the error so the operator can attach it manually.
		s.logger.Error().Err(err).
			Str("tracking_number", label.TrackingNumber).
			Str("order_id", input.OrderID).
			Msg("booking succeeded but tracking persistence failed")
		return nil, err
	}

	metrics.ShipmentsCreatedTotal.WithLabelValues(string(input.Provider)).Inc()
	s.logger.Info().
		Str("tenant_id", input.TenantID).
		Str("order_id", input.OrderID).
		Str("tracking_number", label.TrackingNumber).
		Str("provider", label.Provider).
		Msg("shipment created")

	return label, nil
}

// RecordManualTracking stores a user-entered SL Post tracking number. SL Post
// has no API; whatever the user typed is recorded as-is.
func (s *ShippingOrchestrator) RecordManualTracking(ctx context.Context, tenantID, orderID, trackingNumber string) error {
	trackingNumber = strings.TrimSpace(trackingNumber)
	if trackingNumber == "" {
		return domain.ErrEmptyTrackingNumber
	}

	now := time.Now().UTC()
	err := s.orders.SetShipmentInfo(ctx, &ports.OrderShipmentInfo{
		OrderID:        orderID,
		TenantID:       tenantID,
		Provider:       domain.SLPost,
		ProviderName:   slPostName,
		TrackingNumber: trackingNumber,
		Status:         domain.StatusPending,
		CreatedAt:      now,
		LastCheckedAt:  now,
	})
	if err != nil {
		return err
	}

	s.logger.Info().
		Str("tenant_id", tenantID).
		Str("order_id", orderID).
		Str("tracking_number", trackingNumber).
		Msg("manual tracking number recorded")
	return nil
}

// TrackOrder polls the courier for the order's current status. SL Post
// shipments have nothing to poll and report PENDING.
func (s *ShippingOrchestrator) TrackOrder(ctx context.Context, tenantID, orderID string) (*ports.TrackOrderResult, error) {
	info, err := s.orders.ShipmentInfo(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}

	result := &ports.TrackOrderResult{
		OrderID:        info.OrderID,
		Provider:       info.Provider,
		ProviderName:   info.ProviderName,
		TrackingNumber: info.TrackingNumber,
		Status:         domain.StatusPending,
	}

	if info.Provider == domain.SLPost {
		return result, nil
	}

	adapter, err := s.adapterFor(ctx, tenantID, info.Provider)
	if err != nil {
		return nil, err
	}

	status, err := adapter.TrackShipment(ctx, info.TrackingNumber)
	if err != nil {
		// Adapters degrade internally; an error here is a programming bug,
		// but tracking stays advisory either way.
		s.logger.Warn().Err(err).Str("order_id", orderID).Msg("tracking returned error, treating as pending")
		status = domain.StatusPending
	}

	metrics.TrackingChecksTotal.WithLabelValues(string(info.Provider), string(status)).Inc()
	result.Status = status
	result.TrackingURL = adapter.TrackingURL(info.TrackingNumber)
	return result, nil
}

// RefreshOrderStatus polls the order's status and persists it.
func (s *ShippingOrchestrator) RefreshOrderStatus(ctx context.Context, tenantID, orderID string) error {
	result, err := s.TrackOrder(ctx, tenantID, orderID)
	if err != nil {
		return err
	}
	return s.orders.SetTrackingStatus(ctx, tenantID, orderID, result.Status, time.Now().UTC())
}

// GetRates quotes the provider's service tiers for a route.
func (s *ShippingOrchestrator) GetRates(ctx context.Context, input ports.GetRatesInput) ([]domain.ShippingRate, error) {
	adapter, err := s.adapterFor(ctx, input.TenantID, input.Provider)
	if err != nil {
		return nil, err
	}
	return adapter.GetRates(ctx, input.Origin, input.Destination, input.Package)
}

// Districts lists a provider's top-level regions for shipment forms.
func (s *ShippingOrchestrator) Districts(ctx context.Context, tenantID string, provider domain.Provider) ([]string, error) {
	adapter, err := s.adapterFor(ctx, tenantID, provider)
	if err != nil {
		return nil, err
	}
	return adapter.Districts(ctx)
}

// CitiesByDistrict lists a provider's cities for a district.
func (s *ShippingOrchestrator) CitiesByDistrict(ctx context.Context, tenantID string, provider domain.Provider, district string) ([]domain.City, error) {
	adapter, err := s.adapterFor(ctx, tenantID, provider)
	if err != nil {
		return nil, err
	}
	return adapter.Cities(ctx, district)
}

var _ ports.ShippingService = (*ShippingOrchestrator)(nil)
