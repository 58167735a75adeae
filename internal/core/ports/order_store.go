package ports

import (
	"context"
	"time"

	"github.com/lankaship/courier-gateway/internal/core/domain"
)

// OrderShipmentInfo is the slice of an order record this core reads and
// writes: the tracking identifiers issued at booking time and the last
// normalized status observed.
type OrderShipmentInfo struct {
	OrderID        string
	TenantID       string
	Provider       domain.Provider
	ProviderName   string
	TrackingNumber string
	Status         domain.ShipmentStatus
	CreatedAt      time.Time
	LastCheckedAt  time.Time
}

// OrderShippingStore persists shipment identifiers onto order records. The
// store is the external data layer collaborator: tracking info is written
// exactly once per successful booking, status updates as polls observe them.
type OrderShippingStore interface {
	ShipmentInfo(ctx context.Context, tenantID, orderID string) (*OrderShipmentInfo, error)
	SetShipmentInfo(ctx context.Context, info *OrderShipmentInfo) error
	SetTrackingStatus(ctx context.Context, tenantID, orderID string, status domain.ShipmentStatus, checkedAt time.Time) error
	// ListTracked returns orders that have a tracking number and are not yet
	// in a terminal status, for batch refresh.
	ListTracked(ctx context.Context, limit int) ([]*OrderShipmentInfo, error)
}
