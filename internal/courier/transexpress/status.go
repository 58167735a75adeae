package transexpress

import "github.com/lankaship/courier-gateway/internal/core/domain"

// statusTable maps Trans Express raw statuses (lower-cased) to the canonical
// vocabulary. Unlisted statuses normalize to EXCEPTION.
var statusTable = map[string]domain.ShipmentStatus{
	"order_placed":     domain.StatusPending,
	"pickup_scheduled": domain.StatusPending,
	"picked_up":        domain.StatusInTransit,
	"at_warehouse":     domain.StatusInTransit,
	"in_transit":       domain.StatusInTransit,
	"out_for_delivery": domain.StatusOutForDelivery,
	"delivered":        domain.StatusDelivered,
	"returned":         domain.StatusReturned,
	"return_to_seller": domain.StatusReturned,
	"on_hold":          domain.StatusException,
	"cancelled":        domain.StatusException,
}
