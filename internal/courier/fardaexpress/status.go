package fardaexpress

import "github.com/lankaship/courier-gateway/internal/core/domain"

// statusTable maps Farda's raw scan statuses (lower-cased) to the canonical
// vocabulary. Unlisted statuses normalize to EXCEPTION.
var statusTable = map[string]domain.ShipmentStatus{
	"pending":          domain.StatusPending,
	"pickup requested": domain.StatusPending,
	"picked up":        domain.StatusInTransit,
	"processing":       domain.StatusInTransit,
	"dispatched":       domain.StatusInTransit,
	"in transit":       domain.StatusInTransit,
	"out for delivery": domain.StatusOutForDelivery,
	"delivered":        domain.StatusDelivered,
	"return to client": domain.StatusReturned,
	"returned":         domain.StatusReturned,
	"failed delivery":  domain.StatusException,
	"cancelled":        domain.StatusException,
}
