package royalexpress

import "github.com/lankaship/courier-gateway/internal/core/domain"

// statusTable maps Royal Express raw order statuses (lower-cased) to the
// canonical vocabulary. Royal distinguishes several returned states; all of
// them normalize to RETURNED so the order workflow can trigger return
// handling. Unlisted statuses normalize to EXCEPTION.
var statusTable = map[string]domain.ShipmentStatus{
	"pending":            domain.StatusPending,
	"driver_assigned":    domain.StatusPending,
	"pickup_complete":    domain.StatusInTransit,
	"at_origin_hub":      domain.StatusInTransit,
	"in_transit":         domain.StatusInTransit,
	"at_destination_hub": domain.StatusInTransit,
	"out_for_delivery":   domain.StatusOutForDelivery,
	"delivered":          domain.StatusDelivered,
	"returned_to_hub":    domain.StatusReturned,
	"returned_to_sender": domain.StatusReturned,
	"return_in_transit":  domain.StatusReturned,
	"failed_delivery":    domain.StatusException,
	"rescheduled":        domain.StatusException,
	"cancelled":          domain.StatusException,
}
