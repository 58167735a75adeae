package domain

import "strings"

// ShipmentStatus is the canonical internal status vocabulary. Every adapter
// normalizes its courier's raw statuses into this enumeration.
//
// RETURNED is kept distinct from EXCEPTION so the order workflow can trigger
// return handling (stock restoration) without manual triage.
type ShipmentStatus string

const (
	StatusPending        ShipmentStatus = "PENDING"
	StatusInTransit      ShipmentStatus = "IN_TRANSIT"
	StatusOutForDelivery ShipmentStatus = "OUT_FOR_DELIVERY"
	StatusDelivered      ShipmentStatus = "DELIVERED"
	StatusReturned       ShipmentStatus = "RETURNED"
	StatusException      ShipmentStatus = "EXCEPTION"
)

// Provider identifies a courier integration. SLPost has no adapter: the UI
// records a manually entered tracking number.
type Provider string

const (
	FardaExpress Provider = "FARDA_EXPRESS"
	TransExpress Provider = "TRANS_EXPRESS"
	RoyalExpress Provider = "ROYAL_EXPRESS"
	SLPost       Provider = "SL_POST"
)

// ParseProvider converts a wire string into a Provider.
func ParseProvider(s string) (Provider, error) {
	switch Provider(strings.ToUpper(strings.TrimSpace(s))) {
	case FardaExpress:
		return FardaExpress, nil
	case TransExpress:
		return TransExpress, nil
	case RoyalExpress:
		return RoyalExpress, nil
	case SLPost:
		return SLPost, nil
	}
	return "", ErrUnknownProvider
}

// NormalizeStatus applies a provider status table to a raw courier status.
// Matching is case- and whitespace-insensitive. Unrecognized raw statuses map
// to EXCEPTION, never to an error.
func NormalizeStatus(table map[string]ShipmentStatus, raw string) ShipmentStatus {
	key := strings.ToLower(strings.TrimSpace(raw))
	if status, ok := table[key]; ok {
		return status
	}
	return StatusException
}
