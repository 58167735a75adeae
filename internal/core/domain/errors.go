package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors matched with errors.Is across the module.
var (
	ErrUnknownProvider     = errors.New("unknown shipping provider")
	ErrManualProvider      = errors.New("provider requires a manually entered tracking number")
	ErrOrderNotFound       = errors.New("order shipment record not found")
	ErrCredentialsInvalid  = errors.New("courier credentials invalid or expired")
	ErrRateCardMissing     = errors.New("no rate card configured for this city pair")
	ErrInvalidCity         = errors.New("destination city not recognized by courier")
	ErrInvalidState        = errors.New("destination state not recognized by courier")
	ErrDuplicateWaybill    = errors.New("waybill number already used with courier")
	ErrInvalidMerchant     = errors.New("merchant/business id not recognized by courier")
	ErrCourierUnavailable  = errors.New("courier service unavailable")
	ErrEmptyTrackingNumber = errors.New("courier response contained no tracking number")
)

// ErrorKind labels the classification applied to an upstream courier failure.
type ErrorKind string

const (
	KindAuth            ErrorKind = "auth"
	KindValidation      ErrorKind = "validation"
	KindRateCard        ErrorKind = "rate_card"
	KindDuplicate       ErrorKind = "duplicate_waybill"
	KindInvalidMerchant ErrorKind = "invalid_merchant"
	KindTransport       ErrorKind = "transport"
	KindUnclassified    ErrorKind = "unclassified"
)

// CourierError wraps an upstream failure with the provider name, a
// classification kind, and a human-actionable message. The classification is
// best-effort substring matching against known upstream phrasings; callers
// must treat any error from shipment creation as "shipment was not created".
type CourierError struct {
	Provider string
	Kind     ErrorKind
	Message  string
	Err      error
}

func (e *CourierError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Provider, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Provider, e.Err)
	}
	return e.Provider + ": courier request failed"
}

func (e *CourierError) Unwrap() error { return e.Err }

// NewCourierError builds a CourierError wrapping err.
func NewCourierError(provider string, kind ErrorKind, err error, format string, args ...any) *CourierError {
	return &CourierError{
		Provider: provider,
		Kind:     kind,
		Message:  fmt.Sprintf(format, args...),
		Err:      err,
	}
}

// KindOf extracts the classification of err, or KindUnclassified when err is
// not a CourierError.
func KindOf(err error) ErrorKind {
	var ce *CourierError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindUnclassified
}
