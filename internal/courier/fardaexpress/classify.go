package fardaexpress

import (
	"errors"
	"strings"

	"github.com/lankaship/courier-gateway/internal/core/domain"
	"github.com/lankaship/courier-gateway/internal/core/ports"
	"github.com/lankaship/courier-gateway/internal/courier/courierhttp"
)

// classify turns an upstream failure into a user-actionable CourierError.
// Matching is best-effort substring matching against Farda's known error
// phrasings; wording changes upstream only need fixing here.
func (a *Adapter) classify(err error, req ports.CreateShipmentRequest) error {
	var se *courierhttp.StatusError
	if !errors.As(err, &se) {
		return domain.NewCourierError(providerName, domain.KindTransport, domain.ErrCourierUnavailable,
			"courier unreachable: %v", err)
	}

	body := strings.ToLower(se.Body)
	switch {
	case strings.Contains(body, "rate card"):
		return domain.NewCourierError(providerName, domain.KindRateCard, domain.ErrRateCardMissing,
			"no rate card for %s -> %s; ask Farda Express to configure this city pair",
			req.Origin.City, req.Destination.City)
	case strings.Contains(body, "invalid city"):
		return domain.NewCourierError(providerName, domain.KindValidation, domain.ErrInvalidCity,
			"city %q is not recognized; pick a city from the Farda Express list", req.Destination.City)
	case strings.Contains(body, "duplicate") && strings.Contains(body, "waybill"):
		return domain.NewCourierError(providerName, domain.KindDuplicate, domain.ErrDuplicateWaybill,
			"order reference already used; retry to generate a fresh reference")
	case strings.Contains(body, "invalid client") || strings.Contains(body, "unauthorized") || se.Code == 401:
		return domain.NewCourierError(providerName, domain.KindAuth, domain.ErrCredentialsInvalid,
			"API key or client ID rejected; update the stored Farda Express credentials")
	}

	return domain.NewCourierError(providerName, domain.KindUnclassified, se,
		"booking rejected (status %d)", se.Code)
}
