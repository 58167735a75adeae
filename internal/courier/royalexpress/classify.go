package royalexpress

import (
	"errors"
	"strings"

	"github.com/lankaship/courier-gateway/internal/core/domain"
	"github.com/lankaship/courier-gateway/internal/core/ports"
	"github.com/lankaship/courier-gateway/internal/courier/courierhttp"
)

// classify turns an upstream failure into a user-actionable CourierError.
// Matching is best-effort substrings against Royal's known error phrasings.
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
			"no rate card for %s -> %s; ask Royal Express to configure this city pair",
			req.Origin.City, req.Destination.City)
	case strings.Contains(body, "invalid state"):
		return domain.NewCourierError(providerName, domain.KindValidation, domain.ErrInvalidState,
			"state %q is not accepted; use a state from the Royal Express list", req.Destination.State)
	case strings.Contains(body, "invalid city"):
		return domain.NewCourierError(providerName, domain.KindValidation, domain.ErrInvalidCity,
			"city %q is not recognized; pick a city from the Royal Express list", req.Destination.City)
	case strings.Contains(body, "merchant_business_id") || strings.Contains(body, "invalid business"):
		return domain.NewCourierError(providerName, domain.KindInvalidMerchant, domain.ErrInvalidMerchant,
			"merchant business not accepted; verify the Royal Express account setup")
	case strings.Contains(body, "waybill") && strings.Contains(body, "duplicate"):
		return domain.NewCourierError(providerName, domain.KindDuplicate, domain.ErrDuplicateWaybill,
			"order reference already used; retry to generate a fresh reference")
	case se.Code == 401 || strings.Contains(body, "unauthenticated"):
		return domain.NewCourierError(providerName, domain.KindAuth, domain.ErrCredentialsInvalid,
			"merchant session rejected; the next attempt will log in again")
	}

	return domain.NewCourierError(providerName, domain.KindUnclassified, se,
		"booking rejected (status %d)", se.Code)
}
