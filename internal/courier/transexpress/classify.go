package transexpress

import (
	"errors"
	"strings"

	"github.com/lankaship/courier-gateway/internal/core/domain"
	"github.com/lankaship/courier-gateway/internal/core/ports"
	"github.com/lankaship/courier-gateway/internal/courier/courierhttp"
)

// classify turns an upstream failure into a user-actionable CourierError.
// Trans Express reports validation failures as field-path strings (e.g.
// "rate_card.destination_city_id"); matching is best-effort substrings.
func (a *Adapter) classify(err error, req ports.CreateShipmentRequest) error {
	var se *courierhttp.StatusError
	if !errors.As(err, &se) {
		return domain.NewCourierError(providerName, domain.KindTransport, domain.ErrCourierUnavailable,
			"courier unreachable: %v", err)
	}

	body := strings.ToLower(se.Body)
	switch {
	case strings.Contains(body, "rate_card"):
		return domain.NewCourierError(providerName, domain.KindRateCard, domain.ErrRateCardMissing,
			"no rate card for %s -> %s; ask Trans Express to configure this city pair",
			req.Origin.City, req.Destination.City)
	case strings.Contains(body, "city_id") || strings.Contains(body, "invalid city"):
		return domain.NewCourierError(providerName, domain.KindValidation, domain.ErrInvalidCity,
			"city %q is not recognized; pick a city from the Trans Express list", req.Destination.City)
	case strings.Contains(body, "waybill") && (strings.Contains(body, "taken") || strings.Contains(body, "already")):
		return domain.NewCourierError(providerName, domain.KindDuplicate, domain.ErrDuplicateWaybill,
			"order reference already used; retry to generate a fresh reference")
	case se.Code == 401 || strings.Contains(body, "unauthenticated"):
		return domain.NewCourierError(providerName, domain.KindAuth, domain.ErrCredentialsInvalid,
			"bearer token rejected; update the stored Trans Express API token")
	}

	return domain.NewCourierError(providerName, domain.KindUnclassified, se,
		"booking rejected (status %d)", se.Code)
}
