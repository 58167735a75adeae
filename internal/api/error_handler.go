package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/lankaship/courier-gateway/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Surfaces courier classification messages verbatim so staff can act on
//     them (e.g. which city pair is missing a rate card).
//   - Logs unexpected errors internally without leaking details to the client.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Courier booking failures carry an actionable message built by the
	// adapter's classifier; pass it through with a code per error kind.
	var ce *domain.CourierError
	if errors.As(err, &ce) {
		return courierErrorCode(ce), ce.Error()
	}

	switch {
	case errors.Is(err, domain.ErrOrderNotFound):
		return http.StatusNotFound, "order has no shipment record"
	case errors.Is(err, domain.ErrUnknownProvider):
		return http.StatusBadRequest, "unknown shipping provider"
	case errors.Is(err, domain.ErrManualProvider):
		return http.StatusBadRequest, "provider has no API integration; record the tracking number manually"
	case errors.Is(err, domain.ErrEmptyTrackingNumber):
		return http.StatusBadRequest, "tracking number must not be empty"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}

func courierErrorCode(ce *domain.CourierError) int {
	switch ce.Kind {
	case domain.KindValidation, domain.KindRateCard, domain.KindInvalidMerchant:
		return http.StatusUnprocessableEntity
	case domain.KindDuplicate:
		return http.StatusConflict
	case domain.KindAuth:
		// The courier rejected the tenant's stored credentials. Not a 401:
		// the caller's own JWT was fine, the courier settings need fixing.
		return http.StatusUnprocessableEntity
	case domain.KindTransport:
		return http.StatusBadGateway
	default:
		return http.StatusBadGateway
	}
}
