package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lankaship/courier-gateway/internal/core/domain"
	"github.com/lankaship/courier-gateway/internal/core/ports"
)

// LocationHandler serves courier location directories for shipment forms.
// City IDs are provider-scoped and must never be mixed between couriers.
type LocationHandler struct {
	service ports.ShippingService
}

func NewLocationHandler(service ports.ShippingService) *LocationHandler {
	return &LocationHandler{service: service}
}

// Districts handles GET /v1/locations/:provider/districts.
func (h *LocationHandler) Districts(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	provider, err := domain.ParseProvider(c.Param("provider"))
	if err != nil {
		return err
	}

	districts, err := h.service.Districts(c.Request().Context(), claims.TenantID, provider)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, districtsResponse{
		Provider:  string(provider),
		Districts: districts,
	})
}

// Cities handles GET /v1/locations/:provider/cities?district=<name>.
func (h *LocationHandler) Cities(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	provider, err := domain.ParseProvider(c.Param("provider"))
	if err != nil {
		return err
	}

	district := c.QueryParam("district")
	if district == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "district query parameter is required")
	}

	cities, err := h.service.CitiesByDistrict(c.Request().Context(), claims.TenantID, provider, district)
	if err != nil {
		return err
	}

	resp := citiesResponse{
		Provider: string(provider),
		District: district,
		Cities:   make([]cityResponse, 0, len(cities)),
	}
	for _, city := range cities {
		resp.Cities = append(resp.Cities, cityResponse{
			ID:       city.ID,
			Name:     city.Name,
			District: city.District,
		})
	}
	return c.JSON(http.StatusOK, resp)
}
