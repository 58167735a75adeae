package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lankaship/courier-gateway/internal/core/domain"
	"github.com/lankaship/courier-gateway/internal/core/ports"
)

// ShippingHandler handles HTTP requests for shipment booking and tracking.
type ShippingHandler struct {
	service ports.ShippingService
}

func NewShippingHandler(service ports.ShippingService) *ShippingHandler {
	return &ShippingHandler{service: service}
}

// Create handles POST /v1/shipments. It books a parcel with the selected
// courier and returns the issued tracking number. Booking is not retried on
// failure; the caller decides whether to resubmit.
func (h *ShippingHandler) Create(c echo.Context) error {
	var req createShipmentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	provider, err := domain.ParseProvider(req.Provider)
	if err != nil {
		return err
	}

	label, err := h.service.CreateShipment(c.Request().Context(), ports.CreateShipmentInput{
		TenantID:    claims.TenantID,
		OrderID:     req.OrderID,
		Provider:    provider,
		Origin:      toAddress(req.Origin),
		Destination: toAddress(req.Destination),
		Package: domain.PackageDetails{
			WeightKg:    req.Package.WeightKg,
			LengthCm:    req.Package.LengthCm,
			WidthCm:     req.Package.WidthCm,
			HeightCm:    req.Package.HeightCm,
			Description: req.Package.Description,
		},
		Service:   req.Service,
		UnitPrice: req.UnitPrice,
		Quantity:  req.Quantity,
		Discount:  req.Discount,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, createShipmentResponse{
		TrackingNumber: label.TrackingNumber,
		Provider:       label.Provider,
		LabelURL:       label.LabelURL,
		Status:         string(domain.StatusPending),
	})
}

// RecordManual handles POST /v1/shipments/manual. SL Post shipments have no
// API; the user-entered tracking number is stored as typed.
func (h *ShippingHandler) RecordManual(c echo.Context) error {
	var req manualTrackingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	if err := h.service.RecordManualTracking(c.Request().Context(), claims.TenantID, req.OrderID, req.TrackingNumber); err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, shipmentStatusResponse{
		OrderID:        req.OrderID,
		Provider:       string(domain.SLPost),
		ProviderName:   "SL Post",
		TrackingNumber: req.TrackingNumber,
		Status:         string(domain.StatusPending),
	})
}

// Status handles GET /v1/shipments/:order_id/status. The courier is polled
// live; tracking failures degrade to PENDING rather than erroring.
func (h *ShippingHandler) Status(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	result, err := h.service.TrackOrder(c.Request().Context(), claims.TenantID, c.Param("order_id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, shipmentStatusResponse{
		OrderID:        result.OrderID,
		Provider:       string(result.Provider),
		ProviderName:   result.ProviderName,
		TrackingNumber: result.TrackingNumber,
		Status:         string(result.Status),
		TrackingURL:    result.TrackingURL,
	})
}

// TrackingURL handles GET /v1/shipments/:order_id/tracking-url. Building the
// URL needs no upstream call, so this stays fast even when the courier is down.
func (h *ShippingHandler) TrackingURL(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	result, err := h.service.TrackOrder(c.Request().Context(), claims.TenantID, c.Param("order_id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, trackingURLResponse{
		OrderID:     result.OrderID,
		TrackingURL: result.TrackingURL,
	})
}

// Rates handles POST /v1/rates.
func (h *ShippingHandler) Rates(c echo.Context) error {
	var req getRatesRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	provider, err := domain.ParseProvider(req.Provider)
	if err != nil {
		return err
	}

	rates, err := h.service.GetRates(c.Request().Context(), ports.GetRatesInput{
		TenantID:    claims.TenantID,
		Provider:    provider,
		Origin:      toAddress(req.Origin),
		Destination: toAddress(req.Destination),
		Package: domain.PackageDetails{
			WeightKg: req.Package.WeightKg,
			LengthCm: req.Package.LengthCm,
			WidthCm:  req.Package.WidthCm,
			HeightCm: req.Package.HeightCm,
		},
	})
	if err != nil {
		return err
	}

	resp := make([]rateResponse, 0, len(rates))
	for _, r := range rates {
		resp = append(resp, rateResponse{
			Provider:      r.Provider,
			Service:       r.Service,
			Rate:          r.Rate,
			Currency:      "LKR",
			EstimatedDays: r.EstimatedDays,
		})
	}
	return c.JSON(http.StatusOK, resp)
}

func toAddress(req addressRequest) domain.ShippingAddress {
	country := req.Country
	if country == "" {
		country = "LK"
	}
	return domain.ShippingAddress{
		Name:           req.Name,
		Street:         req.Street,
		City:           req.City,
		State:          req.State,
		PostalCode:     req.PostalCode,
		Country:        country,
		Phone:          req.Phone,
		AlternatePhone: req.AlternatePhone,
	}
}
