package handler

import (
	"github.com/shopspring/decimal"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

type addressRequest struct {
	Name           string `json:"name"            validate:"required"`
	Street         string `json:"street"          validate:"required"`
	City           string `json:"city"            validate:"required"`
	State          string `json:"state"`
	PostalCode     string `json:"postal_code"`
	Country        string `json:"country"`
	Phone          string `json:"phone"           validate:"required"`
	AlternatePhone string `json:"alternate_phone"`
}

type packageRequest struct {
	WeightKg    float64 `json:"weight_kg" validate:"required,gt=0"`
	LengthCm    float64 `json:"length_cm" validate:"omitempty,gt=0"`
	WidthCm     float64 `json:"width_cm"  validate:"omitempty,gt=0"`
	HeightCm    float64 `json:"height_cm" validate:"omitempty,gt=0"`
	Description string  `json:"description"`
}

type createShipmentRequest struct {
	OrderID     string          `json:"order_id"    validate:"required"`
	Provider    string          `json:"provider"    validate:"required,courier"`
	Origin      addressRequest  `json:"origin"      validate:"required"`
	Destination addressRequest  `json:"destination" validate:"required"`
	Package     packageRequest  `json:"package"     validate:"required"`
	Service     string          `json:"service"     validate:"omitempty,oneof=standard express"`
	UnitPrice   decimal.Decimal `json:"unit_price"  validate:"required"`
	Quantity    int             `json:"quantity"    validate:"required,gt=0"`
	Discount    decimal.Decimal `json:"discount"`
}

type createShipmentResponse struct {
	TrackingNumber string `json:"tracking_number"`
	Provider       string `json:"provider"`
	LabelURL       string `json:"label_url,omitempty"`
	Status         string `json:"status"`
}

type manualTrackingRequest struct {
	OrderID        string `json:"order_id"        validate:"required"`
	TrackingNumber string `json:"tracking_number" validate:"required"`
}

type shipmentStatusResponse struct {
	OrderID        string `json:"order_id"`
	Provider       string `json:"provider"`
	ProviderName   string `json:"provider_name"`
	TrackingNumber string `json:"tracking_number"`
	Status         string `json:"status"`
	TrackingURL    string `json:"tracking_url,omitempty"`
}

type trackingURLResponse struct {
	OrderID     string `json:"order_id"`
	TrackingURL string `json:"tracking_url"`
}

type getRatesRequest struct {
	Provider    string         `json:"provider"    validate:"required,courier"`
	Origin      addressRequest `json:"origin"`
	Destination addressRequest `json:"destination" validate:"required"`
	Package     packageRequest `json:"package"     validate:"required"`
}

type rateResponse struct {
	Provider      string          `json:"provider"`
	Service       string          `json:"service"`
	Rate          decimal.Decimal `json:"rate"`
	Currency      string          `json:"currency"`
	EstimatedDays int             `json:"estimated_days"`
}

type districtsResponse struct {
	Provider  string   `json:"provider"`
	Districts []string `json:"districts"`
}

type cityResponse struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	District string `json:"district"`
}

type citiesResponse struct {
	Provider string         `json:"provider"`
	District string         `json:"district"`
	Cities   []cityResponse `json:"cities"`
}
