package domain

import (
	"crypto/rand"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ShippingAddress represents either the warehouse/origin or the customer
// destination of a shipment. Country is always "LK" in this deployment.
type ShippingAddress struct {
	Name           string `json:"name"`
	Street         string `json:"street"`
	City           string `json:"city"`
	State          string `json:"state"`
	PostalCode     string `json:"postal_code"`
	Country        string `json:"country"`
	Phone          string `json:"phone"`
	AlternatePhone string `json:"alternate_phone,omitempty"`
}

// PackageDetails describes the parcel being shipped. The local couriers price
// by weight and zone, so dimensions are usually left at caller defaults.
type PackageDetails struct {
	WeightKg    float64 `json:"weight_kg"`
	LengthCm    float64 `json:"length_cm"`
	WidthCm     float64 `json:"width_cm"`
	HeightCm    float64 `json:"height_cm"`
	Description string  `json:"description,omitempty"`
}

// WithDefaultDimensions fills zero dimensions with 10x10x10 cm.
func (p PackageDetails) WithDefaultDimensions() PackageDetails {
	if p.LengthCm <= 0 {
		p.LengthCm = 10
	}
	if p.WidthCm <= 0 {
		p.WidthCm = 10
	}
	if p.HeightCm <= 0 {
		p.HeightCm = 10
	}
	return p
}

// ShippingRate is a quoted service tier. Rates are static per provider until
// live rate-card integration lands; treat them as quotes, not commitments.
type ShippingRate struct {
	Provider      string          `json:"provider"`
	Service       string          `json:"service"`
	Rate          decimal.Decimal `json:"rate"`
	EstimatedDays int             `json:"estimated_days"`
}

// ShippingLabel is the durable result of a successful booking. TrackingNumber
// is the only field with cross-system significance; it is never empty on a
// label returned by an adapter.
type ShippingLabel struct {
	TrackingNumber string `json:"tracking_number"`
	LabelURL       string `json:"label_url"`
	Provider       string `json:"provider"`
}

// City is a provider-scoped location directory entry. IDs are NOT
// interchangeable between providers.
type City struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	District string `json:"district"`
}

// CODAmount computes the cash-on-delivery amount the courier collects:
// (unit price x quantity) - discount, floored at zero.
func CODAmount(unitPrice decimal.Decimal, quantity int, discount decimal.Decimal) decimal.Decimal {
	total := unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Sub(discount)
	if total.IsNegative() {
		return decimal.Zero
	}
	return total
}

// OrderReference synthesizes the waybill/order identifier submitted to a
// courier. When tenant and order IDs are available the reference is traceable
// back to the originating order; otherwise a random numeric string is used.
// The reference is unique per shipment attempt.
func OrderReference(tenantID, orderID, prefix string) string {
	tenantID = strings.ToUpper(strings.TrimSpace(tenantID))
	orderID = strings.ToUpper(strings.TrimSpace(orderID))

	if tenantID != "" && orderID != "" {
		if len(tenantID) > 4 {
			tenantID = tenantID[:4]
		}
		if len(orderID) > 10 {
			orderID = orderID[:10]
		}
		return fmt.Sprintf("%s%s-%s-%s", prefix, tenantID, orderID, randomSuffix(4))
	}
	return prefix + randomNumeric(12)
}

// randomSuffix returns n hex characters, upper-cased.
func randomSuffix(n int) string {
	b := make([]byte, (n+1)/2)
	if _, err := rand.Read(b); err != nil {
		return strings.ToUpper(uuid.NewString()[:n])
	}
	return strings.ToUpper(fmt.Sprintf("%x", b)[:n])
}

// randomNumeric derives an n-digit numeric string from a fresh UUID.
func randomNumeric(n int) string {
	id := uuid.New()
	var sb strings.Builder
	for _, c := range id.String() {
		if c >= '0' && c <= '9' {
			sb.WriteRune(c)
		}
		if sb.Len() == n {
			break
		}
	}
	for sb.Len() < n {
		sb.WriteByte('0')
	}
	return sb.String()
}
