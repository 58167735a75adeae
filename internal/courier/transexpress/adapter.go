// Package transexpress integrates the Trans Express courier API: static
// bearer-token auth, two booking endpoints (with a known city ID, or by
// free-text city name), and waybill-based tracking.
//
// The booking response nests the created order under "order" or "orders",
// as an object or a one-element array. Extraction probes the known shapes in
// order and fails explicitly when none matches.
package transexpress

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/lankaship/courier-gateway/internal/core/domain"
	"github.com/lankaship/courier-gateway/internal/core/ports"
	"github.com/lankaship/courier-gateway/internal/courier/courierhttp"
)

const (
	providerName   = "Trans Express"
	DefaultBaseURL = "https://portal.transexpress.lk"
	trackingPage   = "https://transexpress.lk/tracking?id="
)

// Config carries the tenant-scoped credentials and connection settings.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// Adapter implements ports.CourierAdapter for Trans Express.
type Adapter struct {
	client *courierhttp.Client
	apiKey string
	cache  ports.ReferenceCache
	log    zerolog.Logger

	mu          sync.Mutex
	districts   []string
	districtIDs map[string]int
	cities      map[string][]domain.City
}

func New(cfg Config, cache ports.ReferenceCache, log zerolog.Logger) *Adapter {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	return &Adapter{
		client:      courierhttp.New(string(domain.TransExpress), base, cfg.Timeout, log),
		apiKey:      cfg.APIKey,
		cache:       cache,
		log:         log,
		districtIDs: make(map[string]int),
		cities:      make(map[string][]domain.City),
	}
}

func (a *Adapter) Name() string { return providerName }

func (a *Adapter) TrackingURL(trackingNumber string) string {
	return trackingPage + trackingNumber
}

func (a *Adapter) authHeaders() map[string]string {
	return map[string]string{"Authorization": "Bearer " + a.apiKey}
}

// GetRates returns the static Trans Express rate card.
func (a *Adapter) GetRates(_ context.Context, _, _ domain.ShippingAddress, _ domain.PackageDetails) ([]domain.ShippingRate, error) {
	return []domain.ShippingRate{
		{Provider: providerName, Service: "Standard", Rate: decimal.NewFromInt(400), EstimatedDays: 3},
	}, nil
}

// --- wire types ---

type createOrderRequest struct {
	OrderNo      string  `json:"order_no"`
	CustomerName string  `json:"customer_name"`
	Address      string  `json:"address"`
	CityID       int     `json:"city_id,omitempty"`
	DistrictID   int     `json:"district_id,omitempty"`
	CityName     string  `json:"city_name,omitempty"`
	District     string  `json:"district,omitempty"`
	Phone        string  `json:"phone_no"`
	SecondPhone  string  `json:"second_phone_no,omitempty"`
	CODAmount    string  `json:"cod_amount"`
	Weight       float64 `json:"weight"`
	Description  string  `json:"description,omitempty"`
}

// flexString decodes a JSON string or number into a string; Trans Express is
// inconsistent about waybill ID typing.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

type createdOrder struct {
	WaybillID flexString `json:"waybill_id"`
}

type createOrderEnvelope struct {
	Order  json.RawMessage `json:"order"`
	Orders json.RawMessage `json:"orders"`
}

// extractWaybill probes the known response shapes: order object, orders
// object, orders array. "No recognized shape" is an explicit parse error.
func extractWaybill(env createOrderEnvelope) (string, error) {
	for _, raw := range [][]byte{env.Order, env.Orders} {
		if len(raw) == 0 {
			continue
		}
		var one createdOrder
		if err := json.Unmarshal(raw, &one); err == nil && one.WaybillID != "" {
			return string(one.WaybillID), nil
		}
		var many []createdOrder
		if err := json.Unmarshal(raw, &many); err == nil && len(many) > 0 && many[0].WaybillID != "" {
			return string(many[0].WaybillID), nil
		}
	}
	return "", domain.ErrEmptyTrackingNumber
}

type trackRequest struct {
	WaybillID string `json:"waybill_id"`
}

type trackResponse struct {
	Data []struct {
		Status string `json:"status"`
	} `json:"data"`
}

// CreateShipment books an order. When the destination city resolves to a
// known city ID the primary endpoint is used; otherwise the booking falls
// back to the free-text city-name endpoint.
func (a *Adapter) CreateShipment(ctx context.Context, req ports.CreateShipmentRequest) (*domain.ShippingLabel, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	pkg := req.Package.WithDefaultDimensions()
	body := createOrderRequest{
		OrderNo:      domain.OrderReference(req.TenantID, req.OrderID, req.OrderPrefix),
		CustomerName: req.Destination.Name,
		Address:      req.Destination.Street,
		Phone:        req.Destination.Phone,
		SecondPhone:  req.Destination.AlternatePhone,
		CODAmount:    req.CODAmount.StringFixed(2),
		Weight:       pkg.WeightKg,
		Description:  pkg.Description,
	}

	path := "/api/v1/orders/city-name"
	if city, districtID, ok := a.resolveCity(ctx, req.Destination); ok {
		path = "/api/v1/orders"
		body.CityID = city.ID
		body.DistrictID = districtID
	} else {
		body.CityName = req.Destination.City
		body.District = req.Destination.State
	}

	var env createOrderEnvelope
	if err := a.client.PostJSON(ctx, path, a.authHeaders(), body, &env); err != nil {
		return nil, a.classify(err, req)
	}

	waybill, err := extractWaybill(env)
	if err != nil {
		return nil, domain.NewCourierError(providerName, domain.KindTransport, err,
			"booking response carried no recognizable order shape")
	}

	a.log.Info().Str("provider", providerName).Str("waybill", waybill).
		Str("order_id", req.OrderID).Msg("order booked")

	return &domain.ShippingLabel{
		TrackingNumber: waybill,
		LabelURL:       a.TrackingURL(waybill),
		Provider:       providerName,
	}, nil
}

// TrackShipment posts the waybill ID and normalizes the latest status entry.
// Transport and parsing failures degrade to PENDING.
func (a *Adapter) TrackShipment(ctx context.Context, trackingNumber string) (domain.ShipmentStatus, error) {
	var resp trackResponse
	if err := a.client.PostJSON(ctx, "/api/v1/track", a.authHeaders(), trackRequest{WaybillID: trackingNumber}, &resp); err != nil {
		a.log.Warn().Err(err).Str("provider", providerName).
			Str("waybill", trackingNumber).Msg("tracking degraded to pending")
		return domain.StatusPending, nil
	}
	if len(resp.Data) == 0 {
		return domain.StatusPending, nil
	}
	return domain.NormalizeStatus(statusTable, resp.Data[len(resp.Data)-1].Status), nil
}

func validateRequest(req ports.CreateShipmentRequest) error {
	dst := req.Destination
	if dst.Name == "" || dst.Street == "" || dst.Phone == "" {
		return domain.NewCourierError(providerName, domain.KindValidation, errors.New("incomplete destination address"),
			"destination name, street, and phone are required")
	}
	if req.Package.WeightKg <= 0 {
		return domain.NewCourierError(providerName, domain.KindValidation, errors.New("weight must be positive"),
			"package weight must be greater than zero")
	}
	return nil
}

// resolveCity finds the destination's Trans Express city and district IDs.
// ok is false when the lookup fails or finds no exact name match, in which
// case the caller books via the city-name endpoint.
func (a *Adapter) resolveCity(ctx context.Context, dst domain.ShippingAddress) (domain.City, int, bool) {
	cities, err := a.Cities(ctx, dst.State)
	if err != nil || len(cities) == 0 {
		return domain.City{}, 0, false
	}
	want := strings.ToLower(strings.TrimSpace(dst.City))
	for _, c := range cities {
		if strings.ToLower(c.Name) == want {
			a.mu.Lock()
			districtID := a.districtIDs[c.District]
			a.mu.Unlock()
			return c, districtID, true
		}
	}
	return domain.City{}, 0, false
}
