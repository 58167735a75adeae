// Package royalexpress integrates the Royal Express merchant API: a session
// login (email+password -> short-lived bearer token) with a tenant-scoped
// header on every call, a merchant business lookup required before booking,
// state-based location directory with alias normalization, and a richer
// status vocabulary that keeps returned states distinct.
package royalexpress

import (
	"context"
	"errors"
	"net/url"
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
	providerName   = "Royal Express"
	DefaultBaseURL = "https://merchant-api.royalexpress.lk"
	trackingPage   = "https://merchant.royalexpress.lk/track/"
)

// Config carries the tenant-scoped credentials and connection settings.
// Credentials is the combined "email:password" pair stored by the tenant
// settings subsystem; Tenant is the courier-side tenant identifier.
type Config struct {
	Credentials string
	Tenant      string
	BaseURL     string
	Timeout     time.Duration
}

// Adapter implements ports.CourierAdapter for Royal Express. The cached
// bearer token and business ID are instance-scoped; create one instance per
// operation, or guard concurrent use; a call racing a token refresh may use
// a soon-to-be-invalidated token.
type Adapter struct {
	client   *courierhttp.Client
	email    string
	password string
	tenant   string
	cache    ports.ReferenceCache
	log      zerolog.Logger

	mu          sync.Mutex
	bearerToken string
	businessID  int
	states      []string
	cities      map[string][]domain.City
}

// New builds the adapter. Malformed credentials are not rejected here; the
// first upstream call surfaces them as an auth error, matching the behavior
// of the pre-keyed providers.
func New(cfg Config, cache ports.ReferenceCache, log zerolog.Logger) *Adapter {
	email, password, err := ParseCredentials(cfg.Credentials)
	if err != nil {
		log.Warn().Str("provider", providerName).Msg("royal express credentials are not email:password")
	}
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	return &Adapter{
		client:   courierhttp.New(string(domain.RoyalExpress), base, cfg.Timeout, log),
		email:    email,
		password: password,
		tenant:   cfg.Tenant,
		cache:    cache,
		log:      log,
		cities:   make(map[string][]domain.City),
	}
}

func (a *Adapter) Name() string { return providerName }

func (a *Adapter) TrackingURL(trackingNumber string) string {
	return trackingPage + trackingNumber
}

// GetRates returns the static Royal Express rate card.
func (a *Adapter) GetRates(_ context.Context, _, _ domain.ShippingAddress, _ domain.PackageDetails) ([]domain.ShippingRate, error) {
	return []domain.ShippingRate{
		{Provider: providerName, Service: "Standard", Rate: decimal.NewFromInt(450), EstimatedDays: 2},
		{Provider: providerName, Service: "Same Day", Rate: decimal.NewFromInt(900), EstimatedDays: 0},
	}, nil
}

// --- wire types ---

type businessesResponse struct {
	Data []struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"data"`
}

type createOrderRequest struct {
	MerchantBusinessID int     `json:"merchant_business_id"`
	OrderNo            string  `json:"order_no"`
	CustomerName       string  `json:"customer_name"`
	Address            string  `json:"address"`
	CityID             int     `json:"city_id"`
	State              string  `json:"state"`
	Phone              string  `json:"phone"`
	SecondaryPhone     string  `json:"secondary_phone,omitempty"`
	CODAmount          string  `json:"cod_amount"`
	Weight             float64 `json:"weight"`
	Remark             string  `json:"remark,omitempty"`
}

type createOrderResponse struct {
	Data struct {
		WaybillNumber string `json:"waybill_number"`
	} `json:"data"`
	WaybillNumber string `json:"waybill_number"`
}

type trackingResponse struct {
	Data []struct {
		Status string `json:"status"`
	} `json:"data"`
}

// FinancialSummary is the COD financial state of a delivered order.
type FinancialSummary struct {
	WaybillNumber string          `json:"waybill_number"`
	CODCollected  decimal.Decimal `json:"cod_collected"`
	CODRemitted   decimal.Decimal `json:"cod_remitted"`
	Commission    decimal.Decimal `json:"commission"`
}

type financialResponse struct {
	Data FinancialSummary `json:"data"`
}

// businessIDFor resolves the merchant_business_id required by the booking
// endpoint, caching it on the instance. The first business on the account is
// used.
func (a *Adapter) businessIDFor(ctx context.Context, token string) (int, error) {
	a.mu.Lock()
	cached := a.businessID
	a.mu.Unlock()
	if cached != 0 {
		return cached, nil
	}

	var resp businessesResponse
	if err := a.client.GetJSON(ctx, "/api/v1/merchant/businesses", a.authHeaders(token), nil, &resp); err != nil {
		if isAuthFailure(err) {
			a.invalidateToken()
			return 0, domain.NewCourierError(providerName, domain.KindAuth, domain.ErrCredentialsInvalid,
				"merchant session expired; the next attempt will log in again")
		}
		return 0, domain.NewCourierError(providerName, domain.KindTransport, domain.ErrCourierUnavailable,
			"business lookup failed: %v", err)
	}
	if len(resp.Data) == 0 {
		return 0, domain.NewCourierError(providerName, domain.KindInvalidMerchant, domain.ErrInvalidMerchant,
			"no merchant business configured on the Royal Express account")
	}

	id := resp.Data[0].ID
	a.mu.Lock()
	a.businessID = id
	a.mu.Unlock()
	return id, nil
}

// CreateShipment logs in if needed, resolves the merchant business, and books
// the order. The destination state is normalized through the alias table
// before submission because the upstream rejects common alias names.
func (a *Adapter) CreateShipment(ctx context.Context, req ports.CreateShipmentRequest) (*domain.ShippingLabel, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	token, err := a.token(ctx)
	if err != nil {
		return nil, err
	}

	businessID, err := a.businessIDFor(ctx, token)
	if err != nil {
		return nil, err
	}

	state := NormalizeState(req.Destination.State)
	city, err := a.resolveCity(ctx, state, req.Destination.City)
	if err != nil {
		return nil, err
	}

	pkg := req.Package.WithDefaultDimensions()
	body := createOrderRequest{
		MerchantBusinessID: businessID,
		OrderNo:            domain.OrderReference(req.TenantID, req.OrderID, req.OrderPrefix),
		CustomerName:       req.Destination.Name,
		Address:            req.Destination.Street,
		CityID:             city.ID,
		State:              state,
		Phone:              req.Destination.Phone,
		SecondaryPhone:     req.Destination.AlternatePhone,
		CODAmount:          req.CODAmount.StringFixed(2),
		Weight:             pkg.WeightKg,
		Remark:             pkg.Description,
	}

	var resp createOrderResponse
	if err := a.client.PostJSON(ctx, "/api/v1/orders", a.authHeaders(token), body, &resp); err != nil {
		if isAuthFailure(err) {
			a.invalidateToken()
		}
		return nil, a.classify(err, req)
	}

	waybill := resp.Data.WaybillNumber
	if waybill == "" {
		waybill = resp.WaybillNumber
	}
	if waybill == "" {
		return nil, domain.NewCourierError(providerName, domain.KindTransport, domain.ErrEmptyTrackingNumber,
			"booking response carried no waybill number")
	}

	a.log.Info().Str("provider", providerName).Str("waybill", waybill).
		Str("order_id", req.OrderID).Msg("order booked")

	return &domain.ShippingLabel{
		TrackingNumber: waybill,
		LabelURL:       a.TrackingURL(waybill),
		Provider:       providerName,
	}, nil
}

// TrackShipment queries the waybill's status history. Transport, auth, and
// parsing failures all degrade to PENDING. An auth failure additionally
// clears the cached token so the next call re-authenticates.
func (a *Adapter) TrackShipment(ctx context.Context, trackingNumber string) (domain.ShipmentStatus, error) {
	token, err := a.token(ctx)
	if err != nil {
		a.log.Warn().Err(err).Str("provider", providerName).Msg("tracking degraded to pending")
		return domain.StatusPending, nil
	}

	query := url.Values{"waybill": {trackingNumber}}
	var resp trackingResponse
	if err := a.client.GetJSON(ctx, "/api/v1/orders/tracking", a.authHeaders(token), query, &resp); err != nil {
		if isAuthFailure(err) {
			a.invalidateToken()
		}
		a.log.Warn().Err(err).Str("provider", providerName).
			Str("waybill", trackingNumber).Msg("tracking degraded to pending")
		return domain.StatusPending, nil
	}
	if len(resp.Data) == 0 {
		return domain.StatusPending, nil
	}
	return domain.NormalizeStatus(statusTable, resp.Data[len(resp.Data)-1].Status), nil
}

// OrderFinancials fetches the COD financial summary for a waybill. Unlike
// tracking this fails loudly; it backs settlement reports, not UI polling.
func (a *Adapter) OrderFinancials(ctx context.Context, trackingNumber string) (*FinancialSummary, error) {
	token, err := a.token(ctx)
	if err != nil {
		return nil, err
	}

	query := url.Values{"waybill": {trackingNumber}}
	var resp financialResponse
	if err := a.client.GetJSON(ctx, "/api/v1/orders/financial", a.authHeaders(token), query, &resp); err != nil {
		if isAuthFailure(err) {
			a.invalidateToken()
			return nil, domain.NewCourierError(providerName, domain.KindAuth, domain.ErrCredentialsInvalid,
				"merchant session expired; the next attempt will log in again")
		}
		return nil, domain.NewCourierError(providerName, domain.KindTransport, domain.ErrCourierUnavailable,
			"financial lookup failed: %v", err)
	}
	resp.Data.WaybillNumber = trackingNumber
	return &resp.Data, nil
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

// resolveCity maps a destination city to Royal's numeric ID within the
// normalized state, defaulting when no match exists.
func (a *Adapter) resolveCity(ctx context.Context, state, cityName string) (domain.City, error) {
	cities, err := a.Cities(ctx, state)
	if err != nil || len(cities) == 0 {
		return fallbackCity, nil
	}
	want := strings.ToLower(strings.TrimSpace(cityName))
	for _, c := range cities {
		if strings.ToLower(c.Name) == want {
			return c, nil
		}
	}
	return fallbackCity, nil
}
