package fardaexpress

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/lankaship/courier-gateway/internal/core/domain"
	"github.com/lankaship/courier-gateway/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func newTestAdapter(t *testing.T, handler http.Handler) (*Adapter, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	a := New(Config{APIKey: "key-123", ClientID: "client-9", BaseURL: srv.URL}, nil, zerolog.Nop())
	return a, srv
}

func bookingRequest() ports.CreateShipmentRequest {
	return ports.CreateShipmentRequest{
		Origin: domain.ShippingAddress{
			Name: "Warehouse", Street: "123 Warehouse St", City: "Colombo",
			State: "Colombo", PostalCode: "10300", Country: "LK", Phone: "+9477123456",
		},
		Destination: domain.ShippingAddress{
			Name: "John Doe", Street: "456 Main St", City: "Colombo 02",
			State: "Colombo", Country: "LK", Phone: "+94771234567",
		},
		Package:   domain.PackageDetails{WeightKg: 1.5},
		CODAmount: decimal.NewFromInt(2500),
		TenantID:  "tenant1",
		OrderID:   "ord42",
	}
}

// ---------------------------------------------------------------------------
// CreateShipment
// ---------------------------------------------------------------------------

func TestCreateShipment_WaybillNestedUnderData(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/city/list", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"city_id":901,"city_name":"Colombo 02"}]}`))
	})
	mux.HandleFunc("/api/v1/parcel/create", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"success","data":{"waybill_no":"FE100200300"}}`))
	})
	a, _ := newTestAdapter(t, mux)

	label, err := a.CreateShipment(context.Background(), bookingRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if label.TrackingNumber != "FE100200300" {
		t.Errorf("tracking number = %q, want FE100200300", label.TrackingNumber)
	}
	if !strings.Contains(label.LabelURL, label.TrackingNumber) {
		t.Errorf("label url %q must contain the tracking number", label.LabelURL)
	}
	if label.Provider != "Farda Express" {
		t.Errorf("provider = %q", label.Provider)
	}
}

func TestCreateShipment_WaybillAtTopLevel(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/city/list", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":[]}`))
	})
	mux.HandleFunc("/api/v1/parcel/create", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"waybill_no":"FE777"}`))
	})
	a, _ := newTestAdapter(t, mux)

	label, err := a.CreateShipment(context.Background(), bookingRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if label.TrackingNumber != "FE777" {
		t.Errorf("tracking number = %q, want FE777", label.TrackingNumber)
	}
}

func TestCreateShipment_NoWaybillInResponse(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/city/list", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":[]}`))
	})
	mux.HandleFunc("/api/v1/parcel/create", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"success"}`))
	})
	a, _ := newTestAdapter(t, mux)

	_, err := a.CreateShipment(context.Background(), bookingRequest())
	if !errors.Is(err, domain.ErrEmptyTrackingNumber) {
		t.Fatalf("expected ErrEmptyTrackingNumber, got %v", err)
	}
}

func TestCreateShipment_RateCardError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/city/list", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":[]}`))
	})
	mux.HandleFunc("/api/v1/parcel/create", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":"no rate card configured for destination"}`))
	})
	a, _ := newTestAdapter(t, mux)

	_, err := a.CreateShipment(context.Background(), bookingRequest())
	if !errors.Is(err, domain.ErrRateCardMissing) {
		t.Fatalf("expected ErrRateCardMissing, got %v", err)
	}
	msg := err.Error()
	if !strings.Contains(strings.ToLower(msg), "rate card") {
		t.Errorf("message must mention rate card: %q", msg)
	}
	if !strings.Contains(msg, "Colombo") || !strings.Contains(msg, "Colombo 02") {
		t.Errorf("message must name the city pair: %q", msg)
	}
}

func TestCreateShipment_AuthError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/city/list", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":[]}`))
	})
	mux.HandleFunc("/api/v1/parcel/create", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid client credentials"}`))
	})
	a, _ := newTestAdapter(t, mux)

	_, err := a.CreateShipment(context.Background(), bookingRequest())
	if !errors.Is(err, domain.ErrCredentialsInvalid) {
		t.Fatalf("expected ErrCredentialsInvalid, got %v", err)
	}
}

func TestCreateShipment_TransportFailure(t *testing.T) {
	a := New(Config{APIKey: "k", ClientID: "c", BaseURL: "http://127.0.0.1:1"}, nil, zerolog.Nop())

	_, err := a.CreateShipment(context.Background(), bookingRequest())
	if !errors.Is(err, domain.ErrCourierUnavailable) {
		t.Fatalf("expected ErrCourierUnavailable, got %v", err)
	}
}

func TestCreateShipment_ValidatesDestination(t *testing.T) {
	a := New(Config{APIKey: "k", ClientID: "c", BaseURL: "http://127.0.0.1:1"}, nil, zerolog.Nop())

	req := bookingRequest()
	req.Destination.Phone = ""
	_, err := a.CreateShipment(context.Background(), req)
	if err == nil {
		t.Fatal("expected validation error for missing phone")
	}
	if domain.KindOf(err) != domain.KindValidation {
		t.Errorf("kind = %s, want validation", domain.KindOf(err))
	}
}

// ---------------------------------------------------------------------------
// TrackShipment: must never fail for operational errors
// ---------------------------------------------------------------------------

func TestTrackShipment_DegradesToPending(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"malformed json", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"data": not-json`))
		}},
		{"empty data array", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"data":[]}`))
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a, _ := newTestAdapter(t, tc.handler)
			status, err := a.TrackShipment(context.Background(), "FE100")
			if err != nil {
				t.Fatalf("tracking must not fail: %v", err)
			}
			if status != domain.StatusPending {
				t.Errorf("status = %s, want PENDING", status)
			}
		})
	}
}

func TestTrackShipment_UsesLatestScanEvent(t *testing.T) {
	a, _ := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":[
			{"status":"Picked Up","location":"Colombo Hub","time":"2026-02-01 10:00"},
			{"status":"Out For Delivery","location":"Kandy","time":"2026-02-02 08:30"}
		]}`))
	}))

	status, err := a.TrackShipment(context.Background(), "FE100")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != domain.StatusOutForDelivery {
		t.Errorf("status = %s, want OUT_FOR_DELIVERY", status)
	}
}

// ---------------------------------------------------------------------------
// TrackingURL / GetRates
// ---------------------------------------------------------------------------

func TestTrackingURL_PureAndDeterministic(t *testing.T) {
	a := New(Config{}, nil, zerolog.Nop())
	first := a.TrackingURL("FE9000")
	if first != a.TrackingURL("FE9000") {
		t.Error("same input must yield the same URL")
	}
	if !strings.Contains(first, "FE9000") {
		t.Errorf("url %q must interpolate the tracking number", first)
	}
}

func TestGetRates_StaticTiers(t *testing.T) {
	a := New(Config{}, nil, zerolog.Nop())
	rates, err := a.GetRates(context.Background(), domain.ShippingAddress{}, domain.ShippingAddress{}, domain.PackageDetails{})
	if err != nil {
		t.Fatalf("GetRates must not fail for valid input: %v", err)
	}
	if len(rates) == 0 {
		t.Fatal("expected at least one rate tier")
	}
	for _, r := range rates {
		if r.Provider != "Farda Express" {
			t.Errorf("rate provider = %q", r.Provider)
		}
	}
}

// ---------------------------------------------------------------------------
// Location directory fallbacks
// ---------------------------------------------------------------------------

func TestDistricts_FallbackOnFetchFailure(t *testing.T) {
	a, _ := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	districts, err := a.Districts(context.Background())
	if err != nil {
		t.Fatalf("districts must not fail: %v", err)
	}
	want := []string{"Colombo", "Gampaha", "Kandy"}
	if len(districts) != len(want) {
		t.Fatalf("districts = %v, want %v", districts, want)
	}
	for i := range want {
		if districts[i] != want[i] {
			t.Errorf("districts[%d] = %q, want %q", i, districts[i], want[i])
		}
	}
}

func TestCities_FallbackOnEmptyLookup(t *testing.T) {
	a, _ := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))

	cities, err := a.Cities(context.Background(), "Colombo")
	if err != nil {
		t.Fatalf("cities must not fail: %v", err)
	}
	if len(cities) != 1 || cities[0].Name != "Colombo 01" {
		t.Errorf("expected single fallback city Colombo 01, got %v", cities)
	}
	if cities[0].ID == 0 {
		t.Error("fallback city must carry a known-good provider ID")
	}
}

func TestCities_CachedPerInstance(t *testing.T) {
	calls := 0
	a, _ := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		_, _ = w.Write([]byte(`{"data":[{"city_id":11,"city_name":"Gampaha"}]}`))
	}))

	_, _ = a.Cities(context.Background(), "Gampaha")
	_, _ = a.Cities(context.Background(), "Gampaha")
	if calls != 1 {
		t.Errorf("expected 1 upstream call for repeated lookups, got %d", calls)
	}
}

// ---------------------------------------------------------------------------
// Status table
// ---------------------------------------------------------------------------

func TestStatusTable_KnownAndUnknown(t *testing.T) {
	cases := map[string]domain.ShipmentStatus{
		"Pending":          domain.StatusPending,
		"In Transit":       domain.StatusInTransit,
		"Out For Delivery": domain.StatusOutForDelivery,
		"Delivered":        domain.StatusDelivered,
		"Return To Client": domain.StatusReturned,
		"Failed Delivery":  domain.StatusException,
		"some new status":  domain.StatusException,
	}
	for raw, want := range cases {
		if got := domain.NormalizeStatus(statusTable, raw); got != want {
			t.Errorf("NormalizeStatus(%q) = %s, want %s", raw, got, want)
		}
	}
}
