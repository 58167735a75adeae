package transexpress

import (
	"context"
	"encoding/json"
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

func newTestAdapter(t *testing.T, handler http.Handler) *Adapter {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Config{APIKey: "token-abc", BaseURL: srv.URL}, nil, zerolog.Nop())
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
		CODAmount: decimal.NewFromInt(1800),
		TenantID:  "tenant1",
		OrderID:   "ord77",
	}
}

// directoryMux serves a minimal district/city directory so bookings resolve a
// city ID.
func directoryMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/districts", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"id":3,"name":"Colombo"}]}`))
	})
	mux.HandleFunc("/api/v1/cities", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"id":42,"name":"Colombo 02"}]}`))
	})
	return mux
}

// ---------------------------------------------------------------------------
// Response shape probing
// ---------------------------------------------------------------------------

func TestExtractWaybill_Shapes(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"order object", `{"order":{"waybill_id":"TE555"}}`, "TE555"},
		{"orders object", `{"orders":{"waybill_id":"TE556"}}`, "TE556"},
		{"orders array", `{"orders":[{"waybill_id":"TE557"}]}`, "TE557"},
		{"numeric waybill", `{"order":{"waybill_id":99001}}`, "99001"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var env createOrderEnvelope
			if err := json.Unmarshal([]byte(tc.body), &env); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			got, err := extractWaybill(env)
			if err != nil {
				t.Fatalf("extractWaybill: %v", err)
			}
			if got != tc.want {
				t.Errorf("waybill = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestExtractWaybill_NoRecognizedShape(t *testing.T) {
	for _, body := range []string{`{}`, `{"result":"ok"}`, `{"orders":[]}`, `{"order":{"id":1}}`} {
		var env createOrderEnvelope
		_ = json.Unmarshal([]byte(body), &env)
		if _, err := extractWaybill(env); !errors.Is(err, domain.ErrEmptyTrackingNumber) {
			t.Errorf("body %s: expected ErrEmptyTrackingNumber, got %v", body, err)
		}
	}
}

// ---------------------------------------------------------------------------
// CreateShipment
// ---------------------------------------------------------------------------

func TestCreateShipment_KnownCityUsesPrimaryEndpoint(t *testing.T) {
	mux := directoryMux()
	var gotPath string
	var gotBody createOrderRequest
	mux.HandleFunc("/api/v1/orders", func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"order":{"waybill_id":"TE100"}}`))
	})
	a := newTestAdapter(t, mux)

	label, err := a.CreateShipment(context.Background(), bookingRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/api/v1/orders" {
		t.Errorf("path = %q, want /api/v1/orders", gotPath)
	}
	if gotBody.CityID != 42 || gotBody.DistrictID != 3 {
		t.Errorf("expected resolved city_id=42 district_id=3, got %+v", gotBody)
	}
	if label.TrackingNumber != "TE100" {
		t.Errorf("tracking = %q", label.TrackingNumber)
	}
}

func TestCreateShipment_UnknownCityFallsBackToCityName(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/districts", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	mux.HandleFunc("/api/v1/cities", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	var gotBody createOrderRequest
	mux.HandleFunc("/api/v1/orders/city-name", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"orders":[{"waybill_id":"TE200"}]}`))
	})
	a := newTestAdapter(t, mux)

	req := bookingRequest()
	req.Destination.City = "Madiwela"
	label, err := a.CreateShipment(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotBody.CityName != "Madiwela" {
		t.Errorf("city_name = %q, want Madiwela", gotBody.CityName)
	}
	if label.TrackingNumber != "TE200" {
		t.Errorf("tracking = %q", label.TrackingNumber)
	}
}

func TestCreateShipment_RateCardFieldPathError(t *testing.T) {
	mux := directoryMux()
	mux.HandleFunc("/api/v1/orders", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"errors":{"rate_card.destination_city_id":["is missing"]}}`))
	})
	a := newTestAdapter(t, mux)

	_, err := a.CreateShipment(context.Background(), bookingRequest())
	if !errors.Is(err, domain.ErrRateCardMissing) {
		t.Fatalf("expected ErrRateCardMissing, got %v", err)
	}
	msg := err.Error()
	if !strings.Contains(strings.ToLower(msg), "rate card") {
		t.Errorf("message must mention rate card: %q", msg)
	}
	if !strings.Contains(msg, "Colombo") || !strings.Contains(msg, "Colombo 02") {
		t.Errorf("message must name the origin/destination city pair: %q", msg)
	}
}

func TestCreateShipment_DuplicateWaybill(t *testing.T) {
	mux := directoryMux()
	mux.HandleFunc("/api/v1/orders", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":"waybill id already taken"}`))
	})
	a := newTestAdapter(t, mux)

	_, err := a.CreateShipment(context.Background(), bookingRequest())
	if !errors.Is(err, domain.ErrDuplicateWaybill) {
		t.Fatalf("expected ErrDuplicateWaybill, got %v", err)
	}
}

func TestCreateShipment_UnrecognizedShapeIsError(t *testing.T) {
	mux := directoryMux()
	mux.HandleFunc("/api/v1/orders", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"result":"ok"}`))
	})
	a := newTestAdapter(t, mux)

	_, err := a.CreateShipment(context.Background(), bookingRequest())
	if !errors.Is(err, domain.ErrEmptyTrackingNumber) {
		t.Fatalf("expected ErrEmptyTrackingNumber, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// TrackShipment
// ---------------------------------------------------------------------------

func TestTrackShipment_EmptyDataResolvesPending(t *testing.T) {
	a := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))

	status, err := a.TrackShipment(context.Background(), "TE100")
	if err != nil {
		t.Fatalf("tracking must not fail: %v", err)
	}
	if status != domain.StatusPending {
		t.Errorf("status = %s, want PENDING", status)
	}
}

func TestTrackShipment_TransportFailureResolvesPending(t *testing.T) {
	a := New(Config{APIKey: "t", BaseURL: "http://127.0.0.1:1"}, nil, zerolog.Nop())

	status, err := a.TrackShipment(context.Background(), "TE100")
	if err != nil {
		t.Fatalf("tracking must not fail: %v", err)
	}
	if status != domain.StatusPending {
		t.Errorf("status = %s, want PENDING", status)
	}
}

func TestTrackShipment_NormalizesLatestStatus(t *testing.T) {
	a := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"status":"picked_up"},{"status":"return_to_seller"}]}`))
	}))

	status, err := a.TrackShipment(context.Background(), "TE100")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != domain.StatusReturned {
		t.Errorf("status = %s, want RETURNED", status)
	}
}

// ---------------------------------------------------------------------------
// TrackingURL / status table
// ---------------------------------------------------------------------------

func TestTrackingURL_Deterministic(t *testing.T) {
	a := New(Config{}, nil, zerolog.Nop())
	url := a.TrackingURL("TE42")
	if url != a.TrackingURL("TE42") {
		t.Error("same input must yield the same URL")
	}
	if !strings.Contains(url, "TE42") {
		t.Errorf("url %q must interpolate the tracking number", url)
	}
}

func TestStatusTable_UnknownMapsToException(t *testing.T) {
	if got := domain.NormalizeStatus(statusTable, "vaporized"); got != domain.StatusException {
		t.Errorf("unknown status = %s, want EXCEPTION", got)
	}
	if got := domain.NormalizeStatus(statusTable, "out_for_delivery"); got != domain.StatusOutForDelivery {
		t.Errorf("out_for_delivery = %s", got)
	}
}
