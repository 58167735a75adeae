package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/lankaship/courier-gateway/internal/core/domain"
	"github.com/lankaship/courier-gateway/internal/core/ports"
)

// refreshRecorder implements ports.ShippingService, recording refresh calls.
type refreshRecorder struct {
	mu        sync.Mutex
	refreshed []string
	done      chan struct{}
	want      int
}

func newRefreshRecorder(want int) *refreshRecorder {
	return &refreshRecorder{done: make(chan struct{}), want: want}
}

func (r *refreshRecorder) RefreshOrderStatus(_ context.Context, tenantID, orderID string) error {
	r.mu.Lock()
	r.refreshed = append(r.refreshed, tenantID+"/"+orderID)
	if len(r.refreshed) == r.want {
		close(r.done)
	}
	r.mu.Unlock()
	return nil
}

func (r *refreshRecorder) CreateShipment(context.Context, ports.CreateShipmentInput) (*domain.ShippingLabel, error) {
	return nil, nil
}

func (r *refreshRecorder) RecordManualTracking(context.Context, string, string, string) error {
	return nil
}

func (r *refreshRecorder) TrackOrder(context.Context, string, string) (*ports.TrackOrderResult, error) {
	return nil, nil
}

func (r *refreshRecorder) GetRates(context.Context, ports.GetRatesInput) ([]domain.ShippingRate, error) {
	return nil, nil
}

func (r *refreshRecorder) Districts(context.Context, string, domain.Provider) ([]string, error) {
	return nil, nil
}

func (r *refreshRecorder) CitiesByDistrict(context.Context, string, domain.Provider, string) ([]domain.City, error) {
	return nil, nil
}

func TestDispatcher_RefreshesEnqueuedOrders(t *testing.T) {
	svc := newRefreshRecorder(3)
	d := NewDispatcher(2, svc, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	d.EnqueueBatch([]RefreshJob{
		{TenantID: "t1", OrderID: "o1"},
		{TenantID: "t1", OrderID: "o2"},
		{TenantID: "t2", OrderID: "o1"},
	})

	select {
	case <-svc.done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for refresh calls")
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()
	seen := map[string]bool{}
	for _, key := range svc.refreshed {
		seen[key] = true
	}
	for _, want := range []string{"t1/o1", "t1/o2", "t2/o1"} {
		if !seen[want] {
			t.Errorf("order %s was not refreshed", want)
		}
	}
}

func TestDispatcher_ShardIsDeterministic(t *testing.T) {
	d := NewDispatcher(4, newRefreshRecorder(0), zerolog.Nop())
	first := d.shardIndex("t1/order-55")
	for i := 0; i < 10; i++ {
		if got := d.shardIndex("t1/order-55"); got != first {
			t.Fatalf("shard index changed: %d then %d", first, got)
		}
	}
}

func TestDispatcher_DefaultWorkerCount(t *testing.T) {
	d := NewDispatcher(0, newRefreshRecorder(0), zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Errorf("worker count = %d, want %d", len(d.workers), defaultWorkers)
	}
}
