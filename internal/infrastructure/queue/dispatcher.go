package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/lankaship/courier-gateway/internal/core/ports"
	"github.com/lankaship/courier-gateway/internal/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// RefreshJob identifies one order whose tracking status should be re-polled.
type RefreshJob struct {
	TenantID string
	OrderID  string
}

// Dispatcher routes refresh jobs to a fixed set of workers using consistent
// hashing on the order ID, so two refreshes of the same order never race and
// status writes stay ordered per order.
type Dispatcher struct {
	workers []chan RefreshJob
	service ports.ShippingService
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.ShippingService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan RefreshJob, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan RefreshJob, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends a job to the worker responsible for its order. The call
// blocks once the worker's channel buffer is full, which throttles batch
// producers instead of dropping jobs.
func (d *Dispatcher) Enqueue(job RefreshJob) {
	i := d.shardIndex(job.TenantID + "/" + job.OrderID)
	d.workers[i] <- job
	metrics.RefreshQueueDepth.WithLabelValues(strconv.Itoa(i)).Set(float64(len(d.workers[i])))
}

// EnqueueBatch enqueues multiple jobs preserving per-order ordering.
func (d *Dispatcher) EnqueueBatch(jobs []RefreshJob) {
	for _, j := range jobs {
		d.Enqueue(j)
	}
}

// shardIndex maps an order key deterministically to a worker index.
func (d *Dispatcher) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan RefreshJob) {
	workerID := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-ch:
			if !ok {
				return
			}
			if err := d.service.RefreshOrderStatus(ctx, job.TenantID, job.OrderID); err != nil {
				d.log.Error().Err(err).
					Str("tenant_id", job.TenantID).
					Str("order_id", job.OrderID).
					Int("worker_id", id).
					Msg("tracking refresh failed")
			}
			metrics.RefreshQueueDepth.WithLabelValues(workerID).Set(float64(len(ch)))
		}
	}
}
