package queue

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/lankaship/courier-gateway/internal/core/ports"
)

const (
	defaultPollInterval = 15 * time.Minute
	defaultBatchLimit   = 500
)

// Poller periodically selects orders that still need tracking updates and
// feeds them to the dispatcher. Terminal orders are filtered out by the store,
// so the batch shrinks as shipments complete.
type Poller struct {
	orders     ports.OrderShippingStore
	dispatcher *Dispatcher
	interval   time.Duration
	limit      int
	log        zerolog.Logger
}

func NewPoller(orders ports.OrderShippingStore, dispatcher *Dispatcher, interval time.Duration, log zerolog.Logger) *Poller {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &Poller{
		orders:     orders,
		dispatcher: dispatcher,
		interval:   interval,
		limit:      defaultBatchLimit,
		log:        log,
	}
}

// Run blocks until ctx is cancelled, enqueueing one batch per interval.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.enqueueBatch(ctx)
		}
	}
}

func (p *Poller) enqueueBatch(ctx context.Context) {
	infos, err := p.orders.ListTracked(ctx, p.limit)
	if err != nil {
		p.log.Error().Err(err).Msg("listing tracked orders failed")
		return
	}
	jobs := make([]RefreshJob, 0, len(infos))
	for _, info := range infos {
		jobs = append(jobs, RefreshJob{TenantID: info.TenantID, OrderID: info.OrderID})
	}
	p.dispatcher.EnqueueBatch(jobs)
	if len(jobs) > 0 {
		p.log.Info().Int("count", len(jobs)).Msg("enqueued tracking refresh batch")
	}
}
