// Package metrics defines and registers all custom Prometheus metrics for the
// courier gateway. It is the single source of truth for metric names, labels,
// and help strings. Metrics register with the default registry at package
// init via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "courier"

// ShipmentsCreatedTotal counts successful bookings.
// Label:
//   - provider: courier identifier (e.g. "FARDA_EXPRESS")
var ShipmentsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "shipments_created_total",
		Help:      "Total number of shipments successfully booked, by provider.",
	},
	[]string{"provider"},
)

// BookingErrorsTotal counts failed booking attempts.
// Labels:
//   - provider: courier identifier
//   - kind: error classification (auth, validation, rate_card, duplicate_waybill,
//     invalid_merchant, transport, unclassified)
var BookingErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "booking_errors_total",
		Help:      "Total number of failed shipment bookings, by provider and error kind.",
	},
	[]string{"provider", "kind"},
)

// TrackingChecksTotal counts tracking polls by resulting status.
// Labels:
//   - provider: courier identifier
//   - status: normalized shipment status the poll resolved to
var TrackingChecksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tracking_checks_total",
		Help:      "Total number of tracking polls, by provider and resulting status.",
	},
	[]string{"provider", "status"},
)

// UpstreamRequestDuration measures courier API round-trip time.
// Labels:
//   - provider: courier identifier
//   - path: upstream endpoint path
var UpstreamRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upstream_request_duration_seconds",
		Help:      "Duration of courier API requests.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"provider", "path"},
)

// RefreshQueueDepth tracks the events pending in each refresh worker channel.
// Label:
//   - worker_id: numeric worker index
var RefreshQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "refresh_queue_depth",
		Help:      "Current number of refresh jobs pending in each worker channel.",
	},
	[]string{"worker_id"},
)
