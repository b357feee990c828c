package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestDuration time spent serving HTTP requests (histogram)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "icearena",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Time spent serving HTTP requests",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	// TicketsIssued total number of sold seats (counter)
	TicketsIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "icearena",
			Name:      "tickets_issued_total",
			Help:      "The total number of issued tickets",
		},
	)

	// SeatPurchaseConflicts purchases rejected because the seat was taken
	SeatPurchaseConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "icearena",
			Name:      "seat_purchase_conflicts_total",
			Help:      "Purchases rejected because the seat was no longer available",
		},
	)

	// BookingValidationFailures rejected ice bookings by reason
	BookingValidationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "icearena",
			Name:      "booking_validation_failures_total",
			Help:      "Ice booking requests rejected by the validator",
		},
		[]string{"code"},
	)

	AvailabilityCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "icearena",
			Subsystem: "availability_cache",
			Name:      "hits_total",
			Help:      "Availability lookups served from cache",
		},
	)

	AvailabilityCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "icearena",
			Subsystem: "availability_cache",
			Name:      "misses_total",
			Help:      "Availability lookups resolved from storage",
		},
	)

	// MessagesProcessed The total number of consumed domain events (counter)
	MessagesProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "messages",
			Name:      "processed_total",
			Help:      "The total number of processed messages",
		},
		[]string{"subject"},
	)

	// MessagesProcessingFailed total number of message processing failures (counter)
	MessagesProcessingFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "messages",
			Name:      "processing_failed_total",
			Help:      "The total number of message processing failures",
		},
		[]string{"subject"},
	)
)
