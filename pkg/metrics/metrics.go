package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the application counters exported on /metrics.
type Metrics struct {
	// HTTP
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	RateLimited         prometheus.Counter

	// Scheduling
	AppointmentsBooked  prometheus.Counter
	SlotConflicts       prometheus.Counter
	StatusTransitions   *prometheus.CounterVec
	RejectedTransitions *prometheus.CounterVec

	// Records
	MedicalRecordsSaved prometheus.Counter

	// Cache
	CacheLookups *prometheus.CounterVec
}

// New registers all metrics on reg. Passing nil uses the default registerer.
func New(namespace string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"method", "route"}),
		RateLimited: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Total number of requests rejected by the rate limiter",
		}),

		AppointmentsBooked: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "appointments",
			Name:      "booked_total",
			Help:      "Total number of booked appointments",
		}),
		SlotConflicts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "appointments",
			Name:      "slot_conflicts_total",
			Help:      "Total number of bookings rejected because the slot was taken",
		}),
		StatusTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "appointments",
			Name:      "status_transitions_total",
			Help:      "Total number of applied appointment status transitions",
		}, []string{"from", "to"}),
		RejectedTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "appointments",
			Name:      "rejected_transitions_total",
			Help:      "Total number of rejected appointment status transitions",
		}, []string{"from", "to", "role"}),

		MedicalRecordsSaved: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "medical_records",
			Name:      "saved_total",
			Help:      "Total number of saved medical records",
		}),

		CacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Total number of cache lookups",
		}, []string{"entity", "result"}),
	}
}
