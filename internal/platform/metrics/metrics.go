package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	TokensIssued     prometheus.Counter
	AuthFailures     prometheus.Counter
	BillsCreated     prometheus.Counter
	PaymentsRecorded prometheus.Counter
	RequestDuration  *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		TokensIssued: factory.NewCounter(prometheus.CounterOpts{
			Name: "hms_tokens_issued_total",
			Help: "Total number of access tokens issued",
		}),
		AuthFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "hms_auth_failures_total",
			Help: "Total number of failed authentication attempts",
		}),
		BillsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "hms_bills_created_total",
			Help: "Total number of bills created",
		}),
		PaymentsRecorded: factory.NewCounter(prometheus.CounterOpts{
			Name: "hms_payments_recorded_total",
			Help: "Total number of payments recorded against bills",
		}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hms_http_request_duration_seconds",
			Help:    "HTTP request latency by method and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "status"}),
	}
}
