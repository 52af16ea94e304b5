package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/fieldsales/visitform/internal/application/dispatcher"
	"github.com/fieldsales/visitform/internal/domain/event"
)

const namespace = "visitform"

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Current number of HTTP requests being processed",
		},
	)
)

// Background job metrics
var (
	JobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_total",
			Help:      "Total number of background jobs run",
		},
		[]string{"type", "status"},
	)

	JobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "job_duration_seconds",
			Help:      "Background job execution time distribution",
			Buckets:   []float64{.1, .5, 1, 5, 10, 30, 60},
		},
		[]string{"type"},
	)
)

// Business metrics
var (
	VisitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "visits_total",
			Help:      "Total number of visits by delivery outcome",
		},
		[]string{"status"},
	)

	VerificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "verifications_total",
			Help:      "Total number of salesperson verifications by result",
		},
		[]string{"result"},
	)

	ReportsExported = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_exported_total",
			Help:      "Total number of visit reports written to the report store",
		},
	)
)

// Subscribe counts domain events
func Subscribe(d dispatcher.Dispatcher) {
	count := func(c prometheus.Counter) dispatcher.Handler {
		return func(ctx context.Context, evt *event.Event) error {
			c.Inc()
			return nil
		}
	}

	d.Subscribe(event.TypeVisitRecorded, "metrics", count(VisitsTotal.WithLabelValues("recorded")))
	d.Subscribe(event.TypeVisitSent, "metrics", count(VisitsTotal.WithLabelValues("sent")))
	d.Subscribe(event.TypeVisitFailed, "metrics", count(VisitsTotal.WithLabelValues("failed")))
	d.Subscribe(event.TypeSalespersonVerified, "metrics", count(VerificationsTotal.WithLabelValues("verified")))
	d.Subscribe(event.TypeSalespersonRejected, "metrics", count(VerificationsTotal.WithLabelValues("rejected")))
	d.Subscribe(event.TypeReportExported, "metrics", count(ReportsExported))
}
