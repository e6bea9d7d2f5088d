// Package metrics exposes Prometheus instruments for fetches, outlooks,
// errors and HTTP traffic. A nil *Recorder is a valid no-op.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder groups the application's Prometheus collectors.
type Recorder struct {
	fetchDuration *prometheus.HistogramVec
	outlooks      *prometheus.CounterVec
	errorsTotal   *prometheus.CounterVec
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
}

// New registers all collectors with reg. A nil reg uses the default registry.
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Recorder{
		fetchDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stockoutlook_fetch_duration_seconds",
				Help:    "Duration of price history fetches in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"provider", "outcome"},
		),
		outlooks: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockoutlook_outlooks_total",
				Help: "Total number of outlooks produced",
			},
			[]string{"horizon", "direction"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockoutlook_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"kind"},
		),
		httpRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockoutlook_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"route", "method", "status"},
		),
		httpDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stockoutlook_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"route", "method", "class"},
		),
	}
}

// ObserveFetch records one provider round trip.
func (r *Recorder) ObserveFetch(provider string, d time.Duration, err error) {
	if r == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	r.fetchDuration.WithLabelValues(provider, outcome).Observe(d.Seconds())
}

// RecordOutlook counts a classified outlook.
func (r *Recorder) RecordOutlook(horizon, direction string) {
	if r == nil {
		return
	}
	r.outlooks.WithLabelValues(horizon, direction).Inc()
}

// RecordError counts an error of the given kind.
func (r *Recorder) RecordError(kind string) {
	if r == nil {
		return
	}
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// ObserveHTTP records a served request. route should be the templated path.
func (r *Recorder) ObserveHTTP(route, method string, status int, d time.Duration) {
	if r == nil {
		return
	}
	r.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	r.httpDuration.WithLabelValues(route, method, statusClass(status)).Observe(d.Seconds())
}

func statusClass(code int) string {
	switch {
	case code >= 100 && code < 200:
		return "1xx"
	case code >= 200 && code < 300:
		return "2xx"
	case code >= 300 && code < 400:
		return "3xx"
	case code >= 400 && code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}
