package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
// Its methods are no-ops on a nil receiver.
type Recorder struct {
	forecastsTotal  *prometheus.CounterVec
	gatewayTotal    *prometheus.CounterVec
	errorsTotal     *prometheus.CounterVec
	latency         *prometheus.HistogramVec
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	httpInFlight    *prometheus.GaugeVec
	httpResponseLen *prometheus.HistogramVec
}

// New creates a Prometheus metrics recorder registered on reg.
// A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Recorder{
		forecastsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "miniforecast_forecasts_total",
				Help: "Total number of synthetic forecasts generated",
			},
			[]string{"direction"},
		),
		gatewayTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "miniforecast_gateway_results_total",
				Help: "Gateway forecasts served, by the source that answered",
			},
			[]string{"source"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "miniforecast_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "miniforecast_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		httpRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"route", "method", "status"},
		),
		httpDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"route", "method", "status", "class"},
		),
		httpInFlight: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "http_in_flight_requests",
				Help: "Current number of in-flight HTTP requests",
			},
			[]string{"route", "method"},
		),
		httpResponseLen: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{64, 128, 256, 512, 1_000, 2_000, 5_000, 10_000},
			},
			[]string{"route", "method", "status", "class"},
		),
	}
}

// RecordForecast counts a generated forecast by direction.
func (r *Recorder) RecordForecast(direction string) {
	if r == nil {
		return
	}
	r.forecastsTotal.WithLabelValues(direction).Inc()
}

// RecordGatewayResult counts a gateway answer by source.
func (r *Recorder) RecordGatewayResult(source string) {
	if r == nil {
		return
	}
	r.gatewayTotal.WithLabelValues(source).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	if r == nil {
		return
	}
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	if r == nil {
		return
	}
	r.latency.WithLabelValues(op).Observe(seconds)
}

// InFlight moves the in-flight gauge for route by delta.
func (r *Recorder) InFlight(route, method string, delta float64) {
	if r == nil {
		return
	}
	r.httpInFlight.WithLabelValues(route, method).Add(delta)
}

// ObserveHTTP records one finished HTTP request.
func (r *Recorder) ObserveHTTP(route, method string, status int, d time.Duration, size int64) {
	if r == nil {
		return
	}
	code := strconv.Itoa(status)
	class := StatusClass(status)
	r.httpRequests.WithLabelValues(route, method, code).Inc()
	r.httpDuration.WithLabelValues(route, method, code, class).Observe(d.Seconds())
	r.httpResponseLen.WithLabelValues(route, method, code, class).Observe(float64(size))
}

// StatusClass buckets an HTTP status code as "2xx", "4xx" and so on.
func StatusClass(code int) string {
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
