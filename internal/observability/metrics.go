package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var latencyBuckets = []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10}

// Metrics owns a private registry. All methods are safe on a nil receiver.
type Metrics struct {
	registry *prometheus.Registry

	apiRequests *prometheus.CounterVec
	apiLatency  *prometheus.HistogramVec
	apiInflight prometheus.Gauge
	apiErrors   *prometheus.CounterVec

	upstreamRequests *prometheus.CounterVec
	upstreamLatency  *prometheus.HistogramVec

	aggregateLookups  *prometheus.CounterVec
	aggregateDuration *prometheus.HistogramVec

	loginRateLimited prometheus.Counter
	keepAlivePings   *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "brawltrack",
			Subsystem: "api",
			Name:      "http_requests_total",
			Help:      "Count of processed HTTP requests",
		}, []string{"method", "route", "status"}),
		apiLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "brawltrack",
			Subsystem: "api",
			Name:      "http_request_duration_seconds",
			Help:      "Latency distribution of HTTP handlers",
			Buckets:   latencyBuckets,
		}, []string{"method", "route", "status"}),
		apiInflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "brawltrack",
			Subsystem: "api",
			Name:      "http_inflight_requests",
			Help:      "HTTP requests currently being served",
		}),
		apiErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "brawltrack",
			Subsystem: "api",
			Name:      "errors_total",
			Help:      "Error responses by route and envelope code",
		}, []string{"route", "code"}),
		upstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "brawltrack",
			Subsystem: "upstream",
			Name:      "requests_total",
			Help:      "Requests sent to the game-data API by endpoint and status",
		}, []string{"endpoint", "status"}),
		upstreamLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "brawltrack",
			Subsystem: "upstream",
			Name:      "request_duration_seconds",
			Help:      "Latency of game-data API requests",
			Buckets:   latencyBuckets,
		}, []string{"endpoint"}),
		aggregateLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "brawltrack",
			Subsystem: "aggregate",
			Name:      "lookups_total",
			Help:      "Per-tag lookups issued by dashboard aggregation",
		}, []string{"kind", "outcome"}),
		aggregateDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "brawltrack",
			Subsystem: "aggregate",
			Name:      "duration_seconds",
			Help:      "Wall time of one aggregation fan-out",
			Buckets:   latencyBuckets,
		}, []string{"kind"}),
		loginRateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "brawltrack",
			Subsystem: "auth",
			Name:      "login_rate_limited_total",
			Help:      "Login attempts rejected by the rate limiter",
		}),
		keepAlivePings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "brawltrack",
			Subsystem: "keepalive",
			Name:      "pings_total",
			Help:      "Keep-alive pings by outcome",
		}, []string{"outcome"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.apiRequests,
		m.apiLatency,
		m.apiInflight,
		m.apiErrors,
		m.upstreamRequests,
		m.upstreamLatency,
		m.aggregateLookups,
		m.aggregateDuration,
		m.loginRateLimited,
		m.keepAlivePings,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

func (m *Metrics) ObserveAPI(method, route, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.apiRequests.WithLabelValues(method, route, status).Inc()
	m.apiLatency.WithLabelValues(method, route, status).Observe(d.Seconds())
}

func (m *Metrics) ObserveAPIError(route, code string) {
	if m == nil {
		return
	}
	m.apiErrors.WithLabelValues(route, code).Inc()
}

// ObserveUpstream records one game-data API call. status 0 means no response.
func (m *Metrics) ObserveUpstream(endpoint string, status int, d time.Duration) {
	if m == nil {
		return
	}
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.upstreamRequests.WithLabelValues(endpoint, label).Inc()
	m.upstreamLatency.WithLabelValues(endpoint).Observe(d.Seconds())
}

func (m *Metrics) ObserveLookup(kind string, ok bool) {
	if m == nil {
		return
	}
	outcome := "failed"
	if ok {
		outcome = "success"
	}
	m.aggregateLookups.WithLabelValues(kind, outcome).Inc()
}

func (m *Metrics) ObserveAggregate(kind string, d time.Duration) {
	if m == nil {
		return
	}
	m.aggregateDuration.WithLabelValues(kind).Observe(d.Seconds())
}

func (m *Metrics) IncLoginRateLimited() {
	if m == nil {
		return
	}
	m.loginRateLimited.Inc()
}

func (m *Metrics) ObserveKeepAlive(ok bool) {
	if m == nil {
		return
	}
	outcome := "failed"
	if ok {
		outcome = "success"
	}
	m.keepAlivePings.WithLabelValues(outcome).Inc()
}
