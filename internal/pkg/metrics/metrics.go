// Package metrics содержит Prometheus-метрики сервиса.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "astro_api"

// Metrics методы безопасны для nil-получателя, чтобы метрики были опциональны
type Metrics struct {
	HTTPRequests      *prometheus.CounterVec
	HTTPDuration      *prometheus.HistogramVec
	ReadingsGenerated *prometheus.CounterVec
	StoreFailures     *prometheus.CounterVec
	CacheResults      *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// New регистрирует метрики в собственном реестре
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		ReadingsGenerated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "readings_generated_total",
			Help:      "Generated horoscopes by sign and scope.",
		}, []string{"sign", "scope"}),
		StoreFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_failures_total",
			Help:      "Document store failures swallowed by the service.",
		}, []string{"operation"}),
		CacheResults: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "readings_cache_total",
			Help:      "Readings list cache lookups by result.",
		}, []string{"result"}),
		gatherer: reg,
	}
}

func (m *Metrics) ObserveRequest(method, route string, status int, latency time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(latency.Seconds())
}

func (m *Metrics) ObserveReading(sign, scope string) {
	if m == nil {
		return
	}
	m.ReadingsGenerated.WithLabelValues(sign, scope).Inc()
}

func (m *Metrics) ObserveStoreFailure(operation string) {
	if m == nil {
		return
	}
	m.StoreFailures.WithLabelValues(operation).Inc()
}

func (m *Metrics) ObserveCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheResults.WithLabelValues(result).Inc()
}

// Handler отдаёт метрики в формате Prometheus
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
