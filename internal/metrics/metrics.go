// Package metrics provides Prometheus collectors for the daemon.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ts3console"

// Metrics holds the daemon's collectors on a private registry.
type Metrics struct {
	reg *prometheus.Registry

	SessionsActive  prometheus.Gauge
	LogEntriesTotal prometheus.Counter
	RequestsTotal   *prometheus.CounterVec
}

// New creates and registers all collectors.
func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		SessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Number of live ServerQuery sessions",
		}),
		LogEntriesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "log_entries_total",
			Help:      "Total log entries appended across all sessions",
		}),
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total API requests by status class",
		}, []string{"code"}),
	}

	m.reg.MustRegister(m.SessionsActive, m.LogEntriesTotal, m.RequestsTotal)

	return m
}

// Handler serves the registry in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}
