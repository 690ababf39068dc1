// Package metrics holds the Prometheus collectors of the auth service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dtroode/authkeeper/internal/apierrors"
)

// ResultSuccess labels operations that completed without error. Failures are
// labelled with their error kind.
const ResultSuccess = "success"

// Metrics contains the custom collectors and the registry exposing them.
type Metrics struct {
	RegisterTotal   *prometheus.CounterVec
	LoginTotal      *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	registry *prometheus.Registry
}

// New creates a registry with the Go and process collectors plus the auth
// service metrics.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		RegisterTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authkeeper_register_total",
				Help: "Total number of registration attempts by result",
			},
			[]string{"result"},
		),
		LoginTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authkeeper_login_total",
				Help: "Total number of login attempts by result",
			},
			[]string{"result"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "authkeeper_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
		registry: registry,
	}

	registry.MustRegister(m.RegisterTotal, m.LoginTotal, m.RequestDuration)

	return m
}

// ObserveRegister counts a registration attempt that ended with err.
func (m *Metrics) ObserveRegister(err error) {
	m.RegisterTotal.WithLabelValues(result(err)).Inc()
}

// ObserveLogin counts a login attempt that ended with err.
func (m *Metrics) ObserveLogin(err error) {
	m.LoginTotal.WithLabelValues(result(err)).Inc()
}

// ObserveRequest records the duration of a served request. route is the
// matched route pattern, not the raw path.
func (m *Metrics) ObserveRequest(method, route string, status int, duration time.Duration) {
	m.RequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(duration.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

func result(err error) string {
	if err == nil {
		return ResultSuccess
	}
	return apierrors.KindOf(err).String()
}
