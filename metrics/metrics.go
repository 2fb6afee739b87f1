// Package metrics exposes Prometheus metrics of the issuance service.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	Issuances      *prometheus.CounterVec
	MintDuration   prometheus.Histogram
	HealthChecks   *prometheus.CounterVec
	FailedRecords  prometheus.Counter
	IdempotentHits prometheus.Counter
}

// NewMetrics registers the collectors on reg.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Issuances: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "issuance",
			Name:      "requests_total",
			Help:      "Issuance requests by outcome",
		}, []string{"outcome"}),
		MintDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "issuance",
			Name:      "mint_duration_seconds",
			Help:      "Time from broadcasting a mint to its confirmation",
			Buckets:   []float64{1, 2, 5, 10, 20, 30, 60, 120, 300},
		}),
		HealthChecks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "checks_total",
			Help:      "Chain health checks by outcome",
		}, []string{"outcome"}),
		FailedRecords: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "issuance",
			Name:      "failed_records_total",
			Help:      "Broadcast mints recorded with status failed",
		}),
		IdempotentHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "issuance",
			Name:      "idempotent_replays_total",
			Help:      "Issuance responses replayed for a repeated idempotency key",
		}),
	}
}

func (m *Metrics) ObserveIssuance(outcome string) {
	if m == nil {
		return
	}
	m.Issuances.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveMint(d time.Duration) {
	if m == nil {
		return
	}
	m.MintDuration.Observe(d.Seconds())
}

func (m *Metrics) ObserveHealthCheck(outcome string) {
	if m == nil {
		return
	}
	m.HealthChecks.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveFailedRecord() {
	if m == nil {
		return
	}
	m.FailedRecords.Inc()
}

func (m *Metrics) ObserveReplay() {
	if m == nil {
		return
	}
	m.IdempotentHits.Inc()
}

// NewRegistry returns a registry with the Go and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// MetricsServer serves /metrics for a registry.
type MetricsServer struct {
	srv *http.Server
}

func NewMetricsServer(addr string, reg *prometheus.Registry) *MetricsServer {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	return &MetricsServer{
		srv: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

func (s *MetricsServer) ListenAndServe() error {
	return s.srv.ListenAndServe()
}

func (s *MetricsServer) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
