// Package metrics holds the Prometheus collectors of the onboarding service.
// Metrics implements the recorder interfaces of pkg/onboarding, pkg/export
// and pkg/crm, so instrumented components never import Prometheus.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	RendersTotal   *prometheus.CounterVec
	RenderDuration *prometheus.HistogramVec
	ExportsTotal   *prometheus.CounterVec
	CRMConflicts   prometheus.Counter
	TierChanges    *prometheus.CounterVec
	HTTPRequests   *prometheus.CounterVec
	HTTPDuration   *prometheus.HistogramVec
}

// New creates the collectors under namespace. They are not registered.
func New(namespace string) *Metrics {
	return &Metrics{
		RendersTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "email_renders_total",
			Help:      "Onboarding email renders by format, tier, language and result",
		}, []string{"format", "tier", "language", "result"}),
		RenderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "email_render_duration_seconds",
			Help:      "Onboarding email render latency",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 12),
		}, []string{"format"}),
		ExportsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exports_total",
			Help:      "Export actions by action and result",
		}, []string{"action", "result"}),
		CRMConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "crm_conflicts_total",
			Help:      "Customer writes rejected by ETag preconditions",
		}),
		TierChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "crm_tier_changes_total",
			Help:      "Customer tier changes by direction",
		}, []string{"direction"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status",
		}, []string{"route", "method", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.RendersTotal, m.RenderDuration, m.ExportsTotal, m.CRMConflicts,
		m.TierChanges, m.HTTPRequests, m.HTTPDuration,
	}
}

// Register registers every collector on reg (or the default registerer if
// nil). Already registered collectors are not an error.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, c := range m.collectors() {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if !errors.As(err, &are) {
				return err
			}
		}
	}
	return nil
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// ObserveRender implements onboarding.Recorder.
func (m *Metrics) ObserveRender(format, tierKey, language string, elapsed time.Duration, err error) {
	m.RendersTotal.WithLabelValues(format, tierKey, language, result(err)).Inc()
	m.RenderDuration.WithLabelValues(format).Observe(elapsed.Seconds())
}

// ObserveExport implements export.Recorder.
func (m *Metrics) ObserveExport(action string, err error) {
	m.ExportsTotal.WithLabelValues(action, result(err)).Inc()
}

// ObserveConflict implements crm.Recorder.
func (m *Metrics) ObserveConflict() {
	m.CRMConflicts.Inc()
}

// ObserveTierChange implements crm.Recorder.
func (m *Metrics) ObserveTierChange(downgrade bool) {
	direction := "upgrade"
	if downgrade {
		direction = "downgrade"
	}
	m.TierChanges.WithLabelValues(direction).Inc()
}

// Middleware records request counts and latency labelled by the chi route
// pattern, which keeps label cardinality bounded.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.HTTPRequests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		m.HTTPDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}

// Handler serves the metrics of gatherer (or the default gatherer if nil).
func Handler(gatherer prometheus.Gatherer) http.Handler {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
