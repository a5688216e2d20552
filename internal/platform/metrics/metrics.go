// Package metrics exposes process counters in the Prometheus text format.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ijus"

// Registry carries every collector the API reports. It satisfies the metrics
// ports of both legal-research services.
type Registry struct {
	registry *prometheus.Registry

	xpAwarded      *prometheus.CounterVec
	levelUps       *prometheus.CounterVec
	documentProbes *prometheus.CounterVec
	fallbacks      *prometheus.CounterVec
	httpRequests   *prometheus.CounterVec
	httpDurations  *prometheus.HistogramVec
}

func New() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
		xpAwarded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "progression",
			Name:      "xp_awarded_total",
			Help:      "Experience points awarded, by action.",
		}, []string{"action"}),
		levelUps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "progression",
			Name:      "level_ups_total",
			Help:      "Level transitions, by level reached.",
		}, []string{"level"}),
		documentProbes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "jurisprudence",
			Name:      "document_probes_total",
			Help:      "Document type probes, by type and outcome.",
		}, []string{"document_type", "outcome"}),
		fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "jurisprudence",
			Name:      "fallbacks_total",
			Help:      "Responses served from bundled samples or file names, by operation.",
		}, []string{"operation"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests, by route and status.",
		}, []string{"route", "status"}),
		httpDurations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency, by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}
	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.xpAwarded,
		r.levelUps,
		r.documentProbes,
		r.fallbacks,
		r.httpRequests,
		r.httpDurations,
	)
	return r
}

func (r *Registry) ObserveXP(action string, amount int) {
	if amount > 0 {
		r.xpAwarded.WithLabelValues(action).Add(float64(amount))
	}
}

func (r *Registry) ObserveLevelUp(level int) {
	r.levelUps.WithLabelValues(strconv.Itoa(level)).Inc()
}

func (r *Registry) ObserveProbe(documentType string, outcome string) {
	r.documentProbes.WithLabelValues(documentType, outcome).Inc()
}

func (r *Registry) ObserveFallback(operation string) {
	r.fallbacks.WithLabelValues(operation).Inc()
}

func (r *Registry) ObserveHTTP(route string, status int, elapsed time.Duration) {
	r.httpRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	r.httpDurations.WithLabelValues(route).Observe(elapsed.Seconds())
}

func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
