// Package metrics owns the process-wide Prometheus registry and its /metrics
// handler. Feature packages register their own collectors on it.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	*prometheus.Registry
}

// NewRegistry creates a registry carrying the Go runtime and process
// collectors plus a tripmatch_build_info gauge.
func NewRegistry(version, environment string) *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	promauto.With(reg).NewGauge(prometheus.GaugeOpts{
		Name:        "tripmatch_build_info",
		Help:        "Build information of the running server",
		ConstLabels: prometheus.Labels{"version": version, "environment": environment},
	}).Set(1)
	return &Registry{Registry: reg}
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.Registry, promhttp.HandlerOpts{Registry: r.Registry})
}
