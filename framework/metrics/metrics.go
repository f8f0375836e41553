// Package metrics provides Prometheus instrumentation for the container.
//
// A Collector implements container.Observer, so wiring it is one option:
//
//	reg := prometheus.NewRegistry()
//	c := container.New(container.WithObserver(metrics.New(reg)))
//	router.Get("/metrics", metrics.Handler(reg).ServeHTTP)
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/km-arc/go-lifetime/framework/container"
)

const namespace = "golifetime"

// Collector records container activity.
type Collector struct {
	// Resolutions counts successful resolutions by lifetime.
	Resolutions *prometheus.CounterVec
	// Constructions counts instances built by factories, by lifetime.
	Constructions *prometheus.CounterVec
	// ActiveScopes tracks scopes opened but not yet disposed.
	ActiveScopes prometheus.Gauge
}

var _ container.Observer = (*Collector)(nil)

// New creates a Collector and registers it with reg.
func New(reg prometheus.Registerer) *Collector {
	c := &Collector{
		Resolutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "container",
				Name:      "resolutions_total",
				Help:      "Total number of service resolutions.",
			},
			[]string{"lifetime"},
		),
		Constructions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "container",
				Name:      "instances_created_total",
				Help:      "Total number of service instances built by factories.",
			},
			[]string{"lifetime"},
		),
		ActiveScopes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "container",
			Name:      "scopes_active",
			Help:      "Number of scopes currently open.",
		}),
	}
	reg.MustRegister(c.Resolutions, c.Constructions, c.ActiveScopes)
	return c
}

func (c *Collector) Resolved(_ container.Key, lifetime container.Lifetime) {
	c.Resolutions.WithLabelValues(lifetime.String()).Inc()
}

func (c *Collector) Constructed(_ container.Key, lifetime container.Lifetime) {
	c.Constructions.WithLabelValues(lifetime.String()).Inc()
}

func (c *Collector) ScopeOpened()   { c.ActiveScopes.Inc() }
func (c *Collector) ScopeDisposed() { c.ActiveScopes.Dec() }

// NewRegistry returns a registry preloaded with the Go runtime and process
// collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Handler serves the metrics gathered by g in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
