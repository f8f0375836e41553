package providers

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/km-arc/go-lifetime/framework/config"
	"github.com/km-arc/go-lifetime/framework/container"
	gohttp "github.com/km-arc/go-lifetime/framework/http"
	"github.com/km-arc/go-lifetime/framework/logging"
	"github.com/km-arc/go-lifetime/framework/metrics"
	"github.com/km-arc/go-lifetime/framework/routing"
)

// Container keys bound by the framework providers.
const (
	ConfigKey    = "config"
	RouterKey    = "router"
	MetricsKey   = "metrics.registry"
	CollectorKey = "metrics.collector"
)

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider loads the application configuration from .env and
// binds it into the container as "config".
//
// Bound keys:
//   - "config"        → *config.Config (singleton)
//   - "configuration" → alias of "config"
type ConfigServiceProvider struct {
	container.BaseProvider
	EnvFiles []string
}

func (p *ConfigServiceProvider) Register(app *container.Container) {
	envFiles := p.EnvFiles
	app.Singleton(ConfigKey, func(container.Resolver) (any, error) {
		return config.Load(envFiles...), nil
	})
	app.Alias(ConfigKey, "configuration")
}

// ── LoggingServiceProvider ────────────────────────────────────────────────────

// LoggingServiceProvider builds the zap logger from the "log" config section
// and the OutputLogger sink on top of it.
//
// Bound keys:
//   - logging.ZapKey → *zap.Logger (singleton)
//   - logging.Key    → logging.OutputLogger (transient)
type LoggingServiceProvider struct {
	container.BaseProvider
}

func (p *LoggingServiceProvider) Register(app *container.Container) {
	app.Singleton(logging.ZapKey, func(r container.Resolver) (any, error) {
		cfg, err := container.Resolve[*config.Config](r, ConfigKey)
		if err != nil {
			return nil, err
		}
		return logging.New(cfg.Log)
	})
	app.Bind(logging.Key, func(r container.Resolver) (any, error) {
		log, err := container.Resolve[*zap.Logger](r, logging.ZapKey)
		if err != nil {
			return nil, err
		}
		return logging.NewOutputLogger(log), nil
	})
}

// ── MetricsServiceProvider ────────────────────────────────────────────────────

// MetricsServiceProvider exposes the Prometheus registry and the container
// Collector, and mounts the scrape endpoint on the router when metrics are
// enabled.
//
// Bound keys:
//   - "metrics.registry"  → *prometheus.Registry (instance)
//   - "metrics.collector" → *metrics.Collector (instance)
type MetricsServiceProvider struct {
	Registry  *prometheus.Registry
	Collector *metrics.Collector
}

func (p *MetricsServiceProvider) Register(app *container.Container) {
	reg := p.Registry
	if reg == nil {
		reg = metrics.NewRegistry()
	}
	app.Instance(MetricsKey, reg)
	if p.Collector != nil {
		app.Instance(CollectorKey, p.Collector)
	}
}

func (p *MetricsServiceProvider) Boot(app *container.Container) error {
	cfg, err := container.Resolve[*config.Config](app, ConfigKey)
	if err != nil {
		return err
	}
	if !cfg.Metrics.Enabled {
		return nil
	}
	reg, err := container.Resolve[*prometheus.Registry](app, MetricsKey)
	if err != nil {
		return err
	}
	router, err := container.Resolve[*routing.Router](app, RouterKey)
	if err != nil {
		return err
	}
	router.Handle(cfg.Metrics.Path, metrics.Handler(reg))
	return nil
}

// ── RoutingServiceProvider ────────────────────────────────────────────────────

// RoutingServiceProvider registers the HTTP router with request logging and
// one container Scope per request, and mounts GET /healthz on boot.
//
// Bound keys:
//   - "router" → *routing.Router (singleton)
type RoutingServiceProvider struct{}

func (p *RoutingServiceProvider) Register(app *container.Container) {
	app.Singleton(RouterKey, func(r container.Resolver) (any, error) {
		log, err := container.Resolve[*zap.Logger](r, logging.ZapKey)
		if err != nil {
			return nil, err
		}
		root, err := container.Resolve[*container.Container](r, container.SelfKey)
		if err != nil {
			return nil, err
		}
		return routing.New(
			gohttp.RequestLogger(log),
			gohttp.ScopeMiddleware(root, log),
		), nil
	})
}

func (p *RoutingServiceProvider) Boot(app *container.Container) error {
	router, err := container.Resolve[*routing.Router](app, RouterKey)
	if err != nil {
		return err
	}
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		gohttp.NewResponse(w).JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	return nil
}
