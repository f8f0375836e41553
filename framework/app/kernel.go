package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/km-arc/go-lifetime/framework/config"
	"github.com/km-arc/go-lifetime/framework/container"
	"github.com/km-arc/go-lifetime/framework/logging"
	"github.com/km-arc/go-lifetime/framework/metrics"
	"github.com/km-arc/go-lifetime/framework/providers"
	"github.com/km-arc/go-lifetime/framework/routing"
)

// shutdownTimeout bounds how long Run waits for in-flight requests.
const shutdownTimeout = 15 * time.Second

// Application is the top-level application container.
// It embeds the Container and ProviderRegistry so user code can call
// app.Bind(), app.Singleton(), app.Register() directly.
type Application struct {
	*container.Container
	Providers *container.ProviderRegistry
	Metrics   *prometheus.Registry
}

// New creates the application and registers the framework providers
// (config, logging, routing, metrics). The container reports resolutions and
// scopes to a Prometheus Collector on the application's registry.
func New(envFiles ...string) *Application {
	reg := metrics.NewRegistry()
	collector := metrics.New(reg)
	c := container.New(container.WithObserver(collector))

	app := &Application{
		Container: c,
		Providers: container.NewProviderRegistry(c),
		Metrics:   reg,
	}

	// Registration before Boot never fails.
	_ = app.Register(&providers.ConfigServiceProvider{EnvFiles: envFiles})
	_ = app.Register(&providers.LoggingServiceProvider{})
	_ = app.Register(&providers.RoutingServiceProvider{})
	_ = app.Register(&providers.MetricsServiceProvider{Registry: reg, Collector: collector})

	return app
}

// Register adds a ServiceProvider to the application.
func (a *Application) Register(provider container.ServiceProvider) error {
	return a.Providers.Register(provider)
}

// Boot runs the Boot() phase on all providers.
func (a *Application) Boot() error {
	return a.Providers.Boot()
}

// Config resolves *config.Config from the container.
func (a *Application) Config() *config.Config {
	return container.MustResolve[*config.Config](a.Container, providers.ConfigKey)
}

// Router resolves *routing.Router from the container.
func (a *Application) Router() *routing.Router {
	return container.MustResolve[*routing.Router](a.Container, providers.RouterKey)
}

// Logger resolves the application *zap.Logger from the container.
func (a *Application) Logger() *zap.Logger {
	return container.MustResolve[*zap.Logger](a.Container, logging.ZapKey)
}

// Handler boots the application if needed and returns the router.
func (a *Application) Handler() (http.Handler, error) {
	if !a.Providers.Booted() {
		if err := a.Boot(); err != nil {
			return nil, err
		}
	}
	return a.Router(), nil
}

// Run boots the application, serves HTTP on APP_PORT until ctx is cancelled,
// then shuts the server down gracefully and closes the container.
func (a *Application) Run(ctx context.Context) error {
	handler, err := a.Handler()
	if err != nil {
		return err
	}
	cfg := a.Config()
	log := a.Logger()

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting server",
			zap.String("app", cfg.App.Name),
			zap.String("version", a.Version()),
			zap.String("address", srv.Addr),
			zap.String("environment", cfg.App.Env),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	_ = log.Sync()
	return errors.Join(err, a.Close())
}

// Environment returns APP_ENV value.
func (a *Application) Environment() string { return a.Config().App.Env }
func (a *Application) IsLocal() bool       { return a.Environment() == "local" }
func (a *Application) IsProduction() bool  { return a.Environment() == "production" }
func (a *Application) IsTesting() bool     { return a.Environment() == "testing" }
func (a *Application) IsDebug() bool       { return a.Config().App.Debug }
func (a *Application) Version() string     { return "0.1.0" }
