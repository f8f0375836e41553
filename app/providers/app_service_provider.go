package providers

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/km-arc/go-lifetime/app/controllers"
	"github.com/km-arc/go-lifetime/app/operation"
	"github.com/km-arc/go-lifetime/app/services"
	"github.com/km-arc/go-lifetime/framework/container"
	"github.com/km-arc/go-lifetime/framework/logging"
	fwproviders "github.com/km-arc/go-lifetime/framework/providers"
	"github.com/km-arc/go-lifetime/framework/routing"
)

// AppServiceProvider registers the operations under every lifetime, the two
// dependency services, and the weather forecast route.
type AppServiceProvider struct{}

func (p *AppServiceProvider) Register(app *container.Container) {
	Operations(app)
	Services(app)
}

func (p *AppServiceProvider) Boot(app *container.Container) error {
	router, err := container.Resolve[*routing.Router](app, fwproviders.RouterKey)
	if err != nil {
		return err
	}
	log, err := container.Resolve[*zap.Logger](app, logging.ZapKey)
	if err != nil {
		return err
	}
	forecasts := controllers.NewWeatherForecastController(log.Named("weatherforecast"))
	router.Get("/weatherforecast", forecasts.Get)
	return nil
}

// Operations binds one operation key per lifetime. The transient key is
// registered twice and the instance key holds a nil-id operation followed
// by a fresh one, so single resolution shows the last registration winning
// while ResolveAll still sees both.
func Operations(app *container.Container) {
	app.Bind(operation.TransientKey, operation.Factory)
	app.Bind(operation.TransientKey, operation.Factory)
	app.Scoped(operation.ScopedKey, operation.Factory)
	app.Singleton(operation.SingletonKey, operation.Factory)
	app.Instance(operation.SingletonInstanceKey, operation.NewWithID(uuid.Nil))
	app.Instance(operation.SingletonInstanceKey, operation.New())
}

// Services binds both dependency services as transient.
func Services(app *container.Container) {
	app.Bind(services.Service1Key, services.Factory("Dependency Service 1"))
	app.Bind(services.Service2Key, services.Factory("Dependency Service 2"))
}
