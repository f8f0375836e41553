package controllers

import (
	"math/rand/v2"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/km-arc/go-lifetime/app/services"
	"github.com/km-arc/go-lifetime/framework/container"
	gohttp "github.com/km-arc/go-lifetime/framework/http"
)

var summaries = []string{
	"Freezing", "Bracing", "Chilly", "Cool", "Mild", "Warm", "Balmy", "Hot", "Sweltering", "Scorching",
}

const (
	defaultDays = 5
	maxDays     = 14
)

// Forecast is one day of made-up weather.
type Forecast struct {
	Date         time.Time `json:"date"`
	TemperatureC int       `json:"temperatureC"`
	TemperatureF int       `json:"temperatureF"`
	Summary      string    `json:"summary"`
}

// ForecastItem pairs a forecast with its 1-based index.
type ForecastItem struct {
	ID       int      `json:"id"`
	Forecast Forecast `json:"forecast"`
}

// ForecastResponse is the body of GET /weatherforecast. Operations lists the
// operation ids each dependency service was built with.
type ForecastResponse struct {
	Data       []ForecastItem      `json:"data"`
	Operations []services.Snapshot `json:"operations"`
}

// WeatherForecastController serves GET /weatherforecast. Every request
// resolves both dependency services from its own Scope and has them report
// their operation ids before the forecast is returned.
type WeatherForecastController struct {
	log *zap.Logger
	now func() time.Time
}

// NewWeatherForecastController creates the controller.
func NewWeatherForecastController(log *zap.Logger) *WeatherForecastController {
	if log == nil {
		log = zap.NewNop()
	}
	return &WeatherForecastController{log: log, now: time.Now}
}

// Get handles GET /weatherforecast?days=N (default 5, at most 14).
func (c *WeatherForecastController) Get(w http.ResponseWriter, r *http.Request) {
	req := gohttp.NewRequest(r)
	res := gohttp.NewResponse(w)

	scope := req.Scope()
	if scope == nil {
		c.log.Error("no request scope", zap.String("request_id", req.ID()))
		res.ServerError()
		return
	}

	svcs := make([]*services.DependencyService, 0, 2)
	for _, key := range []container.Key{services.Service1Key, services.Service2Key} {
		svc, err := container.Resolve[*services.DependencyService](scope, key)
		if err != nil {
			c.log.Error("resolve dependency service",
				zap.String("request_id", req.ID()),
				zap.String("key", string(key)),
				zap.Error(err),
			)
			res.ServerError()
			return
		}
		svcs = append(svcs, svc)
	}

	body := ForecastResponse{Operations: make([]services.Snapshot, 0, len(svcs))}
	for _, svc := range svcs {
		svc.Write()
		body.Operations = append(body.Operations, svc.Snapshot())
	}

	days := req.QueryInt("days", defaultDays)
	if days < 1 || days > maxDays {
		days = defaultDays
	}
	today := c.now()
	body.Data = make([]ForecastItem, 0, days)
	for i := 1; i <= days; i++ {
		body.Data = append(body.Data, ForecastItem{ID: i, Forecast: c.forecast(today.AddDate(0, 0, i))})
	}

	res.JSON(http.StatusOK, body)
}

func (c *WeatherForecastController) forecast(date time.Time) Forecast {
	celsius := rand.IntN(75) - 20 // [-20, 55)
	return Forecast{
		Date:         date,
		TemperatureC: celsius,
		TemperatureF: 32 + int(float64(celsius)/0.5556),
		Summary:      summaries[rand.IntN(len(summaries))],
	}
}
