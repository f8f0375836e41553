package app_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-lifetime/app"
	"github.com/km-arc/go-lifetime/app/controllers"
	"github.com/km-arc/go-lifetime/app/operation"
	"github.com/km-arc/go-lifetime/framework/container"
	"github.com/km-arc/go-lifetime/framework/metrics"
	fwproviders "github.com/km-arc/go-lifetime/framework/providers"
)

func quietEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ENV", "testing")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("METRICS_ENABLED", "true")
	t.Setenv("METRICS_PATH", "/metrics")
}

func TestNew_Registrations(t *testing.T) {
	quietEnv(t)
	application, err := app.New("testdata/none.env")
	require.NoError(t, err)
	t.Cleanup(func() { _ = application.Close() })

	transients, err := container.ResolveAll[*operation.Operation](application, operation.TransientKey)
	require.NoError(t, err)
	assert.Len(t, transients, 2)

	instances, err := container.ResolveAll[*operation.Operation](application, operation.SingletonInstanceKey)
	require.NoError(t, err)
	require.Len(t, instances, 2)
	assert.Equal(t, uuid.Nil, instances[0].ID())
	assert.NotEqual(t, uuid.Nil, instances[1].ID())

	last := container.MustResolve[*operation.Operation](application, operation.SingletonInstanceKey)
	assert.Same(t, instances[1], last)
}

func TestWeatherForecast_EndToEnd(t *testing.T) {
	quietEnv(t)
	application, err := app.New("testdata/none.env")
	require.NoError(t, err)
	t.Cleanup(func() { _ = application.Close() })

	h, err := application.Handler()
	require.NoError(t, err)

	var bodies []controllers.ForecastResponse
	for range 2 {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/weatherforecast", nil))
		require.Equal(t, http.StatusOK, rr.Code)

		var body controllers.ForecastResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
		require.Len(t, body.Data, 5)
		require.Len(t, body.Operations, 2)
		bodies = append(bodies, body)
	}

	a, b := bodies[0].Operations[0], bodies[1].Operations[0]
	assert.NotEqual(t, a.Scoped, b.Scoped)
	assert.Equal(t, a.Singleton, b.Singleton)
	assert.Equal(t, a.SingletonInstance, b.SingletonInstance)

	collector := container.MustResolve[*metrics.Collector](application, fwproviders.CollectorKey)
	assert.Equal(t, float64(0), testutil.ToFloat64(collector.ActiveScopes))
	assert.Equal(t, float64(2), testutil.ToFloat64(collector.Constructions.WithLabelValues("scoped")))
}
