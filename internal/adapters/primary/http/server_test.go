package server_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	server "github.com/admin/astro-api/internal/adapters/primary/http"
	diagnosticsController "github.com/admin/astro-api/internal/adapters/primary/http/controllers/diagnostics"
	healthcheckController "github.com/admin/astro-api/internal/adapters/primary/http/controllers/healthcheck"
	metricsController "github.com/admin/astro-api/internal/adapters/primary/http/controllers/metrics"
	"github.com/admin/astro-api/internal/adapters/secondary/storage/inmemory"
	"github.com/admin/astro-api/internal/pkg/logger"
	"github.com/admin/astro-api/internal/pkg/metrics"
	"github.com/admin/astro-api/internal/usecases/diagnostics"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func newRouter(t *testing.T, pinger healthcheckController.Pinger) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logger.NewNop()
	m := metrics.New()
	store := inmemory.NewDocumentStore()

	return server.NewRouter(
		&server.Config{CORSOrigins: []string{"*"}, EnableLoggingMiddleware: true},
		log,
		m,
		diagnosticsController.New(diagnostics.New(store, false, false, log), log),
		healthcheckController.New(pinger, log),
		metricsController.New(m),
	)
}

func get(router http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestRouter_Root(t *testing.T) {
	router := newRouter(t, inmemory.NewDocumentStore())

	w := get(router, "/")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Astrology API is running"}`, w.Body.String())
}

func TestRouter_Diagnostics(t *testing.T) {
	router := newRouter(t, inmemory.NewDocumentStore())

	w := get(router, "/test")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"backend": "✅ Running",
		"database": "✅ Connected & Working",
		"database_url": "❌ Not Set",
		"database_name": "❌ Not Set",
		"connection_status": "Connected",
		"collections": []
	}`, w.Body.String())
}

func TestRouter_Health(t *testing.T) {
	down := pingerFunc(func(context.Context) error { return errors.New("down") })

	tests := []struct {
		name   string
		pinger healthcheckController.Pinger
		path   string
		want   int
	}{
		{name: "health ok", pinger: inmemory.NewDocumentStore(), path: "/health", want: http.StatusOK},
		{name: "health ignores store", pinger: down, path: "/health", want: http.StatusOK},
		{name: "ready", pinger: inmemory.NewDocumentStore(), path: "/ready", want: http.StatusOK},
		{name: "not ready", pinger: down, path: "/ready", want: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(newRouter(t, tt.pinger), tt.path)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRouter_Metrics(t *testing.T) {
	router := newRouter(t, inmemory.NewDocumentStore())

	get(router, "/")
	w := get(router, "/metrics")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `astro_api_http_requests_total{method="GET",route="/",status="200"} 1`)
}
