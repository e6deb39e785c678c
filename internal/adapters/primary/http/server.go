package server

import (
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/admin/astro-api/internal/adapters/primary/http/middlewares"
	"github.com/admin/astro-api/internal/pkg/metrics"
)

type Config struct {
	Host                    string        `envconfig:"HOST"`
	Port                    string        `envconfig:"PORT" default:"8000"`
	WriteTimeout            time.Duration `envconfig:"WRITE_TIMEOUT" default:"15s"`
	ReadTimeout             time.Duration `envconfig:"READ_TIMEOUT" default:"3s"`
	ReadHeaderTimeout       time.Duration `envconfig:"READ_HEADER_TIMEOUT" default:"3s"`
	IdleTimeout             time.Duration `envconfig:"IDLE_TIMEOUT" default:"15s"`
	EnableLoggingMiddleware bool          `envconfig:"ENABLE_LOGGING_MIDDLEWARE" default:"false"`
	CORSOrigins             []string      `envconfig:"CORS_ORIGINS" default:"*"`
}

type Controller interface {
	RegisterRoutes(router *gin.Engine)
}

// NewRouter собирает gin.Engine с общими middleware и маршрутами контроллеров
func NewRouter(
	cfg *Config,
	logger *slog.Logger,
	m *metrics.Metrics,
	controllers ...Controller,
) *gin.Engine {
	router := gin.New()

	router.Use(
		middlewares.RecoveryLogger(logger),
		middlewares.CORS(cfg.CORSOrigins),
		middlewares.Metrics(m),
	)
	if cfg.EnableLoggingMiddleware {
		router.Use(middlewares.RequestLogger(logger))
	}

	for _, controller := range controllers {
		controller.RegisterRoutes(router)
	}

	return router
}

func NewHTTPServer(
	cfg *Config,
	logger *slog.Logger,
	m *metrics.Metrics,
	controllers ...Controller,
) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	return &http.Server{
		Handler:           NewRouter(cfg, logger, m, controllers...),
		Addr:              net.JoinHostPort(cfg.Host, cfg.Port),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}
