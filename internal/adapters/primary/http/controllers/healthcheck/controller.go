package healthcheckController

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const readyTimeout = 2 * time.Second

// Pinger проверка доступности зависимости
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthCheckController struct {
	store Pinger
	log   *slog.Logger
}

func New(store Pinger, log *slog.Logger) *HealthCheckController {
	return &HealthCheckController{
		store: store,
		log:   log,
	}
}

func (c *HealthCheckController) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", c.health)
	r.GET("/ready", c.ready)
}

// health базовая проверка (всегда возвращает 200)
func (c *HealthCheckController) health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "astro-api",
	})
}

// ready проверяет хранилище документов
func (c *HealthCheckController) ready(ctx *gin.Context) {
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), readyTimeout)
	defer cancel()

	if err := c.store.Ping(pingCtx); err != nil {
		c.log.Warn("store not ready", "error", err)
		ctx.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"error":  "storage unavailable",
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}
