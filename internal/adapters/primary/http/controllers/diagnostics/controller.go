package diagnosticsController

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/admin/astro-api/internal/usecases/diagnostics"
)

type Controller struct {
	DiagnosticsService *diagnostics.Service
	Log                *slog.Logger
}

func New(diagnosticsService *diagnostics.Service, log *slog.Logger) *Controller {
	return &Controller{
		DiagnosticsService: diagnosticsService,
		Log:                log,
	}
}

func (c *Controller) RegisterRoutes(router *gin.Engine) {
	router.GET("/", c.root)
	router.GET("/test", c.test)
}

func (c *Controller) root(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"message": "Astrology API is running"})
}

func (c *Controller) test(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, c.DiagnosticsService.Snapshot(ctx.Request.Context()))
}
