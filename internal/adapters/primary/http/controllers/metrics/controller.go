package metricsController

import (
	"github.com/gin-gonic/gin"

	"github.com/admin/astro-api/internal/pkg/metrics"
)

type Controller struct {
	metrics *metrics.Metrics
}

func New(m *metrics.Metrics) *Controller {
	return &Controller{metrics: m}
}

func (c *Controller) RegisterRoutes(router *gin.Engine) {
	router.GET("/metrics", gin.WrapH(c.metrics.Handler()))
}
