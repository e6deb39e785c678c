package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/admin/astro-api/internal/pkg/metrics"
)

// Metrics считает запросы по шаблону маршрута, а не по сырому пути
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
