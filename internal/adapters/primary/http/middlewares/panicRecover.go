package middlewares

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
)

func RecoveryLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("panic caught",
					"panic", r,
					"method", c.Request.Method,
					"path", c.Request.URL.Path,
					"route", c.FullPath(),
					"client_ip", c.ClientIP(),
				)

				// стек отдельной записью, иначе теряется в console-выводе
				log.Error("stack trace", "stack", string(debug.Stack()))

				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"detail": "Internal server error",
				})
			}
		}()
		c.Next()
	}
}
