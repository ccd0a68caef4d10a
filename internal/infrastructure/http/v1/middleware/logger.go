package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"ibeer/pkg/logger"
)

// Logger middleware puts log into the request context and logs
// every request with timing and status.
func Logger(log *logger.Logger) gin.HandlerFunc {
	access := log.WithComponent("http")
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Request = c.Request.WithContext(logger.WithLogger(c.Request.Context(), log))

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		access.WithContext(c.Request.Context()).Infow("http request",
			"method", c.Request.Method,
			"path", path,
			"query", query,
			"status", status,
			"latency_ms", latency.Milliseconds(),
			"client_ip", c.ClientIP(),
			"user_agent", c.Request.UserAgent(),
			"error", c.Errors.ByType(gin.ErrorTypePrivate).String(),
		)
	}
}
