package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/securepent/securepent-go/internal/infrastructure/observability/logging"
)

// RequestLogger writes one structured line per request to the system channel.
func RequestLogger(logger *logging.ChanneledLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.System().Debug("Request completed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"ip", c.ClientIP(),
		)
	}
}
