package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/seo-check/seo-check/logging"
)

// RequestLogger emits one structured entry per request.
func RequestLogger(log logging.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"ip", c.ClientIP())
	}
}
