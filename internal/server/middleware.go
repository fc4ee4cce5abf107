package server

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/julianstephens/habitual/internal/logger"
)

// requestLogger routes access logs through the application logger
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("HTTP request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client", c.ClientIP(),
		)
	}
}
