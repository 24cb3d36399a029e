package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/updrift/updrift/internal/logging"
)

// RequestLogger logs each request through the application logger. Gin's own
// console logger stays disabled; everything flows through one sink.
func RequestLogger(logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		logger.LogHTTPRequest(
			c.Request.Method,
			path,
			c.ClientIP(),
			c.Writer.Status(),
			c.Writer.Size(),
			time.Since(start).String(),
		)
	}
}
