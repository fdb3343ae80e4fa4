package middleware

import (
	"cafe-directory/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics records request counts and latency labelled by route template.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}
		done := metrics.RequestStarted()
		c.Next()
		done(c.Request.Method, c.FullPath(), c.Writer.Status())
	}
}
