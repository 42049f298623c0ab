package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/evelane/tabsplit/internal/metrics"
)

// Metrics returns a middleware that records request latency per route.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RequestDuration.WithLabelValues(
			c.Request.Method,
			route,
			strconv.Itoa(c.Writer.Status()),
		).Observe(time.Since(start).Seconds())
	}
}
