package middleware

import (
	"strconv"
	"time"

	"github.com/SscSPs/heartchain_backend/internal/platform/metrics"
	"github.com/gin-gonic/gin"
)

// PrometheusMiddleware records request counts and latency per route template.
func PrometheusMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath() // route template, e.g. /api/campaigns/:id

		c.Next()

		if m == nil || path == "" {
			return
		}
		m.ObserveHTTP(c.Request.Method, path, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
