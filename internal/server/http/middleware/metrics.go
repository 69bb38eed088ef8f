package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/PankiTrejd/naracki/internal/metrics"
)

// Metrics records request counters and latencies by route template.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		done := m.RequestStarted()
		c.Next()
		done(c.Request.Method, c.FullPath(), c.Writer.Status())
	}
}
