package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"expensetrack.backend/pkg/metrics"
)

// MetricsMiddleware records every request into the aggregator, error
// responses included. The route template (":id" instead of the concrete
// value) keys the per-endpoint series so cardinality stays bounded.
func MetricsMiddleware(aggregator *metrics.Aggregator) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			// unmatched route (404): one shared bucket
			endpoint = "unmatched"
		}
		aggregator.Record(endpoint, c.Request.Method, c.Writer.Status(), time.Since(start).Seconds())
	}
}
