package middleware

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/daghub-backend/internal/observability"
)

// MetricsPath is where the router mounts the Prometheus scrape handler.
const MetricsPath = "/metrics"

const unmatchedRoute = "unmatched"

// Metrics counts requests per route template, so every
// /api/dataentry/solutions/:id lookup shares one series. Scrapes are not
// observed.
func Metrics(m *observability.Metrics) gin.HandlerFunc {
	if m == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		if c.Request.URL.Path == MetricsPath {
			c.Next()
			return
		}
		start := time.Now()
		m.ApiInflightInc()
		defer m.ApiInflightDec()

		c.Next()

		m.ObserveAPI(strings.ToUpper(c.Request.Method), routeLabel(c), strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}

func routeLabel(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	return unmatchedRoute
}
