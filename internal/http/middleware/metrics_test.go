package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/yungbote/daghub-backend/internal/observability"
)

func TestMetricsLabelsByRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := observability.New()
	r := gin.New()
	r.Use(Metrics(m))
	r.GET("/api/dataentry/solutions/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET(MetricsPath, gin.WrapH(m.Handler()))

	for _, path := range []string{"/api/dataentry/solutions/1", "/api/dataentry/solutions/2", "/nope", MetricsPath} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	want := `
# HELP daghub_api_requests_total Total API requests by method/route/status.
# TYPE daghub_api_requests_total counter
daghub_api_requests_total{method="GET",route="/api/dataentry/solutions/:id",status="200"} 2
daghub_api_requests_total{method="GET",route="unmatched",status="404"} 1
`
	if err := testutil.GatherAndCompare(m.Registry(), strings.NewReader(want), "daghub_api_requests_total"); err != nil {
		t.Fatalf("api requests: %v", err)
	}
}
