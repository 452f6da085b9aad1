package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/daghub-backend/internal/platform/ctxutil"
)

func traceRequest(t *testing.T, header http.Header) (*httptest.ResponseRecorder, *ctxutil.TraceData) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	var seen *ctxutil.TraceData
	r := gin.New()
	r.Use(AttachTraceContext())
	r.POST("/api/query", func(c *gin.Context) {
		seen = ctxutil.GetTraceData(c.Request.Context())
		c.Status(http.StatusOK)
	})
	req := httptest.NewRequest(http.MethodPost, "/api/query", nil)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if seen == nil {
		t.Fatalf("handler saw no trace data")
	}
	return rec, seen
}

func TestAttachTraceContextKeepsCallerIDs(t *testing.T) {
	h := http.Header{}
	h.Set(headerRequestID, "import-2024-07-batch-3")
	h.Set(headerTraceID, "4bf92f3577b34da6a3ce929d0e0e4736")
	rec, td := traceRequest(t, h)

	if td.RequestID != "import-2024-07-batch-3" {
		t.Fatalf("request id: want=import-2024-07-batch-3 got=%q", td.RequestID)
	}
	if td.TraceID != "4bf92f3577b34da6a3ce929d0e0e4736" {
		t.Fatalf("trace id: want=4bf92f3577b34da6a3ce929d0e0e4736 got=%q", td.TraceID)
	}
	if got := rec.Header().Get(headerRequestID); got != td.RequestID {
		t.Fatalf("echoed request id: want=%q got=%q", td.RequestID, got)
	}
}

func TestAttachTraceContextReplacesUnusableRequestIDs(t *testing.T) {
	cases := map[string]string{
		"missing":      "",
		"control char": "abc\x00def",
		"spaces":       "two words",
		"too long":     strings.Repeat("a", maxRequestIDLen+1),
	}
	for name, id := range cases {
		t.Run(name, func(t *testing.T) {
			h := http.Header{}
			if id != "" {
				h[headerRequestID] = []string{id}
			}
			rec, td := traceRequest(t, h)
			if td.RequestID == id || !validRequestID(td.RequestID) {
				t.Fatalf("request id: want generated got=%q", td.RequestID)
			}
			if rec.Header().Get(headerRequestID) != td.RequestID {
				t.Fatalf("echoed request id: want=%q got=%q", td.RequestID, rec.Header().Get(headerRequestID))
			}
			if td.TraceID == "" {
				t.Fatalf("trace id: want generated got empty")
			}
		})
	}
}

func TestRequestIDOutsideRequest(t *testing.T) {
	if got := ctxutil.RequestID(context.Background()); got != "" {
		t.Fatalf("request id: want empty got=%q", got)
	}
}
