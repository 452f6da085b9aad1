package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/daghub-backend/internal/platform/apierr"
	"github.com/yungbote/daghub-backend/internal/platform/ctxutil"
	"github.com/yungbote/daghub-backend/internal/platform/logger"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondFailure classifies err and writes the error envelope. Server-side
// failures are logged with the request id and answered with an opaque message.
func RespondFailure(c *gin.Context, log *logger.Logger, err error) {
	ae := apierr.From(err)
	if ae.Status >= http.StatusInternalServerError && log != nil {
		fields := []interface{}{"error", err, "code", ae.Code, "path", c.FullPath()}
		if reqID := ctxutil.RequestID(c.Request.Context()); reqID != "" {
			fields = append(fields, "request_id", reqID)
		}
		log.Error("request failed", fields...)
	}
	c.JSON(ae.Status, ErrorEnvelope{
		Error: APIError{
			Message: ae.Message(),
			Code:    ae.Code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
