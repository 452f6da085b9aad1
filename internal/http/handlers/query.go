package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/daghub-backend/internal/domain/facet"
	"github.com/yungbote/daghub-backend/internal/http/response"
	"github.com/yungbote/daghub-backend/internal/platform/logger"
	"github.com/yungbote/daghub-backend/internal/services"
)

type QueryHandler struct {
	log   *logger.Logger
	query services.QueryService
}

func NewQueryHandler(log *logger.Logger, query services.QueryService) *QueryHandler {
	return &QueryHandler{log: log.With("handler", "QueryHandler"), query: query}
}

// POST /api/query
// body: {"technologies":[..],"channels":[..],"useCases":[..],"organisationTypes":[..],"stages":[..],"tags":[..],"countries":[..]}
func (h *QueryHandler) Query(c *gin.Context) {
	var sel facet.Selection
	if err := c.ShouldBindJSON(&sel); err != nil && !errors.Is(err, io.EOF) {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	res, err := h.query.Query(c.Request.Context(), sel)
	if err != nil {
		response.RespondFailure(c, h.log, err)
		return
	}
	response.RespondOK(c, res)
}
