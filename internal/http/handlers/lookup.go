package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/daghub-backend/internal/domain/dimension"
	"github.com/yungbote/daghub-backend/internal/domain/facet"
	"github.com/yungbote/daghub-backend/internal/http/response"
	"github.com/yungbote/daghub-backend/internal/platform/logger"
	"github.com/yungbote/daghub-backend/internal/services"
)

// LookupHandler serves the read-only dimension, entry and facet lookups.
type LookupHandler struct {
	log     *logger.Logger
	lookups services.LookupService
}

func NewLookupHandler(log *logger.Logger, lookups services.LookupService) *LookupHandler {
	return &LookupHandler{log: log.With("handler", "LookupHandler"), lookups: lookups}
}

// GET /api/dataentry/:dimension
func (h *LookupHandler) ListDimension(c *gin.Context) {
	kind, ok := dimension.ParseKind(c.Param("dimension"))
	if !ok {
		response.RespondError(c, http.StatusNotFound, "unknown_dimension", fmt.Errorf("unknown dimension %q", c.Param("dimension")))
		return
	}
	rows, err := h.lookups.List(c.Request.Context(), kind)
	if err != nil {
		response.RespondFailure(c, h.log, err)
		return
	}
	response.RespondOK(c, rows)
}

// GET /api/dataentry/countries/:id
func (h *LookupHandler) GetCountry(c *gin.Context) {
	row, err := h.lookups.Country(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondFailure(c, h.log, err)
		return
	}
	response.RespondOK(c, row)
}

// GET /api/dataentry/useCases/:id
func (h *LookupHandler) GetUseCase(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	row, err := h.lookups.UseCase(c.Request.Context(), id)
	if err != nil {
		response.RespondFailure(c, h.log, err)
		return
	}
	response.RespondOK(c, row)
}

// GET /api/dataentry/organisations/:id
func (h *LookupHandler) GetOrganisation(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	row, err := h.lookups.Organisation(c.Request.Context(), id)
	if err != nil {
		response.RespondFailure(c, h.log, err)
		return
	}
	response.RespondOK(c, row)
}

// GET /api/dataentry/solutions/:id and /api/find/solution/:id
func (h *LookupHandler) GetSolution(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	row, err := h.lookups.Solution(c.Request.Context(), id)
	if err != nil {
		response.RespondFailure(c, h.log, err)
		return
	}
	response.RespondOK(c, row)
}

// GET /api/find/:facet
func (h *LookupHandler) FindFacetValues(c *gin.Context) {
	f, ok := facet.ParseFacet(c.Param("facet"))
	if !ok {
		response.RespondError(c, http.StatusNotFound, "unknown_facet", fmt.Errorf("unknown facet %q", c.Param("facet")))
		return
	}
	rows, err := h.lookups.FacetValues(c.Request.Context(), f)
	if err != nil {
		response.RespondFailure(c, h.log, err)
		return
	}
	response.RespondOK(c, rows)
}

func intParam(c *gin.Context, name string) (int, bool) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil || v <= 0 {
		response.RespondError(c, http.StatusBadRequest, "invalid_"+name, fmt.Errorf("%s must be a positive integer", name))
		return 0, false
	}
	return v, true
}
