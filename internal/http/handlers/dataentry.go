package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/daghub-backend/internal/domain/entry"
	"github.com/yungbote/daghub-backend/internal/domain/ownership"
	"github.com/yungbote/daghub-backend/internal/http/response"
	"github.com/yungbote/daghub-backend/internal/platform/apierr"
	"github.com/yungbote/daghub-backend/internal/platform/ctxutil"
	"github.com/yungbote/daghub-backend/internal/platform/logger"
	"github.com/yungbote/daghub-backend/internal/services"
)

// DataEntryHandler serves the authenticated organisation and solution writes.
type DataEntryHandler struct {
	log     *logger.Logger
	entries services.DataEntryService
}

func NewDataEntryHandler(log *logger.Logger, entries services.DataEntryService) *DataEntryHandler {
	return &DataEntryHandler{log: log.With("handler", "DataEntryHandler"), entries: entries}
}

type bulkFailure struct {
	response.ErrorEnvelope
	services.BulkResult
}

// POST /api/dataentry/organisations
func (h *DataEntryHandler) CreateOrganisation(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var d entry.OrganisationDraft
	if !bindDraft(c, &d) {
		return
	}
	res, err := h.entries.CreateOrganisation(c.Request.Context(), actor, d)
	if err != nil {
		response.RespondFailure(c, h.log, err)
		return
	}
	response.RespondCreated(c, res)
}

// PUT /api/dataentry/organisations/:id
func (h *DataEntryHandler) UpdateOrganisation(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	var d entry.OrganisationDraft
	if !bindDraft(c, &d) {
		return
	}
	res, err := h.entries.UpdateOrganisation(c.Request.Context(), actor, id, d)
	if err != nil {
		response.RespondFailure(c, h.log, err)
		return
	}
	response.RespondOK(c, res)
}

// DELETE /api/dataentry/organisations/:id
func (h *DataEntryHandler) DeleteOrganisation(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	res, err := h.entries.DeleteOrganisation(c.Request.Context(), actor, id)
	if err != nil {
		response.RespondFailure(c, h.log, err)
		return
	}
	response.RespondOK(c, res)
}

// POST /api/dataentry/organisations/bulk
func (h *DataEntryHandler) BulkOrganisations(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var drafts []entry.OrganisationDraft
	if !bindDraft(c, &drafts) {
		return
	}
	res, err := h.entries.BulkOrganisations(c.Request.Context(), actor, drafts)
	h.respondBulk(c, res, err)
}

// POST /api/dataentry/solutions
func (h *DataEntryHandler) CreateSolution(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var d entry.SolutionDraft
	if !bindDraft(c, &d) {
		return
	}
	res, err := h.entries.CreateSolution(c.Request.Context(), actor, d)
	if err != nil {
		response.RespondFailure(c, h.log, err)
		return
	}
	response.RespondCreated(c, res)
}

// PUT /api/dataentry/solutions/:id
func (h *DataEntryHandler) UpdateSolution(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	var d entry.SolutionDraft
	if !bindDraft(c, &d) {
		return
	}
	res, err := h.entries.UpdateSolution(c.Request.Context(), actor, id, d)
	if err != nil {
		response.RespondFailure(c, h.log, err)
		return
	}
	response.RespondOK(c, res)
}

// DELETE /api/dataentry/solutions/:id
func (h *DataEntryHandler) DeleteSolution(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	res, err := h.entries.DeleteSolution(c.Request.Context(), actor, id)
	if err != nil {
		response.RespondFailure(c, h.log, err)
		return
	}
	response.RespondOK(c, res)
}

// POST /api/dataentry/solutions/bulk
func (h *DataEntryHandler) BulkSolutions(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var drafts []entry.SolutionDraft
	if !bindDraft(c, &drafts) {
		return
	}
	res, err := h.entries.BulkSolutions(c.Request.Context(), actor, drafts)
	h.respondBulk(c, res, err)
}

// respondBulk reports partial progress next to the error of the item that
// stopped the import.
func (h *DataEntryHandler) respondBulk(c *gin.Context, res services.BulkResult, err error) {
	if err == nil {
		response.RespondOK(c, res)
		return
	}
	ae := apierr.From(err)
	if ae.Status >= http.StatusInternalServerError {
		h.log.Error("bulk import failed", "error", err, "applied", res.Applied)
	}
	c.JSON(ae.Status, bulkFailure{
		ErrorEnvelope: response.ErrorEnvelope{Error: response.APIError{Message: ae.Message(), Code: ae.Code}},
		BulkResult:    res,
	})
}

func (h *DataEntryHandler) actor(c *gin.Context) (ownership.Identity, bool) {
	id, ok := ctxutil.GetIdentity(c.Request.Context())
	if !ok || !id.Valid() {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return ownership.Identity{}, false
	}
	return id, true
}

func bindDraft(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return false
	}
	return true
}
