package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/chillouts/beheer-api/internal/models"
	"github.com/chillouts/beheer-api/internal/service"
	"github.com/chillouts/beheer-api/pkg/response"
)

// AuditHandler exposes the audit trail endpoints.
type AuditHandler struct {
	audit *service.AuditService
}

// NewAuditHandler constructs AuditHandler.
func NewAuditHandler(audit *service.AuditService) *AuditHandler {
	return &AuditHandler{audit: audit}
}

// List godoc
// @Summary List audit entries
// @Description Newest entries first
// @Tags Audit
// @Produce json
// @Param resource query string false "Filter by resource"
// @Param action query string false "Filter by action"
// @Param limit query int false "Maximum number of entries"
// @Success 200 {object} response.Envelope
// @Router /audit [get]
func (h *AuditHandler) List(c *gin.Context) {
	var filter models.AuditFilter
	filter.Resource = c.Query("resource")
	filter.Action = c.Query("action")
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "0")); err == nil {
		filter.Limit = limit
	}

	logs, err := h.audit.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, logs, nil)
}

// Revert godoc
// @Summary Revert a student mutation
// @Description Restores the snapshot stored with the audit entry
// @Tags Audit
// @Produce json
// @Param id path string true "Audit entry ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /audit/{id}/revert [post]
func (h *AuditHandler) Revert(c *gin.Context) {
	log, err := h.audit.Revert(c.Request.Context(), c.Param("id"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, log, nil)
}
