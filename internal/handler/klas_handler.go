package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chillouts/beheer-api/internal/models"
	"github.com/chillouts/beheer-api/internal/service"
	appErrors "github.com/chillouts/beheer-api/pkg/errors"
	"github.com/chillouts/beheer-api/pkg/response"
)

// KlasHandler exposes klas endpoints.
type KlasHandler struct {
	klassen *service.KlasService
}

// NewKlasHandler constructs KlasHandler.
func NewKlasHandler(klassen *service.KlasService) *KlasHandler {
	return &KlasHandler{klassen: klassen}
}

// List godoc
// @Summary List klassen with student counts
// @Tags Klassen
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /klassen [get]
func (h *KlasHandler) List(c *gin.Context) {
	klassen, err := h.klassen.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, klassen, nil)
}

// Rename godoc
// @Summary Rename a klas
// @Description Moves every student from one klas to another name
// @Tags Klassen
// @Accept json
// @Produce json
// @Param payload body models.RenameKlasRequest true "Rename payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /klassen/rename [post]
func (h *KlasHandler) Rename(c *gin.Context) {
	var req models.RenameKlasRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	klas, err := h.klassen.Rename(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, klas, nil)
}

// Delete godoc
// @Summary Delete an empty klas
// @Tags Klassen
// @Produce json
// @Param name path string true "Klas name"
// @Success 204
// @Failure 409 {object} response.Envelope
// @Router /klassen/{name} [delete]
func (h *KlasHandler) Delete(c *gin.Context) {
	if err := h.klassen.Delete(c.Request.Context(), c.Param("name"), claimsFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
