package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chillouts/beheer-api/internal/models"
	"github.com/chillouts/beheer-api/internal/service"
	appErrors "github.com/chillouts/beheer-api/pkg/errors"
	"github.com/chillouts/beheer-api/pkg/response"
)

// RecordHandler exposes the daily chill-out registration endpoints.
type RecordHandler struct {
	records *service.RecordService
}

// NewRecordHandler constructs RecordHandler.
func NewRecordHandler(records *service.RecordService) *RecordHandler {
	return &RecordHandler{records: records}
}

// GetDay godoc
// @Summary Get the registration sheet for a day
// @Description Returns the stored entries, or an empty sheet when the day has none yet
// @Tags Records
// @Produce json
// @Param date path string true "Date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /records/{date} [get]
func (h *RecordHandler) GetDay(c *gin.Context) {
	record, err := h.records.GetDay(c.Request.Context(), c.Param("date"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// SetEntries godoc
// @Summary Set chill-out entries for a student and hour
// @Description Sets the desired count for one category slot. Raising the
// @Description count past the hour cap leaves the sheet unchanged.
// @Tags Records
// @Accept json
// @Produce json
// @Param date path string true "Date (YYYY-MM-DD)"
// @Param payload body models.SetEntriesRequest true "Entry payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /records/{date}/entries [post]
func (h *RecordHandler) SetEntries(c *gin.Context) {
	var req models.SetEntriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	record, err := h.records.SetEntries(c.Request.Context(), c.Param("date"), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}
