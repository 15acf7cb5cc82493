package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chillouts/beheer-api/internal/models"
	"github.com/chillouts/beheer-api/internal/service"
	appErrors "github.com/chillouts/beheer-api/pkg/errors"
	"github.com/chillouts/beheer-api/pkg/response"
)

// ReportHandler exposes the aggregated report endpoints.
type ReportHandler struct {
	reports *service.ReportService
	exports *service.ExportService
}

// NewReportHandler constructs ReportHandler.
func NewReportHandler(reports *service.ReportService, exports *service.ExportService) *ReportHandler {
	return &ReportHandler{reports: reports, exports: exports}
}

// Daily godoc
// @Summary Daily overview
// @Description Per-hour totals for one day
// @Tags Reports
// @Produce json
// @Param date path string true "Date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /reports/daily/{date} [get]
func (h *ReportHandler) Daily(c *gin.Context) {
	report, err := h.reports.Daily(c.Request.Context(), c.Param("date"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// Weekly godoc
// @Summary Weekly overview per klas
// @Tags Reports
// @Produce json
// @Param start_date query string false "Any date inside the week (YYYY-MM-DD)"
// @Param year query int false "Year, combined with week"
// @Param week query int false "ISO week number"
// @Success 200 {object} response.Envelope
// @Router /reports/weekly [get]
func (h *ReportHandler) Weekly(c *gin.Context) {
	var q models.WeeklyQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query"))
		return
	}
	weekly, err := h.reports.Weekly(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, weekly, nil)
}

// WeeklyStudents godoc
// @Summary Weekly overview per student
// @Tags Reports
// @Produce json
// @Param start_date query string false "Any date inside the week (YYYY-MM-DD)"
// @Param year query int false "Year, combined with week"
// @Param week query int false "ISO week number"
// @Success 200 {object} response.Envelope
// @Router /reports/weekly/students [get]
func (h *ReportHandler) WeeklyStudents(c *gin.Context) {
	var q models.WeeklyQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query"))
		return
	}
	weekly, err := h.reports.WeeklyByStudent(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, weekly, nil)
}

// Stats godoc
// @Summary Chill-out statistics
// @Tags Reports
// @Produce json
// @Param klas query string false "Filter by klas"
// @Param student_id query string false "Filter by student"
// @Param date_from query string false "Start date (YYYY-MM-DD, inclusive)"
// @Param date_to query string false "End date (YYYY-MM-DD, inclusive)"
// @Success 200 {object} response.Envelope
// @Router /reports/stats [get]
func (h *ReportHandler) Stats(c *gin.Context) {
	var q models.StatsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query"))
		return
	}
	stats, err := h.reports.Stats(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}

// ExportWeekly godoc
// @Summary Export the weekly overview
// @Tags Reports
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf" default(csv)
// @Param start_date query string false "Any date inside the week (YYYY-MM-DD)"
// @Success 200 {file} file
// @Router /reports/weekly/export [get]
func (h *ReportHandler) ExportWeekly(c *gin.Context) {
	var q models.WeeklyQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query"))
		return
	}
	file, err := h.exports.Weekly(c.Request.Context(), q, c.DefaultQuery("format", service.ExportFormatCSV))
	if err != nil {
		response.Error(c, err)
		return
	}
	serveExport(c, file)
}

// ExportStats godoc
// @Summary Export the statistics report
// @Tags Reports
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf" default(csv)
// @Param klas query string false "Filter by klas"
// @Success 200 {file} file
// @Router /reports/stats/export [get]
func (h *ReportHandler) ExportStats(c *gin.Context) {
	var q models.StatsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query"))
		return
	}
	file, err := h.exports.Stats(c.Request.Context(), q, c.DefaultQuery("format", service.ExportFormatCSV))
	if err != nil {
		response.Error(c, err)
		return
	}
	serveExport(c, file)
}

func serveExport(c *gin.Context, file *service.ExportFile) {
	c.Header("Content-Disposition", `attachment; filename="`+file.Filename+`"`)
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
