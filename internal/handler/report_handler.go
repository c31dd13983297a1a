package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campuskit/campus-records-api/internal/service"
	"github.com/campuskit/campus-records-api/pkg/response"
)

// ReportHandler serves rendered report downloads.
type ReportHandler struct {
	reports *service.ReportService
}

// NewReportHandler creates a new handler.
func NewReportHandler(reports *service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Audit godoc
// @Summary Export audit trail
// @Description Download the full audit trail as CSV or PDF
// @Tags Reports
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /reports/audit [get]
func (h *ReportHandler) Audit(c *gin.Context) {
	report, err := h.reports.ExportAudit(c.Request.Context(), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	serveReport(c, report)
}

// Enrollments godoc
// @Summary Export enrollment ledger
// @Description Download the enrollment ledger as CSV or PDF
// @Tags Reports
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv (default) or pdf"
// @Param teacher_identifier query string false "Restrict to one teacher"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /reports/enrollments [get]
func (h *ReportHandler) Enrollments(c *gin.Context) {
	report, err := h.reports.ExportEnrollments(c.Request.Context(), c.Query("teacher_identifier"), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	serveReport(c, report)
}

func serveReport(c *gin.Context, report *service.Report) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename))
	c.Data(http.StatusOK, report.ContentType, report.Content)
}
