package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/student-portal-api/internal/dto"
	"github.com/noah-isme/student-portal-api/internal/models"
	"github.com/noah-isme/student-portal-api/internal/service"
	"github.com/noah-isme/student-portal-api/pkg/response"
)

type reportService interface {
	Build(ctx context.Context, query dto.EnrollmentQuery) (*models.StudentReport, error)
	Export(ctx context.Context, query dto.ReportExportQuery) (*service.ReportFile, error)
}

// ReportHandler exposes the combined student report.
type ReportHandler struct {
	reports reportService
}

// NewReportHandler constructs handler.
func NewReportHandler(reports reportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Report godoc
// @Summary Combined enrollment, attendance and exam report
// @Tags Reports
// @Produce json
// @Param enrollment query string true "Program enrollment ID"
// @Success 200 {object} models.StudentReport
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /report [get]
func (h *ReportHandler) Report(c *gin.Context) {
	var query dto.EnrollmentQuery
	if !bindQuery(c, &query) {
		return
	}
	report, err := h.reports.Build(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, report)
}

// Export godoc
// @Summary Download the student report
// @Tags Reports
// @Produce application/pdf
// @Produce text/csv
// @Param enrollment query string true "Program enrollment ID"
// @Param format query string false "pdf (default) or csv"
// @Success 200 {file} file
// @Failure 400 {object} response.ErrorBody
// @Router /report/export [get]
func (h *ReportHandler) Export(c *gin.Context) {
	var query dto.ReportExportQuery
	if !bindQuery(c, &query) {
		return
	}
	file, err := h.reports.Export(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Body)
}
