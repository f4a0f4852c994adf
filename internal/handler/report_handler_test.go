package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/student-portal-api/internal/dto"
	"github.com/noah-isme/student-portal-api/internal/models"
	"github.com/noah-isme/student-portal-api/internal/service"
	appErrors "github.com/noah-isme/student-portal-api/pkg/errors"
)

type reportServiceStub struct {
	report    *models.StudentReport
	file      *service.ReportFile
	err       error
	lastQuery dto.ReportExportQuery
}

func (s *reportServiceStub) Build(ctx context.Context, query dto.EnrollmentQuery) (*models.StudentReport, error) {
	return s.report, s.err
}

func (s *reportServiceStub) Export(ctx context.Context, query dto.ReportExportQuery) (*service.ReportFile, error) {
	s.lastQuery = query
	return s.file, s.err
}

func newGinContext(method, path string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, path, nil)
	return c, w
}

func TestReportHandlerReport(t *testing.T) {
	stub := &reportServiceStub{report: &models.StudentReport{
		Student:          json.RawMessage(`{"name":"ENR-0001"}`),
		EnrollmentStatus: models.EnrollmentStatusActive,
		Attendance:       models.NewAttendanceSummary(),
		ExamResults:      json.RawMessage(`[]`),
	}}
	handler := NewReportHandler(stub)

	c, w := newGinContext(http.MethodGet, "/report?enrollment=ENR-0001")
	handler.Report(c)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.JSONEq(t, `{"name":"ENR-0001"}`, string(body["student"]))
	assert.JSONEq(t, `"Active"`, string(body["enrollment_status"]))
	assert.NotContains(t, body, "Enrollment")
}

func TestReportHandlerExport(t *testing.T) {
	stub := &reportServiceStub{file: &service.ReportFile{Filename: "report_ENR-0001_ab12cd34.csv", ContentType: "text/csv", Body: []byte("Student Report\n")}}
	handler := NewReportHandler(stub)

	c, w := newGinContext(http.MethodGet, "/report/export?enrollment=ENR-0001&format=csv")
	handler.Export(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.ReportFormatCSV, stub.lastQuery.Format)
	assert.Equal(t, `attachment; filename="report_ENR-0001_ab12cd34.csv"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Equal(t, "Student Report\n", w.Body.String())
}

func TestReportHandlerExportUnsupportedFormat(t *testing.T) {
	stub := &reportServiceStub{err: appErrors.Clone(appErrors.ErrUnsupportedFormat, `format "xlsx" is not supported, use pdf or csv`)}
	handler := NewReportHandler(stub)

	c, w := newGinContext(http.MethodGet, "/report/export?enrollment=ENR-0001&format=xlsx")
	handler.Export(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "UNSUPPORTED_FORMAT")
}
