package handler

import (
	"context"
	"encoding/json"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/student-portal-api/internal/dto"
	"github.com/noah-isme/student-portal-api/internal/middleware"
	"github.com/noah-isme/student-portal-api/internal/models"
	"github.com/noah-isme/student-portal-api/pkg/response"
)

type enrollmentService interface {
	Get(ctx context.Context, query dto.EnrollmentQuery) (json.RawMessage, bool, error)
	ListByStudent(ctx context.Context, query dto.EnrollmentsByStudentQuery) (json.RawMessage, bool, error)
}

type attendanceService interface {
	Summary(ctx context.Context, query dto.AttendanceQuery) (models.AttendanceSummary, bool, error)
}

type resultService interface {
	List(ctx context.Context, query dto.EnrollmentQuery) (json.RawMessage, bool, error)
}

// PortalHandler exposes the pass-through endpoints consumed by the student portal.
type PortalHandler struct {
	enrollments  enrollmentService
	attendance   attendanceService
	results      resultService
	cacheEnabled bool
}

// NewPortalHandler constructs PortalHandler. When cacheEnabled is set, responses carry X-Cache.
func NewPortalHandler(enrollments enrollmentService, attendance attendanceService, results resultService, cacheEnabled bool) *PortalHandler {
	return &PortalHandler{enrollments: enrollments, attendance: attendance, results: results, cacheEnabled: cacheEnabled}
}

// Student godoc
// @Summary Get the program enrollment behind a student profile
// @Tags Portal
// @Produce json
// @Param enrollment query string true "Program enrollment ID"
// @Success 200 {object} object
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Failure 503 {object} response.ErrorBody
// @Router /student [get]
func (h *PortalHandler) Student(c *gin.Context) {
	h.enrollment(c)
}

// Enrollment godoc
// @Summary Get a program enrollment
// @Tags Portal
// @Produce json
// @Param enrollment query string true "Program enrollment ID"
// @Success 200 {object} object
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /enrollment [get]
func (h *PortalHandler) Enrollment(c *gin.Context) {
	h.enrollment(c)
}

func (h *PortalHandler) enrollment(c *gin.Context) {
	var query dto.EnrollmentQuery
	if !bindQuery(c, &query) {
		return
	}
	data, hit, err := h.enrollments.Get(c.Request.Context(), query)
	h.respond(c, data, hit, err)
}

// EnrollmentsByStudent godoc
// @Summary List enrollments by student ID or phone number
// @Tags Portal
// @Produce json
// @Param student_id query string false "Student ID"
// @Param phone query string false "Registered mobile number, at least 10 digits"
// @Success 200 {array} object
// @Failure 400 {object} response.ErrorBody
// @Router /enrollments-by-student [get]
func (h *PortalHandler) EnrollmentsByStudent(c *gin.Context) {
	var query dto.EnrollmentsByStudentQuery
	if !bindQuery(c, &query) {
		return
	}
	data, hit, err := h.enrollments.ListByStudent(c.Request.Context(), query)
	h.respond(c, data, hit, err)
}

// Attendance godoc
// @Summary Summarise a student's recent batch and hostel attendance
// @Tags Portal
// @Produce json
// @Param student_id query string true "Student ID"
// @Success 200 {object} models.AttendanceSummary
// @Failure 400 {object} response.ErrorBody
// @Failure 502 {object} response.ErrorBody
// @Router /attendance [get]
func (h *PortalHandler) Attendance(c *gin.Context) {
	var query dto.AttendanceQuery
	if !bindQuery(c, &query) {
		return
	}
	summary, hit, err := h.attendance.Summary(c.Request.Context(), query)
	h.respond(c, summary, hit, err)
}

// Result godoc
// @Summary List exam results for an enrollment
// @Tags Portal
// @Produce json
// @Param enrollment query string true "Program enrollment ID"
// @Success 200 {array} object
// @Failure 400 {object} response.ErrorBody
// @Router /result [get]
func (h *PortalHandler) Result(c *gin.Context) {
	var query dto.EnrollmentQuery
	if !bindQuery(c, &query) {
		return
	}
	data, hit, err := h.results.List(c.Request.Context(), query)
	h.respond(c, data, hit, err)
}

func (h *PortalHandler) respond(c *gin.Context, data interface{}, hit bool, err error) {
	if err != nil {
		response.Error(c, err)
		return
	}
	if h.cacheEnabled {
		middleware.SetCacheHit(c, hit)
	}
	response.OK(c, data)
}
