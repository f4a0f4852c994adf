package dto

import "github.com/noah-isme/student-portal-api/internal/models"

// EnrollmentQuery selects one program enrollment (GET /student, /enrollment, /result, /report).
type EnrollmentQuery struct {
	Enrollment string `form:"enrollment" validate:"required"`
}

// EnrollmentsByStudentQuery selects enrollments by student ID or by phone number. Exactly one must be set.
type EnrollmentsByStudentQuery struct {
	StudentID string `form:"student_id"`
	Phone     string `form:"phone" validate:"omitempty,number,min=10"`
}

// AttendanceQuery selects the attendance of one student.
type AttendanceQuery struct {
	StudentID string `form:"student_id" validate:"required"`
}

// ReportExportQuery selects a report and its rendering.
type ReportExportQuery struct {
	Enrollment string              `form:"enrollment" validate:"required"`
	Format     models.ReportFormat `form:"format"`
}
