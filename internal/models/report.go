package models

import "encoding/json"

// ReportFormat enumerates export formats.
type ReportFormat string

const (
	ReportFormatPDF ReportFormat = "pdf"
	ReportFormatCSV ReportFormat = "csv"
)

// Valid returns true when the format can be rendered.
func (f ReportFormat) Valid() bool {
	return f == ReportFormatPDF || f == ReportFormatCSV
}

// StudentReport combines enrollment, attendance and exam data for one enrollment.
type StudentReport struct {
	Student          json.RawMessage   `json:"student"`
	EnrollmentStatus EnrollmentStatus  `json:"enrollment_status"`
	Attendance       AttendanceSummary `json:"attendance"`
	AttendanceStats  AttendanceStats   `json:"attendance_stats"`
	ExamResults      json.RawMessage   `json:"exam_results"`
	ExamStats        ExamStats         `json:"exam_stats"`

	Enrollment Enrollment   `json:"-"`
	Exams      []ExamResult `json:"-"`
}
