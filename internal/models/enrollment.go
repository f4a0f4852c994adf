package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// EnrollmentStatus is the label shown for a program enrollment.
type EnrollmentStatus string

const (
	EnrollmentStatusActive    EnrollmentStatus = "Active"
	EnrollmentStatusJoined    EnrollmentStatus = "Joined"
	EnrollmentStatusDropped   EnrollmentStatus = "Dropped"
	EnrollmentStatusCancelled EnrollmentStatus = "Cancelled"
)

// docStatusCancelled is the upstream docstatus of a cancelled document.
const docStatusCancelled = 2

// Enrollment is the subset of an upstream program enrollment the portal reads.
// The full upstream document is passed through untouched; this view feeds reports.
type Enrollment struct {
	Name               string `json:"name"`
	Student            string `json:"student"`
	StudentName        string `json:"student_name"`
	StudentMobile      string `json:"student_mobile"`
	Program            string `json:"program"`
	Batch              string `json:"student_batch_name"`
	PreferredCentre    string `json:"preferred_centre"`
	HostelOrDayScholar string `json:"hostel_or_day_scholar"`
	Hostel             string `json:"hostel"`
	Creation           string `json:"creation"`
	DropoutReason      string `json:"dropout_reason"`
	DocStatus          Number `json:"docstatus"`
	IsDropped          Flag   `json:"is_dropped"`
	HasJoined          Flag   `json:"has_joined"`

	OfferedAmount      Number `json:"offered_amount"`
	DiscountAmount     Number `json:"discount_amount"`
	NewOfferedAmount   Number `json:"new_offered_amount"`
	TotalCourseFeePaid Number `json:"total_course_fee_paid"`
	CourseFeeBalance   Number `json:"course_fee_balance"`
}

// Status derives the enrollment label; cancellation wins over dropping, dropping over joining.
func (e Enrollment) Status() EnrollmentStatus {
	switch {
	case int(e.DocStatus) == docStatusCancelled:
		return EnrollmentStatusCancelled
	case bool(e.IsDropped):
		return EnrollmentStatusDropped
	case bool(e.HasJoined):
		return EnrollmentStatusJoined
	default:
		return EnrollmentStatusActive
	}
}

// HostelName returns the hostel for hostellers and "NA" for day scholars.
func (e Enrollment) HostelName() string {
	if e.HostelOrDayScholar == "Hosteller" && e.Hostel != "" {
		return e.Hostel
	}
	return "NA"
}

// EnrollmentListFields are requested when listing enrollments for a student.
var EnrollmentListFields = []string{
	"name", "student", "student_name", "program", "creation",
	"is_dropped", "has_joined", "dropout_reason",
}

// Flag decodes upstream check fields sent as 0/1, booleans or strings.
type Flag bool

// UnmarshalJSON implements json.Unmarshaler.
func (f *Flag) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(bytes.TrimSpace(data)), `"`)
	switch strings.ToLower(raw) {
	case "1", "true":
		*f = true
	default:
		*f = false
	}
	return nil
}

// Number decodes upstream numeric fields sent as numbers, numeric strings or null.
type Number float64

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*n = 0
		return nil
	}
	var f float64
	if err := json.Unmarshal(trimmed, &f); err == nil {
		*n = Number(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		*n = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*n = Number(f)
	return nil
}
