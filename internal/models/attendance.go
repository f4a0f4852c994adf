package models

import (
	"fmt"
	"strings"
	"time"
)

// Layouts accepted for upstream attendance dates. Fractional seconds are tolerated by time.Parse.
const (
	AttendanceDateTimeLayout = "2006-01-02 15:04:05"
	AttendanceDateLayout     = "2006-01-02"
)

// AttendanceStatusPresent is the only status value that counts as presence.
const AttendanceStatusPresent = "Present"

// AttendanceStatusAbsent is counted separately in attendance stats.
const AttendanceStatusAbsent = "Absent"

// AttendanceCategory is the axis an attendance record was taken against.
type AttendanceCategory int

const (
	AttendanceCategoryOther AttendanceCategory = iota
	AttendanceCategoryBatch
	AttendanceCategoryHostel
)

// ParseAttendanceCategory maps the upstream `based_on` value. Unknown values are Other.
func ParseAttendanceCategory(raw string) AttendanceCategory {
	switch raw {
	case "Batch":
		return AttendanceCategoryBatch
	case "Hostel":
		return AttendanceCategoryHostel
	default:
		return AttendanceCategoryOther
	}
}

func (c AttendanceCategory) String() string {
	switch c {
	case AttendanceCategoryBatch:
		return "Batch"
	case AttendanceCategoryHostel:
		return "Hostel"
	default:
		return "Other"
	}
}

// DayLocation is where a student is inferred to have been on a day.
type DayLocation string

const (
	DayLocationAtBatch  DayLocation = "At Batch"
	DayLocationAtHostel DayLocation = "At Hostel"
	DayLocationAtHome   DayLocation = "At Home"
)

// RawAttendanceRecord mirrors one upstream attendance row.
type RawAttendanceRecord struct {
	Date    string `json:"date"`
	BasedOn string `json:"based_on"`
	Status  string `json:"status"`
}

// AttendanceRecord is a validated attendance row.
type AttendanceRecord struct {
	Date     time.Time
	Category AttendanceCategory
	Status   string
}

// Present reports whether the status is the literal presence marker.
func (r AttendanceRecord) Present() bool {
	return r.Status == AttendanceStatusPresent
}

// DayKey is the calendar-day key used by every summary map.
func (r AttendanceRecord) DayKey() string {
	return r.Date.Format(AttendanceDateLayout)
}

// AttendanceSummary is the per-day attendance payload returned by /attendance.
type AttendanceSummary struct {
	BatchSummary  map[string]string      `json:"batch_summary"`
	HostelSummary map[string]string      `json:"hostel_summary"`
	DailySummary  map[string]DayLocation `json:"daily_summary"`
}

// NewAttendanceSummary returns a summary with empty, non-nil maps.
func NewAttendanceSummary() AttendanceSummary {
	return AttendanceSummary{
		BatchSummary:  map[string]string{},
		HostelSummary: map[string]string{},
		DailySummary:  map[string]DayLocation{},
	}
}

// MalformedRecordError identifies an upstream attendance row whose date could not be parsed.
type MalformedRecordError struct {
	Index int
	Date  string
	Err   error
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("attendance record %d has malformed date %q", e.Index, e.Date)
}

func (e *MalformedRecordError) Unwrap() error {
	return e.Err
}

// DecodeAttendanceRecords validates raw rows. The first unparseable date fails the whole batch.
func DecodeAttendanceRecords(raw []RawAttendanceRecord) ([]AttendanceRecord, error) {
	records := make([]AttendanceRecord, 0, len(raw))
	for i, row := range raw {
		date, err := parseAttendanceDate(row.Date)
		if err != nil {
			return nil, &MalformedRecordError{Index: i, Date: row.Date, Err: err}
		}
		records = append(records, AttendanceRecord{
			Date:     date,
			Category: ParseAttendanceCategory(row.BasedOn),
			Status:   row.Status,
		})
	}
	return records, nil
}

func parseAttendanceDate(raw string) (time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	t, err := time.Parse(AttendanceDateTimeLayout, trimmed)
	if err == nil {
		return t, nil
	}
	if t, dateErr := time.Parse(AttendanceDateLayout, trimmed); dateErr == nil {
		return t, nil
	}
	return time.Time{}, err
}

// AttendanceStats aggregates a summary for the combined report.
type AttendanceStats struct {
	AtBatchDays  int              `json:"at_batch_days"`
	AtHostelDays int              `json:"at_hostel_days"`
	AtHomeDays   int              `json:"at_home_days"`
	Batch        CategoryDayStats `json:"batch"`
	Hostel       CategoryDayStats `json:"hostel"`
}

// CategoryDayStats counts recorded days for one category.
type CategoryDayStats struct {
	RecordedDays int     `json:"recorded_days"`
	PresentDays  int     `json:"present_days"`
	AbsentDays   int     `json:"absent_days"`
	PresentRate  float64 `json:"present_rate"`
}
