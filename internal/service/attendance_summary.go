package service

import (
	"math"

	"github.com/noah-isme/student-portal-api/internal/models"
)

type dayPresence struct {
	batch  bool
	hostel bool
}

// SummarizeAttendance classifies each recorded day. Records are applied in order, so the
// last status seen for a day and category wins. Batch presence outranks hostel presence and
// a day with neither is "At Home". Categories other than Batch and Hostel are ignored.
func SummarizeAttendance(records []models.AttendanceRecord) models.AttendanceSummary {
	summary := models.NewAttendanceSummary()
	days := make(map[string]*dayPresence)

	presence := func(day string) *dayPresence {
		p, ok := days[day]
		if !ok {
			p = &dayPresence{}
			days[day] = p
		}
		return p
	}

	for _, record := range records {
		day := record.DayKey()
		switch record.Category {
		case models.AttendanceCategoryBatch:
			summary.BatchSummary[day] = record.Status
			presence(day).batch = record.Present()
		case models.AttendanceCategoryHostel:
			summary.HostelSummary[day] = record.Status
			presence(day).hostel = record.Present()
		case models.AttendanceCategoryOther:
		}
	}

	for day, p := range days {
		switch {
		case p.batch:
			summary.DailySummary[day] = models.DayLocationAtBatch
		case p.hostel:
			summary.DailySummary[day] = models.DayLocationAtHostel
		default:
			summary.DailySummary[day] = models.DayLocationAtHome
		}
	}

	return summary
}

// AttendanceStatsFor counts locations and per-category presence for a summary.
func AttendanceStatsFor(summary models.AttendanceSummary) models.AttendanceStats {
	var stats models.AttendanceStats
	for _, location := range summary.DailySummary {
		switch location {
		case models.DayLocationAtBatch:
			stats.AtBatchDays++
		case models.DayLocationAtHostel:
			stats.AtHostelDays++
		case models.DayLocationAtHome:
			stats.AtHomeDays++
		}
	}
	stats.Batch = categoryStats(summary.BatchSummary)
	stats.Hostel = categoryStats(summary.HostelSummary)
	return stats
}

func categoryStats(statuses map[string]string) models.CategoryDayStats {
	stats := models.CategoryDayStats{RecordedDays: len(statuses)}
	for _, status := range statuses {
		switch status {
		case models.AttendanceStatusPresent:
			stats.PresentDays++
		case models.AttendanceStatusAbsent:
			stats.AbsentDays++
		}
	}
	if stats.RecordedDays > 0 {
		stats.PresentRate = roundTenth(float64(stats.PresentDays) / float64(stats.RecordedDays) * 100)
	}
	return stats
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
