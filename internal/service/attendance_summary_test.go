package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/student-portal-api/internal/models"
)

func record(t *testing.T, date, category, status string) models.AttendanceRecord {
	t.Helper()
	parsed, err := time.Parse(models.AttendanceDateTimeLayout, date)
	require.NoError(t, err)
	return models.AttendanceRecord{Date: parsed, Category: models.ParseAttendanceCategory(category), Status: status}
}

func TestSummarizeAttendanceEmpty(t *testing.T) {
	summary := SummarizeAttendance(nil)
	assert.NotNil(t, summary.BatchSummary)
	assert.Empty(t, summary.BatchSummary)
	assert.Empty(t, summary.HostelSummary)
	assert.Empty(t, summary.DailySummary)
}

func TestSummarizeAttendanceBatchOutranksHostel(t *testing.T) {
	summary := SummarizeAttendance([]models.AttendanceRecord{
		record(t, "2024-01-01 08:00:00", "Batch", "Present"),
		record(t, "2024-01-01 20:00:00", "Hostel", "Present"),
	})

	assert.Equal(t, map[string]string{"2024-01-01": "Present"}, summary.BatchSummary)
	assert.Equal(t, map[string]string{"2024-01-01": "Present"}, summary.HostelSummary)
	assert.Equal(t, map[string]models.DayLocation{"2024-01-01": models.DayLocationAtBatch}, summary.DailySummary)
}

func TestSummarizeAttendanceHostelOnly(t *testing.T) {
	summary := SummarizeAttendance([]models.AttendanceRecord{
		record(t, "2024-02-02 08:00:00", "Hostel", "Present"),
	})

	assert.Empty(t, summary.BatchSummary)
	assert.Equal(t, map[string]models.DayLocation{"2024-02-02": models.DayLocationAtHostel}, summary.DailySummary)
}

func TestSummarizeAttendanceAbsentBatchIsHome(t *testing.T) {
	summary := SummarizeAttendance([]models.AttendanceRecord{
		record(t, "2024-03-03 08:00:00", "Batch", "Absent"),
	})

	assert.Equal(t, map[string]string{"2024-03-03": "Absent"}, summary.BatchSummary)
	assert.Empty(t, summary.HostelSummary)
	assert.Equal(t, map[string]models.DayLocation{"2024-03-03": models.DayLocationAtHome}, summary.DailySummary)
}

func TestSummarizeAttendanceAbsentBatchPresentHostel(t *testing.T) {
	summary := SummarizeAttendance([]models.AttendanceRecord{
		record(t, "2024-03-04 08:00:00", "Batch", "Absent"),
		record(t, "2024-03-04 21:00:00", "Hostel", "Present"),
	})

	assert.Equal(t, models.DayLocationAtHostel, summary.DailySummary["2024-03-04"])
}

func TestSummarizeAttendanceUnknownStatusIsNotPresent(t *testing.T) {
	summary := SummarizeAttendance([]models.AttendanceRecord{
		record(t, "2024-03-05 08:00:00", "Batch", "present"),
		record(t, "2024-03-05 21:00:00", "Hostel", "Half Day"),
	})

	assert.Equal(t, "present", summary.BatchSummary["2024-03-05"])
	assert.Equal(t, models.DayLocationAtHome, summary.DailySummary["2024-03-05"])
}

func TestSummarizeAttendanceIgnoresOtherCategories(t *testing.T) {
	summary := SummarizeAttendance([]models.AttendanceRecord{
		record(t, "2024-04-01 08:00:00", "Library", "Present"),
		record(t, "2024-04-02 08:00:00", "", "Present"),
	})

	assert.Empty(t, summary.BatchSummary)
	assert.Empty(t, summary.HostelSummary)
	assert.Empty(t, summary.DailySummary)
}

func TestSummarizeAttendanceLastDuplicateWins(t *testing.T) {
	summary := SummarizeAttendance([]models.AttendanceRecord{
		record(t, "2024-05-01 08:00:00", "Batch", "Present"),
		record(t, "2024-05-01 14:00:00", "Batch", "Absent"),
	})
	assert.Equal(t, "Absent", summary.BatchSummary["2024-05-01"])
	assert.Equal(t, models.DayLocationAtHome, summary.DailySummary["2024-05-01"])

	reversed := SummarizeAttendance([]models.AttendanceRecord{
		record(t, "2024-05-01 14:00:00", "Batch", "Absent"),
		record(t, "2024-05-01 08:00:00", "Batch", "Present"),
	})
	assert.Equal(t, "Present", reversed.BatchSummary["2024-05-01"])
	assert.Equal(t, models.DayLocationAtBatch, reversed.DailySummary["2024-05-01"])
}

func TestSummarizeAttendanceUnionInvariant(t *testing.T) {
	summary := SummarizeAttendance([]models.AttendanceRecord{
		record(t, "2024-06-01 08:00:00", "Batch", "Present"),
		record(t, "2024-06-02 20:00:00", "Hostel", "Absent"),
		record(t, "2024-06-03 08:00:00", "Batch", "Absent"),
		record(t, "2024-06-03 20:00:00", "Hostel", "Present"),
		record(t, "2024-06-04 08:00:00", "Other", "Present"),
	})

	for day := range summary.DailySummary {
		_, inBatch := summary.BatchSummary[day]
		_, inHostel := summary.HostelSummary[day]
		assert.True(t, inBatch || inHostel, "daily entry %s without a source entry", day)
	}
	for day := range summary.BatchSummary {
		assert.Contains(t, summary.DailySummary, day)
	}
	for day := range summary.HostelSummary {
		assert.Contains(t, summary.DailySummary, day)
	}
	for day, status := range summary.BatchSummary {
		if status == models.AttendanceStatusPresent {
			assert.Equal(t, models.DayLocationAtBatch, summary.DailySummary[day])
		}
	}
	assert.Len(t, summary.DailySummary, 3)
	assert.Equal(t, models.DayLocationAtHome, summary.DailySummary["2024-06-02"])
	assert.Equal(t, models.DayLocationAtHostel, summary.DailySummary["2024-06-03"])
}

func TestAttendanceStatsFor(t *testing.T) {
	summary := SummarizeAttendance([]models.AttendanceRecord{
		record(t, "2024-06-01 08:00:00", "Batch", "Present"),
		record(t, "2024-06-02 08:00:00", "Batch", models.AttendanceStatusAbsent),
		record(t, "2024-06-03 08:00:00", "Batch", "Leave"),
		record(t, "2024-06-02 20:00:00", "Hostel", "Present"),
	})

	stats := AttendanceStatsFor(summary)
	assert.Equal(t, 1, stats.AtBatchDays)
	assert.Equal(t, 1, stats.AtHostelDays)
	assert.Equal(t, 1, stats.AtHomeDays)
	assert.Equal(t, models.CategoryDayStats{RecordedDays: 3, PresentDays: 1, AbsentDays: 1, PresentRate: 33.3}, stats.Batch)
	assert.Equal(t, models.CategoryDayStats{RecordedDays: 1, PresentDays: 1, PresentRate: 100}, stats.Hostel)
	assert.Equal(t, models.AttendanceStats{}, AttendanceStatsFor(models.NewAttendanceSummary()))
}
