package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeAttendanceRecords(t *testing.T) {
	records, err := DecodeAttendanceRecords([]RawAttendanceRecord{
		{Date: "2024-01-01 08:00:00", BasedOn: "Batch", Status: "Present"},
		{Date: "2024-01-01 20:15:30.000000", BasedOn: "Hostel", Status: "Absent"},
		{Date: "2024-01-02", BasedOn: "Library", Status: "Present"},
	})
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, AttendanceCategoryBatch, records[0].Category)
	assert.True(t, records[0].Present())
	assert.Equal(t, "2024-01-01", records[1].DayKey())
	assert.False(t, records[1].Present())
	assert.Equal(t, AttendanceCategoryOther, records[2].Category)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), records[2].Date)
}

func TestDecodeAttendanceRecordsMalformedDate(t *testing.T) {
	_, err := DecodeAttendanceRecords([]RawAttendanceRecord{
		{Date: "2024-01-01 08:00:00", BasedOn: "Batch", Status: "Present"},
		{Date: "01/02/2024", BasedOn: "Hostel", Status: "Present"},
	})
	var malformed *MalformedRecordError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, 1, malformed.Index)
	assert.Equal(t, "01/02/2024", malformed.Date)
	assert.Contains(t, err.Error(), `record 1`)
	assert.Error(t, errors.Unwrap(err))
}

func TestParseAttendanceCategoryIsCaseSensitive(t *testing.T) {
	assert.Equal(t, AttendanceCategoryBatch, ParseAttendanceCategory("Batch"))
	assert.Equal(t, AttendanceCategoryHostel, ParseAttendanceCategory("Hostel"))
	assert.Equal(t, AttendanceCategoryOther, ParseAttendanceCategory("batch"))
	assert.Equal(t, "Other", AttendanceCategoryOther.String())
}
