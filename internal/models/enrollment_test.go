package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrollmentStatusPrecedence(t *testing.T) {
	cases := []struct {
		name string
		body string
		want EnrollmentStatus
	}{
		{"cancelled wins", `{"docstatus":2,"is_dropped":1,"has_joined":1}`, EnrollmentStatusCancelled},
		{"dropped over joined", `{"docstatus":1,"is_dropped":true,"has_joined":1}`, EnrollmentStatusDropped},
		{"joined", `{"docstatus":1,"is_dropped":0,"has_joined":"1"}`, EnrollmentStatusJoined},
		{"active", `{"docstatus":0}`, EnrollmentStatusActive},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var e Enrollment
			require.NoError(t, json.Unmarshal([]byte(tc.body), &e))
			assert.Equal(t, tc.want, e.Status())
		})
	}
}

func TestEnrollmentDecodesLooseNumbers(t *testing.T) {
	var e Enrollment
	body := `{"name":"ENR-1","offered_amount":"125000.50","discount_amount":null,"new_offered_amount":100000,"course_fee_balance":""}`
	require.NoError(t, json.Unmarshal([]byte(body), &e))

	assert.Equal(t, Number(125000.50), e.OfferedAmount)
	assert.Equal(t, Number(0), e.DiscountAmount)
	assert.Equal(t, Number(100000), e.NewOfferedAmount)
	assert.Equal(t, Number(0), e.CourseFeeBalance)

	require.Error(t, json.Unmarshal([]byte(`{"offered_amount":"lots"}`), &e))
}

func TestEnrollmentHostelName(t *testing.T) {
	assert.Equal(t, "Boys Hostel A", Enrollment{HostelOrDayScholar: "Hosteller", Hostel: "Boys Hostel A"}.HostelName())
	assert.Equal(t, "NA", Enrollment{HostelOrDayScholar: "Day Scholar", Hostel: "Boys Hostel A"}.HostelName())
}

func TestReportFormatValid(t *testing.T) {
	assert.True(t, ReportFormatPDF.Valid())
	assert.True(t, ReportFormatCSV.Valid())
	assert.False(t, ReportFormat("xlsx").Valid())
}
