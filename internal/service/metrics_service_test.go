package service

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/student-portal-api/internal/models"
)

func TestMetricsServiceRecordsCacheRatio(t *testing.T) {
	m := NewMetricsService()
	m.RecordCacheOperation(true, time.Millisecond)
	m.RecordCacheOperation(false, time.Millisecond)
	m.RecordCacheOperation(true, time.Millisecond)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.cacheHits))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.cacheMisses))
	assert.InDelta(t, 0.666, testutil.ToFloat64(m.cacheHitRatio), 0.001)
}

func TestMetricsServiceAttendanceAndUpstream(t *testing.T) {
	m := NewMetricsService()
	m.ObserveAttendanceSummary(models.AttendanceSummary{DailySummary: map[string]models.DayLocation{
		"2024-01-01": models.DayLocationAtBatch,
		"2024-01-02": models.DayLocationAtBatch,
		"2024-01-03": models.DayLocationAtHome,
	}})
	m.ObserveUpstreamRequest("Student Attendance", http.StatusOK, 10*time.Millisecond)
	m.ObserveUpstreamRequest("Student Attendance", 0, 10*time.Millisecond)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.attendanceDays.WithLabelValues("At Batch")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.attendanceDays.WithLabelValues("At Home")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.upstreamDuration))
}

func TestMetricsServiceHandler(t *testing.T) {
	m := NewMetricsService()
	m.ObserveHTTPRequest(http.MethodGet, "/attendance", http.StatusOK, 5*time.Millisecond)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `http_requests_total{method="GET",path="/attendance",status="200"} 1`)

	var nilMetrics *MetricsService
	w = httptest.NewRecorder()
	nilMetrics.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	nilMetrics.ObserveUpstreamRequest("x", 200, time.Second)
}
