package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/student-portal-api/internal/dto"
	"github.com/noah-isme/student-portal-api/internal/models"
	"github.com/noah-isme/student-portal-api/pkg/upstream"
)

var attendanceFields = []string{"date", "based_on", "status"}

// AttendanceService fetches a student's recent attendance and classifies every recorded day.
type AttendanceService struct {
	upstream   documentFetcher
	cache      *CacheService
	metrics    *MetricsService
	docType    string
	windowDays int
	validator  *validator.Validate
	logger     *zap.Logger
	now        func() time.Time
}

// NewAttendanceService constructs AttendanceService. windowDays bounds how far back records are read.
func NewAttendanceService(upstream documentFetcher, cache *CacheService, metrics *MetricsService, docType string, windowDays int, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if windowDays <= 0 {
		windowDays = 90
	}
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{
		upstream:   upstream,
		cache:      cache,
		metrics:    metrics,
		docType:    docType,
		windowDays: windowDays,
		validator:  validate,
		logger:     logger,
		now:        time.Now,
	}
}

// Summary returns the attendance summary for the window ending today. The boolean reports a cache hit.
func (s *AttendanceService) Summary(ctx context.Context, query dto.AttendanceQuery) (models.AttendanceSummary, bool, error) {
	query.StudentID = strings.TrimSpace(query.StudentID)
	if err := validateQuery(s.validator, query); err != nil {
		return models.AttendanceSummary{}, false, err
	}

	since := s.now().AddDate(0, 0, -s.windowDays).Format(models.AttendanceDateLayout)
	key := CacheKey("attendance", query.StudentID, since)

	return Remember(ctx, s.cache, key, func(ctx context.Context) (models.AttendanceSummary, error) {
		records, err := s.fetch(ctx, query.StudentID, since)
		if err != nil {
			return models.AttendanceSummary{}, mapUpstreamError(s.logger, s.docType, err)
		}
		summary := SummarizeAttendance(records)
		s.metrics.ObserveAttendanceSummary(summary)
		s.logger.Debug("attendance summarized",
			zap.String("student_id", query.StudentID),
			zap.Int("records", len(records)),
			zap.Int("days", len(summary.DailySummary)),
		)
		return summary, nil
	})
}

func (s *AttendanceService) fetch(ctx context.Context, studentID, since string) ([]models.AttendanceRecord, error) {
	data, err := s.upstream.ListDocs(ctx, s.docType, upstream.ListQuery{
		Filters: []upstream.Filter{
			{Field: "student", Operator: "=", Value: studentID},
			{Field: "date", Operator: ">=", Value: since},
		},
		Fields:  attendanceFields,
		OrderBy: "date asc",
	})
	if err != nil {
		return nil, err
	}

	var rows []models.RawAttendanceRecord
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, err
	}
	return models.DecodeAttendanceRecords(rows)
}
