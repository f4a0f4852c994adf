package service

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/student-portal-api/internal/dto"
	"github.com/noah-isme/student-portal-api/internal/models"
	appErrors "github.com/noah-isme/student-portal-api/pkg/errors"
	"github.com/noah-isme/student-portal-api/pkg/upstream"
)

// EnrollmentService reads program enrollments from the student-management API.
type EnrollmentService struct {
	upstream  documentFetcher
	cache     *CacheService
	docType   string
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEnrollmentService constructs EnrollmentService.
func NewEnrollmentService(upstream documentFetcher, cache *CacheService, docType string, validate *validator.Validate, logger *zap.Logger) *EnrollmentService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{upstream: upstream, cache: cache, docType: docType, validator: validate, logger: logger}
}

// Get returns the upstream enrollment document untouched. The boolean reports a cache hit.
func (s *EnrollmentService) Get(ctx context.Context, query dto.EnrollmentQuery) (json.RawMessage, bool, error) {
	query.Enrollment = strings.TrimSpace(query.Enrollment)
	if err := validateQuery(s.validator, query); err != nil {
		return nil, false, err
	}

	return Remember(ctx, s.cache, CacheKey("enrollment", query.Enrollment), func(ctx context.Context) (json.RawMessage, error) {
		data, err := s.upstream.GetDoc(ctx, s.docType, query.Enrollment)
		if err != nil {
			return nil, mapUpstreamError(s.logger, s.docType, err)
		}
		if isNullPayload(data) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return data, nil
	})
}

// ListByStudent lists the enrollments of a student, looked up by student ID or registered phone number.
func (s *EnrollmentService) ListByStudent(ctx context.Context, query dto.EnrollmentsByStudentQuery) (json.RawMessage, bool, error) {
	query.StudentID = strings.TrimSpace(query.StudentID)
	query.Phone = strings.TrimSpace(query.Phone)

	switch {
	case query.StudentID == "" && query.Phone == "":
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "student_id or phone is required")
	case query.StudentID != "" && query.Phone != "":
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "provide either student_id or phone, not both")
	}
	if err := validateQuery(s.validator, query); err != nil {
		return nil, false, err
	}

	field, value := "student", query.StudentID
	if query.Phone != "" {
		field, value = "student_mobile", query.Phone
	}

	return Remember(ctx, s.cache, CacheKey("enrollments", field, value), func(ctx context.Context) (json.RawMessage, error) {
		data, err := s.upstream.ListDocs(ctx, s.docType, upstream.ListQuery{
			Filters: []upstream.Filter{{Field: field, Operator: "=", Value: value}},
			Fields:  models.EnrollmentListFields,
		})
		if err != nil {
			return nil, mapUpstreamError(s.logger, s.docType, err)
		}
		return data, nil
	})
}
