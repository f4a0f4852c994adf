package service

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/student-portal-api/internal/dto"
	"github.com/noah-isme/student-portal-api/internal/models"
	"github.com/noah-isme/student-portal-api/pkg/upstream"
)

// ResultService lists exam results recorded against a program enrollment.
type ResultService struct {
	upstream  documentFetcher
	cache     *CacheService
	docType   string
	validator *validator.Validate
	logger    *zap.Logger
}

// NewResultService constructs ResultService.
func NewResultService(upstream documentFetcher, cache *CacheService, docType string, validate *validator.Validate, logger *zap.Logger) *ResultService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResultService{upstream: upstream, cache: cache, docType: docType, validator: validate, logger: logger}
}

// List returns the upstream exam result rows for an enrollment, oldest first.
func (s *ResultService) List(ctx context.Context, query dto.EnrollmentQuery) (json.RawMessage, bool, error) {
	query.Enrollment = strings.TrimSpace(query.Enrollment)
	if err := validateQuery(s.validator, query); err != nil {
		return nil, false, err
	}

	return Remember(ctx, s.cache, CacheKey("results", query.Enrollment), func(ctx context.Context) (json.RawMessage, error) {
		data, err := s.upstream.ListDocs(ctx, s.docType, upstream.ListQuery{
			Filters: []upstream.Filter{{Field: "program_enrollment", Operator: "=", Value: query.Enrollment}},
			Fields:  models.ExamResultFields,
			OrderBy: "date asc",
		})
		if err != nil {
			return nil, mapUpstreamError(s.logger, s.docType, err)
		}
		return data, nil
	})
}
