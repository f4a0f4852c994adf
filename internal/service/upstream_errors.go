package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"github.com/noah-isme/student-portal-api/internal/models"
	appErrors "github.com/noah-isme/student-portal-api/pkg/errors"
	"github.com/noah-isme/student-portal-api/pkg/upstream"
)

// documentFetcher is the subset of the upstream client the services depend on.
type documentFetcher interface {
	GetDoc(ctx context.Context, docType, name string) (json.RawMessage, error)
	ListDocs(ctx context.Context, docType string, q upstream.ListQuery) (json.RawMessage, error)
}

// isNullPayload reports whether upstream answered without a document.
func isNullPayload(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// mapUpstreamError converts client failures into API errors. Upstream statuses are relayed as-is.
func mapUpstreamError(logger *zap.Logger, docType string, err error) error {
	if err == nil {
		return nil
	}

	var statusErr *upstream.StatusError
	var malformed *models.MalformedRecordError
	switch {
	case errors.As(err, &statusErr):
		logger.Warn("upstream returned error status",
			zap.String("doctype", docType),
			zap.Int("status", statusErr.StatusCode),
		)
		return appErrors.WithDetails(appErrors.ErrUpstream, statusErr.StatusCode, statusErr.Details(), err)
	case errors.As(err, &malformed):
		logger.Error("malformed upstream record",
			zap.String("doctype", docType),
			zap.Int("index", malformed.Index),
			zap.String("date", malformed.Date),
			zap.Error(malformed.Err),
		)
		return appErrors.WithDetails(appErrors.ErrMalformedRecord, 0, malformed.Error(), err)
	case errors.Is(err, upstream.ErrUnavailable):
		logger.Warn("upstream unavailable", zap.String("doctype", docType), zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrUpstreamUnavailable.Code, appErrors.ErrUpstreamUnavailable.Status, appErrors.ErrUpstreamUnavailable.Message)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return appErrors.Wrap(err, appErrors.ErrUpstreamUnavailable.Code, appErrors.ErrUpstreamUnavailable.Status, appErrors.ErrUpstreamUnavailable.Message)
	default:
		var appErr *appErrors.Error
		if errors.As(err, &appErr) {
			return appErr
		}
		logger.Error("unreadable upstream response", zap.String("doctype", docType), zap.Error(err))
		return appErrors.WithDetails(appErrors.ErrUpstream, 0, nil, err)
	}
}
