package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromErrorKeepsTypedErrors(t *testing.T) {
	wrapped := fmt.Errorf("load enrollment: %w", ErrNotFound)

	got := FromError(wrapped)
	require.NotNil(t, got)
	assert.Equal(t, ErrNotFound.Code, got.Code)
	assert.Equal(t, http.StatusNotFound, got.Status)
}

func TestFromErrorNormalisesPlainErrors(t *testing.T) {
	got := FromError(fmt.Errorf("boom"))
	require.NotNil(t, got)
	assert.Equal(t, ErrInternal.Code, got.Code)
	assert.Equal(t, "internal server error: boom", got.Error())
	assert.Nil(t, FromError(nil))
}

func TestWithDetailsDoesNotMutateSentinel(t *testing.T) {
	cause := fmt.Errorf("upstream returned 404")
	got := WithDetails(ErrUpstream, http.StatusNotFound, map[string]string{"exc_type": "DoesNotExistError"}, cause)

	assert.Equal(t, http.StatusNotFound, got.Status)
	assert.Equal(t, ErrUpstream.Code, got.Code)
	assert.ErrorIs(t, got, cause)
	assert.Equal(t, http.StatusBadGateway, ErrUpstream.Status)
	assert.Nil(t, ErrUpstream.Details)

	kept := WithDetails(ErrMalformedRecord, 0, nil, nil)
	assert.Equal(t, http.StatusBadGateway, kept.Status)
}

func TestClone(t *testing.T) {
	got := Clone(ErrValidation, "enrollment is required")
	assert.Equal(t, "enrollment is required", got.Message)
	assert.Equal(t, "validation failed", ErrValidation.Message)
	assert.Nil(t, Clone(nil, "x"))
}
