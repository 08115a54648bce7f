package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainError_PassesThroughWrapped(t *testing.T) {
	base := NewValidationError(CodeNameRequired, "name required")
	wrapped := fmt.Errorf("create: %w", base)

	de := ToDomainError(wrapped)
	require.NotNil(t, de)
	assert.Equal(t, CodeNameRequired, de.Code)
	assert.Equal(t, http.StatusBadRequest, de.HTTPStatus)
}

func TestToDomainError_UnknownIsInternal(t *testing.T) {
	cause := errors.New("disk on fire")
	de := ToDomainError(cause)
	assert.Equal(t, CodeInternal, de.Code)
	assert.Equal(t, http.StatusInternalServerError, de.HTTPStatus)
	assert.Equal(t, "internal server error", de.Message)
	assert.ErrorIs(t, de, cause)

	assert.Nil(t, ToDomainError(nil))
}

func TestToDomainError_FiberErrors(t *testing.T) {
	tests := []struct {
		in     *fiber.Error
		code   string
		status int
	}{
		{fiber.ErrNotFound, CodeNotFound, http.StatusNotFound},
		{fiber.ErrMethodNotAllowed, CodeNotFound, http.StatusNotFound},
		{fiber.ErrRequestEntityTooLarge, CodePayloadTooLarge, http.StatusRequestEntityTooLarge},
		{fiber.ErrUnauthorized, CodeUnauthorized, http.StatusUnauthorized},
		{fiber.ErrServiceUnavailable, CodeInternal, http.StatusServiceUnavailable},
		{fiber.ErrBadRequest, "bad_request", http.StatusBadRequest},
	}
	for _, tt := range tests {
		de := ToDomainError(tt.in)
		assert.Equal(t, tt.code, de.Code, tt.in.Message)
		assert.Equal(t, tt.status, de.HTTPStatus, tt.in.Message)
	}
}

func TestNewUnauthorized_HidesCause(t *testing.T) {
	cause := errors.New("signature mismatch")
	err := NewUnauthorized(cause)

	de := ToDomainError(err)
	assert.Equal(t, "unauthorized", de.Message)
	assert.Equal(t, http.StatusUnauthorized, de.HTTPStatus)
	assert.ErrorIs(t, err, cause)
	assert.NotContains(t, de.Message, "signature")
}

func TestDomainError_IsMatchesCode(t *testing.T) {
	err := fmt.Errorf("wrap: %w", NewNotFound("staff", map[string]any{"staff_id": "1"}))
	assert.ErrorIs(t, err, NewNotFound("anything", nil))
	assert.NotErrorIs(t, err, NewPayloadTooLarge())
}
