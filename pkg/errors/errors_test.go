package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeToHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, ErrInvalidFormat.HTTPStatus)
	assert.Equal(t, http.StatusBadRequest, ErrEmptyTopic.HTTPStatus)
	assert.Equal(t, http.StatusUnauthorized, ErrUnauthorized.HTTPStatus)
	assert.Equal(t, http.StatusTooManyRequests, ErrTooManyRequests.HTTPStatus)
	assert.Equal(t, http.StatusInternalServerError, ErrProviderNotConfig.HTTPStatus)
	assert.Equal(t, http.StatusInternalServerError, ErrLLMProviderFailure.HTTPStatus)
}

func TestWithDetail_DoesNotMutatePredefined(t *testing.T) {
	e := ErrInvalidFormat.WithDetail("Invalid format 'x'")

	assert.Equal(t, "Invalid format 'x'", e.PublicDetail())
	assert.Empty(t, ErrInvalidFormat.Detail)
	assert.Equal(t, "invalid format", ErrInvalidFormat.PublicDetail())
}

func TestAsAppError(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", ErrEmptyTopic)
	assert.True(t, IsAppError(wrapped))
	assert.Same(t, ErrEmptyTopic, AsAppError(wrapped))

	plain := fmt.Errorf("plain")
	got := AsAppError(plain)
	assert.Equal(t, CodeUnknown, got.Code)
	assert.ErrorIs(t, got, plain)
}

func TestError_IncludesCause(t *testing.T) {
	e := Wrap(fmt.Errorf("dial tcp"), CodeLLMProviderError, "LLM provider call failed")
	assert.Equal(t, "[5005] LLM provider call failed: dial tcp", e.Error())
}
