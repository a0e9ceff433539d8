// internal/apperrors/apperrors_test.go
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeNotFound, CodeOf(NotFound("campaign")))
	assert.Equal(t, CodeConflict, CodeOf(Conflict("duplicate")))

	// wrapped errors still expose their code
	wrapped := fmt.Errorf("request failed: %w", Forbidden("nope"))
	assert.Equal(t, CodeForbidden, CodeOf(wrapped))

	// unclassified errors fall back to internal
	assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))
}

func TestIsCode(t *testing.T) {
	err := InvalidTransition("campaign", "draft", "active")
	assert.True(t, IsCode(err, CodeInvalidTransition))
	assert.False(t, IsCode(err, CodeValidation))
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(CodeInternal, "query failed", cause)
	assert.True(t, errors.Is(err, cause))
}

func TestMessages(t *testing.T) {
	assert.EqualError(t, NotFound("campaign"), "NOT_FOUND: campaign not found")
	assert.EqualError(t, AmountMismatch(1_100_000, 999_999),
		"AMOUNT_MISMATCH: expected amount 1100000, got 999999")
	assert.EqualError(t, InvalidTransition("payment", "cancelled", "approved"),
		"INVALID_TRANSITION: payment cannot transition from cancelled to approved")
}

func TestHTTPStatus(t *testing.T) {
	cases := map[Code]int{
		CodeValidation:         http.StatusBadRequest,
		CodeAmountMismatch:     http.StatusBadRequest,
		CodeNothingToSettle:    http.StatusBadRequest,
		CodeUnauthorized:       http.StatusUnauthorized,
		CodeForbidden:          http.StatusForbidden,
		CodeNotFound:           http.StatusNotFound,
		CodeConflict:           http.StatusConflict,
		CodeInvalidTransition:  http.StatusConflict,
		CodeInternal:           http.StatusInternalServerError,
		Code("SOMETHING_ELSE"): http.StatusInternalServerError,
	}
	for code, status := range cases {
		assert.Equal(t, status, HTTPStatus(code), "%s", code)
	}
}
