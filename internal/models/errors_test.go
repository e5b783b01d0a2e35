package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestStatusForError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"Validation", NewValidationError("bad input"), fiber.StatusBadRequest},
		{"Invalid tier", NewInvalidTierError("platinum"), fiber.StatusBadRequest},
		{"Not found", NewNotFoundError("Account", 7), fiber.StatusNotFound},
		{"Unauthorized", NewUnauthorizedError("no token"), fiber.StatusUnauthorized},
		{"Already approved", NewAlreadyApprovedError(7), fiber.StatusConflict},
		{"Package expired", NewPackageExpiredError(), fiber.StatusForbidden},
		{"Insufficient credits", NewInsufficientCreditsError(), fiber.StatusForbidden},
		{"Internal", NewInternalError(errors.New("boom")), fiber.StatusInternalServerError},
		{"Plain error", errors.New("boom"), fiber.StatusInternalServerError},
		{"Wrapped app error", fmt.Errorf("context: %w", NewNotFoundError("Listing", 42)), fiber.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, StatusForError(tt.err))
		})
	}
}

func TestAppError_IsComparesByCode(t *testing.T) {
	t.Parallel()

	assert.ErrorIs(t, NewInsufficientCreditsError(), NewInsufficientCreditsError())
	assert.ErrorIs(t, NewNotFoundError("Account", 1), NewNotFoundError("Listing", 2))
	assert.NotErrorIs(t, NewPackageExpiredError(), NewInsufficientCreditsError())
}

func TestAppError_Unwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection refused")
	err := NewInternalError(cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
}
