// Package models contains data structures for the application's domain models.
package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error codes surfaced to API clients. Storage and infra failures are always
// wrapped as ErrCodeInternal; their details are logged, not returned.
const (
	ErrCodeValidation          = "VALIDATION_ERROR"
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeUnauthorized        = "UNAUTHORIZED"
	ErrCodeAlreadyApproved     = "ALREADY_APPROVED"
	ErrCodePackageExpired      = "PACKAGE_EXPIRED"
	ErrCodeInsufficientCredits = "INSUFFICIENT_CREDITS"
	ErrCodeInvalidTier         = "INVALID_TIER"
	ErrCodeInternal            = "INTERNAL_ERROR"
)

// ErrUnlockRaced reports that a concurrent request recorded the same unlock
// first. Callers surface it as an "already unlocked" success.
var ErrUnlockRaced = errors.New("unlock already recorded by concurrent request")

// ErrorResponse represents a standardized API error response
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
}

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is makes two AppErrors comparable by code so errors.Is works with the
// predefined constructors.
func (e *AppError) Is(target error) bool {
	var appErr *AppError
	if !errors.As(target, &appErr) {
		return false
	}
	return e.Code == appErr.Code
}

// Predefined error constructors
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: message,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeUnauthorized,
		Message: message,
	}
}

func NewAlreadyApprovedError(id interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeAlreadyApproved,
		Message: fmt.Sprintf("Account %v is already approved", id),
	}
}

func NewPackageExpiredError() *AppError {
	return &AppError{
		Code:    ErrCodePackageExpired,
		Message: "Package expired, please renew your subscription",
	}
}

func NewInsufficientCreditsError() *AppError {
	return &AppError{
		Code:    ErrCodeInsufficientCredits,
		Message: "No credits left, please upgrade your package",
	}
}

func NewInvalidTierError(tier string) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidTier,
		Message: fmt.Sprintf("Unknown package tier %q", tier),
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: "Internal server error",
		Err:     err,
	}
}

// StatusForError maps an application error to its canonical HTTP status.
// Unknown errors map to 500.
func StatusForError(err error) int {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return fiber.StatusInternalServerError
	}
	switch appErr.Code {
	case ErrCodeValidation, ErrCodeInvalidTier:
		return fiber.StatusBadRequest
	case ErrCodeNotFound:
		return fiber.StatusNotFound
	case ErrCodeUnauthorized:
		return fiber.StatusUnauthorized
	case ErrCodeAlreadyApproved:
		return fiber.StatusConflict
	case ErrCodePackageExpired, ErrCodeInsufficientCredits:
		return fiber.StatusForbidden
	default:
		return fiber.StatusInternalServerError
	}
}

// RespondWithError creates a standardized error response
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	var response ErrorResponse

	var appErr *AppError
	if errors.As(err, &appErr) {
		response = ErrorResponse{
			Error: appErr.Message,
			Code:  appErr.Code,
		}
	} else {
		response = ErrorResponse{
			Error: err.Error(),
		}
	}

	return c.Status(status).JSON(response)
}
