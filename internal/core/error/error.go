package errx

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	// SystemErrorMessage is a user-facing fallback when internal errors occur.
	SystemErrorMessage = "internal server error"
	// RedisErrorMessage describes Redis related failures.
	RedisErrorMessage = "redis operation failed"
	// RedisNotFoundMessage describes a missing Redis key.
	RedisNotFoundMessage = "redis key not found"
	// StoreErrorMessage describes state or transcript persistence failures.
	StoreErrorMessage = "state store operation failed"
	// ToolErrorMessage describes travel tool provider failures and timeouts.
	ToolErrorMessage = "travel tool call failed"
	// ValidationErrorMessage describes a state or response that breaks its schema.
	ValidationErrorMessage = "planner output failed validation"
)

// AppError wraps an underlying error with an HTTP status and safe message.
type AppError struct {
	Err     error
	Status  int
	Message string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

// Unwrap exposes the underlying error for errors.Is / errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with the provided information.
func New(err error, status int, message string) *AppError {
	return &AppError{
		Err:     err,
		Status:  status,
		Message: message,
	}
}

func wrap(err error, status int, message string) error {
	if err == nil {
		return nil
	}
	var app *AppError
	if errors.As(err, &app) {
		return err
	}
	return New(err, status, message)
}

// WrapStore wraps a persistence error. Errors that are already AppErrors
// (for example from WrapRedis) keep their status.
func WrapStore(err error) error {
	return wrap(err, http.StatusInternalServerError, StoreErrorMessage)
}

// WrapTool wraps a tool provider error or timeout.
func WrapTool(err error) error {
	return wrap(err, http.StatusBadGateway, ToolErrorMessage)
}

// WrapValidation wraps a schema violation found on the way out.
func WrapValidation(err error) error {
	return wrap(err, http.StatusInternalServerError, ValidationErrorMessage)
}

// StatusOf returns the HTTP status carried by err, or 500.
func StatusOf(err error) int {
	var app *AppError
	if errors.As(err, &app) {
		return app.Status
	}
	return http.StatusInternalServerError
}

// Is reports whether the target matches the underlying error or the AppError itself.
func (e *AppError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// As allows casting to AppError or the wrapped error in a chain.
func (e *AppError) As(target any) bool {
	if errors.As(e.Err, target) {
		return true
	}
	if t, ok := target.(**AppError); ok {
		*t = e
		return true
	}
	return false
}
