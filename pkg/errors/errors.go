package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError
func NewAppError(code, message string, status int, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// Common error constructors

// BadRequest creates a 400 error
func BadRequest(message string, err error) *AppError {
	return &AppError{
		Code:    "BAD_REQUEST",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     err,
	}
}

// Validation creates a 400 error for rejected form input
func Validation(message string, err error) *AppError {
	return &AppError{
		Code:    "VALIDATION_FAILED",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     err,
	}
}

// NotFound creates a 404 error
func NotFound(message string, err error) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: message,
		Status:  http.StatusNotFound,
		Err:     err,
	}
}

// Conflict creates a 409 error
func Conflict(message string, err error) *AppError {
	return &AppError{
		Code:    "CONFLICT",
		Message: message,
		Status:  http.StatusConflict,
		Err:     err,
	}
}

// Internal creates a 500 error
func Internal(message string, err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: message,
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// Domain-specific errors
//
// Validation errors and policy violations are both rejected before
// anything is written, so no compensating rollback exists anywhere.

var (
	ErrUserNotFound    = NotFound("User not found", nil)
	ErrRideNotFound    = NotFound("Ride not found", nil)
	ErrBookingNotFound = NotFound("Booking not found", nil)
	ErrVehicleNotFound = NotFound("Emergency vehicle not found", nil)

	ErrRideFull          = Conflict("Ride has no available seats", nil)
	ErrRideNotOpen       = Conflict("Ride is no longer open for booking", nil)
	ErrAlreadyBooked     = Conflict("Passenger already booked on this ride", nil)
	ErrOwnRide           = Conflict("Rider cannot book a seat on their own ride", nil)
	ErrInvalidTransition = Conflict("Invalid status transition", nil)

	ErrMissingFields      = Validation("Please fill all required fields", nil)
	ErrPriceCeiling       = Validation("Price exceeds the maximum allowed rate", nil)
	ErrInvalidVehicleType = Validation("Invalid vehicle type", nil)
	ErrInvalidMode        = Validation("Mode must be rider or passenger", nil)
	ErrAddressNotResolved = Validation("Address could not be resolved", nil)
)

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError attempts to convert an error to AppError
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("An unexpected error occurred", err)
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
