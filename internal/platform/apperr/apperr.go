// Copyright (c) 2026 Sakan. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apperr defines the centralized error handling framework for Sakan.

It provides a rich error type that bridges the gap between low-level Domain/Storage
errors and high-level HTTP responses.

Architecture:

  - AppError: A struct containing a numeric [ErrorCode], a context value (Info)
    and a client-safe message.
  - Mapping: Explicit mapping from AppError to standard HTTP Status Codes.

Every error that leaves the service layer should be wrapped as an [AppError] to ensure
consistent API responses of the shape {code, info, message}.
*/
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// # Error Codes

// ErrorCode is the machine-readable numeric identifier sent to clients.
type ErrorCode int

const (
	// General errors
	CodeInternal      ErrorCode = 1000
	CodeForbidden     ErrorCode = 1001
	CodeNotFound      ErrorCode = 1003
	CodeExceededLimit ErrorCode = 1004
	CodeInvalid       ErrorCode = 1005

	// Authentication errors
	CodeNoToken         ErrorCode = 4000
	CodeUnauthorized    ErrorCode = 4001
	CodeInvalidToken    ErrorCode = 4002
	CodeExpiredToken    ErrorCode = 4003
	CodeNotVerified     ErrorCode = 4004
	CodeAlreadyVerified ErrorCode = 4005
	CodeInvalidUser     ErrorCode = 4006

	// Validation errors
	CodeValidation                ErrorCode = 5000
	CodeUniqueConstraintViolation ErrorCode = 5002
)

var codeNames = map[ErrorCode]string{
	CodeInternal:                  "INTERNAL",
	CodeForbidden:                 "FORBIDDEN",
	CodeNotFound:                  "NOT_FOUND",
	CodeExceededLimit:             "EXCEEDED_LIMIT",
	CodeInvalid:                   "INVALID",
	CodeNoToken:                   "NO_TOKEN",
	CodeUnauthorized:              "UNAUTHORIZED",
	CodeInvalidToken:              "INVALID_TOKEN",
	CodeExpiredToken:              "EXPIRED_TOKEN",
	CodeNotVerified:               "NOT_VERIFIED",
	CodeAlreadyVerified:           "ALREADY_VERIFIED",
	CodeInvalidUser:               "INVALID_USER",
	CodeValidation:                "VALIDATION",
	CodeUniqueConstraintViolation: "UNIQUE_CONSTRAINT_VIOLATION",
}

// String returns the symbolic name of the code, used in logs and metrics labels.
func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("CODE_%d", int(c))
}

// AppError is the canonical error type for the Sakan API.
//
// # Security
//
// The Cause field is for server-side logging only and is never sent to clients
// to avoid leaking internal implementation details (e.g., SQL queries).
type AppError struct {
	// Code is the numeric error identifier.
	Code ErrorCode `json:"code"`
	// Info is the context of the failure (entity name, field list, ...).
	Info any `json:"info"`
	// Message is a human-readable description safe to return to the client.
	Message string `json:"message"`
	// HTTPStatus is the HTTP response status code.
	HTTPStatus int `json:"-"`
	// Cause is the underlying error, used for server-side logging only.
	Cause error `json:"-"`
	// Details holds per-field validation errors for Validation responses.
	Details []FieldError `json:"-"`
}

// FieldError represents a single field-level validation failure.
type FieldError struct {
	// Field is the JSON field name that failed validation.
	Field string `json:"field"`
	// Message is the human-readable description of the failure.
	Message string `json:"message"`
}

// Error implements the error interface. It returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// Is matches two AppErrors by code and info, so sentinel values work with [errors.Is].
func (e *AppError) Is(target error) bool {
	other, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == other.Code && fmt.Sprint(e.Info) == fmt.Sprint(other.Info)
}

// # Client Errors (4xx)

// NotFound creates a 404 [AppError] for a named resource.
//
// Example:
//
//	apperr.NotFound("Ad") // Returns "Ad not found"
func NotFound(resource string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Info:       resource,
		Message:    resource + " not found",
		HTTPStatus: http.StatusNotFound,
	}
}

// Invalid creates a 400 [AppError] for a value that failed a business rule.
func Invalid(info string) *AppError {
	return &AppError{
		Code:       CodeInvalid,
		Info:       info,
		Message:    info + " is invalid",
		HTTPStatus: http.StatusBadRequest,
	}
}

// Unauthorized creates a generic 401 [AppError]; info names what was rejected.
func Unauthorized(info string) *AppError {
	return &AppError{
		Code:       CodeUnauthorized,
		Info:       info,
		Message:    "Unauthorized",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// NoToken creates a 401 [AppError] for requests carrying no session token.
func NoToken() *AppError {
	return &AppError{
		Code:       CodeNoToken,
		Info:       "Token",
		Message:    "No session token provided",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// InvalidToken creates a 401 [AppError] for unknown or tampered session tokens.
func InvalidToken() *AppError {
	return &AppError{
		Code:       CodeInvalidToken,
		Info:       "Token",
		Message:    "Session token is invalid",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// ExpiredToken creates a 401 [AppError] for sessions past their expiry.
func ExpiredToken() *AppError {
	return &AppError{
		Code:       CodeExpiredToken,
		Info:       "Token",
		Message:    "Session token has expired",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// Forbidden creates a 403 [AppError].
func Forbidden(msg string) *AppError {
	return &AppError{
		Code:       CodeForbidden,
		Info:       nil,
		Message:    msg,
		HTTPStatus: http.StatusForbidden,
	}
}

// UniqueConstraintViolation creates a 409 [AppError] naming the duplicated entity.
func UniqueConstraintViolation(entity string) *AppError {
	return &AppError{
		Code:       CodeUniqueConstraintViolation,
		Info:       entity,
		Message:    entity + " already exist",
		HTTPStatus: http.StatusConflict,
	}
}

// ValidationError creates a 400 [AppError] with optional per-field details.
// The details double as the response info.
func ValidationError(msg string, details ...FieldError) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Info:       details,
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
		Details:    details,
	}
}

// RateLimited creates a 429 [AppError].
func RateLimited(retryAfterSeconds int) *AppError {
	return &AppError{
		Code:       CodeExceededLimit,
		Info:       retryAfterSeconds,
		Message:    fmt.Sprintf("Too many requests. Try again in %ds.", retryAfterSeconds),
		HTTPStatus: http.StatusTooManyRequests,
	}
}

// # Server Errors (5xx)

// Internal creates a 500 [AppError] wrapping an unexpected server-side error.
// The cause is stored for logging but is never sent to the client.
func Internal(cause error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Info:       nil,
		Message:    "An unknown error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// # Helpers

// IsAppError reports whether err (or any error in its chain) is an [*AppError].
func IsAppError(err error) bool {
	var ae *AppError
	return errors.As(err, &ae)
}

// As extracts the [*AppError] from err's chain. It returns nil if not found.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}

// HasCode reports whether err carries an [*AppError] with the given code.
func HasCode(err error, code ErrorCode) bool {
	ae := As(err)
	return ae != nil && ae.Code == code
}

// IsNotFound reports whether err is a NotFound [*AppError].
func IsNotFound(err error) bool {
	return HasCode(err, CodeNotFound)
}
