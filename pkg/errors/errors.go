package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Chat error codes surfaced to clients.
const (
	CodeUnauthenticated = "UNAUTHENTICATED"
	CodeInvalidMatch    = "INVALID_MATCH"
	CodeMatchInactive   = "MATCH_INACTIVE"
	CodeNotAParticipant = "NOT_A_PARTICIPANT"
	CodeEmptyMessage    = "EMPTY_MESSAGE"
	CodeRateLimited     = "RATE_LIMITED"
	CodeStoreFailure    = "STORE_FAILURE"
	CodeNotFound        = "NOT_FOUND"
)

type AppError struct {
	Code    string
	Message string
	Status  int
	Err     error
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code string, message string, status int, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

func NotFound(resource string, err error) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Status:  http.StatusNotFound,
		Err:     err,
	}
}

func BadRequest(message string, err error) *AppError {
	return &AppError{
		Code:    "BAD_REQUEST",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     err,
	}
}

func Unauthorized(message string, err error) *AppError {
	return &AppError{
		Code:    "UNAUTHORIZED",
		Message: message,
		Status:  http.StatusUnauthorized,
		Err:     err,
	}
}

func Forbidden(message string, err error) *AppError {
	return &AppError{
		Code:    "FORBIDDEN",
		Message: message,
		Status:  http.StatusForbidden,
		Err:     err,
	}
}

func Internal(message string, err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: message,
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

func Unauthenticated() *AppError {
	return &AppError{
		Code:    CodeUnauthenticated,
		Message: "Login required",
		Status:  http.StatusUnauthorized,
	}
}

func InvalidMatch(message string, err error) *AppError {
	return &AppError{
		Code:    CodeInvalidMatch,
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     err,
	}
}

func MatchInactive() *AppError {
	return &AppError{
		Code:    CodeMatchInactive,
		Message: "Match is not active",
		Status:  http.StatusForbidden,
	}
}

func NotAParticipant() *AppError {
	return &AppError{
		Code:    CodeNotAParticipant,
		Message: "You are not allowed to chat in this match",
		Status:  http.StatusForbidden,
	}
}

func EmptyMessage() *AppError {
	return &AppError{
		Code:    CodeEmptyMessage,
		Message: "Message is empty",
		Status:  http.StatusBadRequest,
	}
}

func RateLimited() *AppError {
	return &AppError{
		Code:    CodeRateLimited,
		Message: "You are sending messages too quickly. Please wait a moment",
		Status:  http.StatusTooManyRequests,
	}
}

// StoreFailure wraps a persistence error. The message never includes err.
func StoreFailure(message string, err error) *AppError {
	return &AppError{
		Code:    CodeStoreFailure,
		Message: message,
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

func Is(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// CodeOf returns the AppError code of err, or "" for foreign errors.
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}
