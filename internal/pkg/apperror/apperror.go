package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application failure. The HTTP layer maps kinds to
// status codes; loops use them to decide between backoff and abort.
type Kind string

const (
	KindConfiguration     Kind = "CONFIGURATION_ERROR"
	KindValidation        Kind = "VALIDATION_ERROR"
	KindEmptyGeneration   Kind = "EMPTY_GENERATION"
	KindRateLimited       Kind = "RATE_LIMITED"
	KindInvalidCredential Kind = "INVALID_CREDENTIAL"
	KindModelsExhausted   Kind = "ALL_MODELS_EXHAUSTED"
	KindGeneration        Kind = "GENERATION_ERROR"
	KindStore             Kind = "STORE_ERROR"
	KindNotFound          Kind = "NOT_FOUND"
	KindStorePolicy       Kind = "STORE_POLICY"
)

type AppError struct {
	Kind    Kind
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

// Status returns the HTTP status code for the error kind.
func (e *AppError) Status() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindStorePolicy:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func New(kind Kind, message string) *AppError {
	return &AppError{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *AppError {
	return &AppError{Kind: kind, Message: message, Err: err}
}

func Configuration(message string) *AppError {
	return New(KindConfiguration, message)
}

func Validation(message string) *AppError {
	return New(KindValidation, message)
}

func NotFound(message string) *AppError {
	return New(KindNotFound, message)
}

func Store(message string, err error) *AppError {
	return Wrap(KindStore, message, err)
}

// IsKind reports whether err is an AppError of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}
