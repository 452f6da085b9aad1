package apierr

import (
	"errors"
	"fmt"
	"net/http"

	domainagg "github.com/yungbote/daghub-backend/internal/domain/aggregates"
)

// Error is an error already classified for an HTTP response.
type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

// Message is the text shown to clients. Server failures stay opaque.
func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	if e.Status >= http.StatusInternalServerError {
		return http.StatusText(e.Status)
	}
	if msg := domainagg.MessageOf(e.Err); msg != "" {
		return msg
	}
	return e.Error()
}

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// From classifies err by its aggregate code. Unclassified errors are internal.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	code := domainagg.CodeOf(err)
	return New(StatusOf(code), string(codeOrInternal(code)), err)
}

// StatusOf maps an aggregate error code to its HTTP status.
func StatusOf(code domainagg.ErrorCode) int {
	switch code {
	case domainagg.CodeValidation:
		return http.StatusBadRequest
	case domainagg.CodeNotFound:
		return http.StatusNotFound
	case domainagg.CodeForbidden:
		return http.StatusForbidden
	case domainagg.CodeConflict:
		return http.StatusConflict
	case domainagg.CodePreconditionFailed, domainagg.CodeInvariantViolation:
		return http.StatusUnprocessableEntity
	case domainagg.CodeRetryable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func codeOrInternal(code domainagg.ErrorCode) domainagg.ErrorCode {
	if code == "" {
		return domainagg.CodeInternal
	}
	return code
}
