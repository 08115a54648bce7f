package errorutil

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Machine-readable error codes returned to API callers.
const (
	CodeInvalidStaff          = "invalid_staff"
	CodeNameRequired          = "name_required"
	CodeAvatarTooLarge        = "avatar_too_large"
	CodePasswordRequired      = "password_required"
	CodeUnauthorized          = "unauthorized"
	CodeNotFound              = "not_found"
	CodePayloadTooLarge       = "payload_too_large"
	CodeContentTypeJSON       = "content_type_must_be_application_json"
	CodeInvalidJSON           = "invalid_json"
	CodeInternal              = "internal_error"
	CodeDependencyUnavailable = "dependency_unavailable"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches another DomainError carrying the same code.
func (e *DomainError) Is(target error) bool {
	var other *DomainError
	if !errors.As(target, &other) {
		return false
	}
	return other.Code == e.Code
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(code, message string) error {
	return NewDomainError(code, message, http.StatusBadRequest, nil)
}

func NewBadRequest(code, message string) error {
	return NewDomainError(code, message, http.StatusBadRequest, nil)
}

func NewNotFound(resource string, details map[string]any) error {
	return &DomainError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

// NewUnauthorized never says which check failed. The cause is kept in Err for
// server-side logs only.
func NewUnauthorized(cause error) error {
	return &DomainError{
		Code:       CodeUnauthorized,
		Message:    "unauthorized",
		HTTPStatus: http.StatusUnauthorized,
		Err:        cause,
	}
}

func NewPayloadTooLarge() error {
	return NewDomainError(CodePayloadTooLarge, "payload too large", http.StatusRequestEntityTooLarge, nil)
}

func NewUnavailable(details map[string]any) error {
	return NewDomainError(CodeDependencyUnavailable, "one or more dependencies unavailable", http.StatusServiceUnavailable, details)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fromFiberError(fiberErr)
	}
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func fromFiberError(err *fiber.Error) *DomainError {
	switch err.Code {
	case fiber.StatusNotFound, fiber.StatusMethodNotAllowed:
		return &DomainError{Code: CodeNotFound, Message: "not found", HTTPStatus: http.StatusNotFound}
	case fiber.StatusRequestEntityTooLarge:
		return &DomainError{Code: CodePayloadTooLarge, Message: "payload too large", HTTPStatus: http.StatusRequestEntityTooLarge}
	case fiber.StatusUnauthorized:
		return &DomainError{Code: CodeUnauthorized, Message: "unauthorized", HTTPStatus: http.StatusUnauthorized}
	}
	if err.Code >= 500 {
		return &DomainError{Code: CodeInternal, Message: "internal server error", HTTPStatus: err.Code, Err: err}
	}
	return &DomainError{Code: "bad_request", Message: err.Message, HTTPStatus: err.Code}
}
