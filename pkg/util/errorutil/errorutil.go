package errorutil

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/spec-kit/escalation-service/internal/domain"
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

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError("CONFLICT", message, http.StatusConflict, details)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError, mapping the expected
// domain outcomes (duplicate case, rejected transition, missing case) onto
// their HTTP shapes.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}

	var dupErr *domain.DuplicateError
	if errors.As(err, &dupErr) {
		return &DomainError{
			Code:       "DUPLICATE_CASE",
			Message:    "an open case already exists for this report",
			HTTPStatus: http.StatusConflict,
			Details:    map[string]any{"existing_id": dupErr.ExistingID},
			Err:        dupErr,
		}
	}

	var transitionErr *domain.TransitionError
	if errors.As(err, &transitionErr) {
		code := "INVALID_TRANSITION"
		if transitionErr.MissingOwner {
			code = "MISSING_OWNER"
		}
		return &DomainError{
			Code:       code,
			Message:    transitionErr.Error(),
			HTTPStatus: http.StatusUnprocessableEntity,
			Details: map[string]any{
				"from": string(transitionErr.From),
				"to":   string(transitionErr.To),
			},
			Err: transitionErr,
		}
	}

	if errors.Is(err, domain.ErrCaseNotFound) {
		if de, ok := NewNotFound("case", nil).(*DomainError); ok {
			return de
		}
	}

	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func MapError(err error) error {
	return ToDomainError(err)
}
