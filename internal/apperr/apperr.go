// Package apperr defines the closed set of failures a hazard registry request can end with.
//
// Every error returned to a caller across the REST or GraphQL surface is an *Error.
// Anything else is reported as KindSystemFailure with a generic message.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

type Kind int

const (
	KindSystemFailure Kind = iota
	KindMissingCredential
	KindInsufficientClearance
	KindValidationFailed
	KindDataInconsistency
	KindNotFound
)

// Codes are part of the client contract. Keep them stable.
const (
	CodeMissingCredential     = "DANGER_AUTH_001"
	CodeInsufficientClearance = "DANGER_AUTH_002"
	CodeValidationFailed      = "DANGER_VAL_001"
	CodeDataInconsistency     = "DANGER_VAL_002"
	CodeNotFound              = "DANGER_404"
	CodeSystemFailure         = "DANGER_SYS_001"
)

func (k Kind) String() string {
	switch k {
	case KindMissingCredential:
		return "missing_credential"
	case KindInsufficientClearance:
		return "insufficient_clearance"
	case KindValidationFailed:
		return "validation_failed"
	case KindDataInconsistency:
		return "data_inconsistency"
	case KindNotFound:
		return "not_found"
	default:
		return "system_failure"
	}
}

func (k Kind) Code() string {
	switch k {
	case KindMissingCredential:
		return CodeMissingCredential
	case KindInsufficientClearance:
		return CodeInsufficientClearance
	case KindValidationFailed:
		return CodeValidationFailed
	case KindDataInconsistency:
		return CodeDataInconsistency
	case KindNotFound:
		return CodeNotFound
	default:
		return CodeSystemFailure
	}
}

func (k Kind) HTTPStatus() int {
	switch k {
	case KindMissingCredential:
		return http.StatusUnauthorized
	case KindInsufficientClearance:
		return http.StatusForbidden
	case KindValidationFailed, KindDataInconsistency:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error is a terminal, non-retryable request failure.
type Error struct {
	Kind    Kind
	Message string

	// Field is set for KindValidationFailed.
	Field string
	// Required and Provided are set for KindInsufficientClearance.
	Required int
	Provided int
	// ID is the record id for KindNotFound.
	ID string

	cause error
}

const systemFailureMessage = "critical failure in the hazard control system"

func (e *Error) Error() string {
	switch e.Kind {
	case KindInsufficientClearance:
		return fmt.Sprintf("%s (required level %d, provided %d)", e.Message, e.Required, e.Provided)
	case KindValidationFailed:
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	default:
		return e.Message
	}
}

func (e *Error) Unwrap() error { return e.cause }

// Is matches any *Error of the same Kind, so errors.Is(err, apperr.ErrNotFound) works.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind && t.Message == "" && t.cause == nil
}

// Extensions is picked up by the GraphQL executor and rendered under "extensions".
func (e *Error) Extensions() map[string]any {
	ext := map[string]any{
		"code":      e.Kind.Code(),
		"timestamp": Timestamp(time.Now()),
	}
	switch e.Kind {
	case KindValidationFailed:
		ext["field"] = e.Field
	case KindInsufficientClearance:
		ext["requiredLevel"] = e.Required
		ext["providedLevel"] = e.Provided
	case KindNotFound:
		if e.ID != "" {
			ext["id"] = e.ID
		}
	}
	return ext
}

// Sentinels for errors.Is.
var (
	ErrMissingCredential     = &Error{Kind: KindMissingCredential}
	ErrInsufficientClearance = &Error{Kind: KindInsufficientClearance}
	ErrValidationFailed      = &Error{Kind: KindValidationFailed}
	ErrDataInconsistency     = &Error{Kind: KindDataInconsistency}
	ErrNotFound              = &Error{Kind: KindNotFound}
	ErrSystemFailure         = &Error{Kind: KindSystemFailure}
)

func MissingCredential() *Error {
	return &Error{Kind: KindMissingCredential, Message: "protocol violation: security clearance not provided"}
}

func InsufficientClearance(operation string, required, provided int) *Error {
	return &Error{
		Kind:     KindInsufficientClearance,
		Message:  "access denied: insufficient clearance to " + operation,
		Required: required,
		Provided: provided,
	}
}

func ValidationFailed(field, message string) *Error {
	return &Error{Kind: KindValidationFailed, Field: field, Message: message}
}

func DataInconsistency(message string) *Error {
	return &Error{Kind: KindDataInconsistency, Message: message}
}

func NotFound(id string) *Error {
	return &Error{Kind: KindNotFound, ID: id, Message: "record not found: hazard id invalid or removed"}
}

// SystemFailure hides cause behind a generic message. The cause stays reachable via errors.Unwrap
// so it can be logged server-side.
func SystemFailure(cause error) *Error {
	return &Error{Kind: KindSystemFailure, Message: systemFailureMessage, cause: cause}
}

// From returns err as an *Error, converting anything foreign into a SystemFailure.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return SystemFailure(err)
}

// KindOf reports the Kind of err; foreign errors are KindSystemFailure.
func KindOf(err error) Kind {
	return From(err).Kind
}

// Timestamp renders t the way every response envelope does.
func Timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
