// Package errors defines the dashboard's typed failure taxonomy.
//
// Remote calls classify every failure into a Kind so callers can tell a
// transport problem from a rejected payload without parsing messages.
package errors

import (
	stderrors "errors"
	"net/http"
)

// Kind classifies a failure.
type Kind string

const (
	KindUnknown    Kind = "unknown"
	KindNetwork    Kind = "network"
	KindValidation Kind = "validation"
	KindAuth       Kind = "auth"
	KindNotFound   Kind = "not_found"
)

// Error is a classified failure with an optional wrapped cause.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

// Error renders the message followed by the cause when both are present.
func (e *Error) Error() string {
	switch {
	case e.Message == "" && e.Cause == nil:
		return string(e.Kind)
	case e.Message == "":
		return e.Cause.Error()
	case e.Cause == nil:
		return e.Message
	default:
		return e.Message + ": " + e.Cause.Error()
	}
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

// E builds a classified error.
func E(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap builds a classified error around cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// Sentinels usable with errors.Is.
var (
	ErrNetwork    = E(KindNetwork, "")
	ErrValidation = E(KindValidation, "")
	ErrAuth       = E(KindAuth, "")
	ErrNotFound   = E(KindNotFound, "")
)

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var typed *Error
	if !stderrors.As(err, &typed) {
		return KindUnknown
	}
	return typed.Kind
}

// FromHTTPStatus classifies a non-2xx response status.
func FromHTTPStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindAuth
	case status == http.StatusNotFound:
		return KindNotFound
	case status >= 400 && status < 500:
		return KindValidation
	default:
		return KindNetwork
	}
}

// HTTPStatus maps a failure kind to the status the dashboard answers with.
// Rejected remote credentials are the dashboard's problem, not the browser's,
// so they surface as a gateway failure.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindNetwork, KindAuth:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// HTTPStatus maps an error to the status the dashboard answers with.
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	return KindOf(err).HTTPStatus()
}
