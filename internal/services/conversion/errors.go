package conversion

import (
	"errors"
	"net/http"
)

// Kind classifies why a request failed.
type Kind string

const (
	KindValidation Kind = "validation" // Bad client input
	KindConversion Kind = "conversion" // The backend failed; the cause is opaque
	KindNotFound   Kind = "not_found"  // Requested file doesn't exist
	KindInternal   Kind = "internal"   // Local I/O failed around the conversion
)

// Error is the classified failure returned by the Service.
// Message is safe to show the client; Err keeps the underlying cause for logs.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Err.Error() != e.Message {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// HTTPStatus maps the kind to a response status code.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Validation creates a client input error.
func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

// KindOf returns the kind of a classified error, or KindInternal for
// anything else.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
