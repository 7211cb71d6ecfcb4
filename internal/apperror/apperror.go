package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the HTTP boundary.
type Kind int

const (
	KindAuthenticationRequired Kind = iota
	KindValidation
	KindNotFound
	KindPersistenceFault
	KindUpstreamFault
)

// Error carries a classification plus the underlying cause.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func AuthenticationRequired(message string) *Error {
	return &Error{Kind: KindAuthenticationRequired, Message: message}
}

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func PersistenceFault(message string, cause error) *Error {
	return &Error{Kind: KindPersistenceFault, Message: message, Cause: cause}
}

func UpstreamFault(message string, cause error) *Error {
	return &Error{Kind: KindUpstreamFault, Message: message, Cause: cause}
}

// KindOf reports the classification of err, defaulting to a persistence
// fault for unclassified errors.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindPersistenceFault
}

// StatusCode maps a classification to its HTTP status.
func StatusCode(err error) int {
	switch KindOf(err) {
	case KindAuthenticationRequired:
		return 401
	case KindValidation:
		return 400
	case KindNotFound:
		return 404
	case KindUpstreamFault:
		return 502
	default:
		return 500
	}
}
