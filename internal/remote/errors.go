package remote

import (
	"errors"
	"fmt"
)

// Code classifies a remote document-service failure. The store's fallback
// logic is defined entirely in terms of this classification, so any backend
// substituted for the hosted service must map its errors onto these codes.
type Code string

const (
	CodeNotFound           Code = "not-found"
	CodeUnavailable        Code = "unavailable"
	CodePermissionDenied   Code = "permission-denied"
	CodeFailedPrecondition Code = "failed-precondition"
	CodeUnimplemented      Code = "unimplemented"
	CodeSetupFailure       Code = "setup-failure"
)

// Error is a classified remote failure.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Errorf builds a classified error.
func Errorf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// CodeOf extracts the classification from err, if it carries one.
func CodeOf(err error) (Code, bool) {
	var re *Error
	if errors.As(err, &re) {
		return re.Code, true
	}
	return "", false
}

// Recoverable reports whether err belongs to the closed set of conditions
// that trigger silent local fallback. Anything else must not be hidden as if
// it were handled.
func Recoverable(err error) bool {
	code, ok := CodeOf(err)
	if !ok {
		return false
	}
	switch code {
	case CodeNotFound, CodeUnavailable, CodePermissionDenied,
		CodeFailedPrecondition, CodeUnimplemented, CodeSetupFailure:
		return true
	}
	return false
}
