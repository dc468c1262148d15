package resolver

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	// Validation errors are user-correctable: a required field was empty.
	Validation ErrorKind = "validation"
	// Configuration errors need a code or environment change: unknown kind, missing local file.
	Configuration ErrorKind = "configuration"
	// Connectivity errors come from the driver while opening or pinging the database.
	Connectivity ErrorKind = "connectivity"
)

// Error is returned by every failed resolution. Inspect it with errors.As or KindOf.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func validationf(format string, args ...interface{}) *Error {
	return &Error{Kind: Validation, Message: fmt.Sprintf(format, args...)}
}

func configurationf(err error, format string, args ...interface{}) *Error {
	return &Error{Kind: Configuration, Message: fmt.Sprintf(format, args...), Err: err}
}

func connectivityf(err error, format string, args ...interface{}) *Error {
	return &Error{Kind: Connectivity, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf reports the ErrorKind of err, if it is or wraps an *Error.
func KindOf(err error) (ErrorKind, bool) {
	var rerr *Error
	if errors.As(err, &rerr) {
		return rerr.Kind, true
	}
	return "", false
}

func IsValidation(err error) bool {
	kind, ok := KindOf(err)
	return ok && kind == Validation
}

func IsConfiguration(err error) bool {
	kind, ok := KindOf(err)
	return ok && kind == Configuration
}

func IsConnectivity(err error) bool {
	kind, ok := KindOf(err)
	return ok && kind == Connectivity
}
