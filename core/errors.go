package core

import "github.com/pkg/errors"

// FieldError ties an error message to the request field that caused it.
type FieldError struct {
	Field string
	Error string
}

// ValidationError carries per-field errors for a rejected payload.
// The HTTP error handler renders Fields as a field -> message map.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{Err: err, Fields: flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// FieldError returns the message registered for field, if any.
func (err ValidationError) FieldError(field string) (string, bool) {
	for _, fld := range err.Fields {
		if fld.Field == field {
			return fld.Error, true
		}
	}
	return "", false
}

// shutdown signals that the integrity of the service is compromised and it
// should be brought down gracefully.
type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

// IsShutdown checks whether err (or its cause) requests a shutdown.
func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
