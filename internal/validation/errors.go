package validation

import "errors"

// ErrInvalid is matched by every *Error via errors.Is.
var ErrInvalid = errors.New("validation failed")

type Code string

const (
	CodeRequired            Code = "REQUIRED"
	CodeTooShort            Code = "TOO_SHORT"
	CodeTooLong             Code = "TOO_LONG"
	CodeDuplicate           Code = "DUPLICATE"
	CodeStartInPast         Code = "START_IN_PAST"
	CodeEndBeforeStart      Code = "END_BEFORE_START"
	CodeSpanTooLong         Code = "SPAN_TOO_LONG"
	CodeUnknownDependency   Code = "UNKNOWN_DEPENDENCY"
	CodeCyclicDependency    Code = "CYCLIC_DEPENDENCY"
	CodeDependencyNotFinish Code = "DEPENDENCY_ENDS_AFTER_START"
)

// Error is a single field-level validation failure. Message is meant to be
// shown to the user as-is.
type Error struct {
	Field   string
	Code    Code
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return ErrInvalid }

func newError(field string, code Code, message string) *Error {
	return &Error{Field: field, Code: code, Message: message}
}
