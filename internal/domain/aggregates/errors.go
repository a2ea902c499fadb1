package aggregates

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode standardizes write-boundary failure semantics across the data layer.
type ErrorCode string

const (
	CodeValidation         ErrorCode = "validation"
	CodeUnauthenticated    ErrorCode = "unauthenticated"
	CodeNotFound           ErrorCode = "not_found"
	CodeConflict           ErrorCode = "conflict"
	CodePreconditionFailed ErrorCode = "precondition_failed"
	CodeRetryable          ErrorCode = "retryable"
	CodeInternal           ErrorCode = "internal"
)

// Error is the canonical aggregate error wrapper. Field names the offending request
// field for validation failures.
type Error struct {
	Code    ErrorCode
	Op      string
	Field   string
	Message string
	// Args are formatting arguments for Message after the field name.
	Args  []interface{}
	Cause error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	op := strings.TrimSpace(e.Op)
	msg := strings.TrimSpace(e.Message)
	switch {
	case op != "" && msg != "":
		return fmt.Sprintf("%s: %s (%s)", op, msg, e.Code)
	case op != "":
		return fmt.Sprintf("%s (%s)", op, e.Code)
	case msg != "":
		return fmt.Sprintf("%s (%s)", msg, e.Code)
	default:
		return string(e.Code)
	}
}

func (e *Error) Unwrap() error { return e.Cause }

func NewError(code ErrorCode, op, message string, cause error) error {
	return &Error{
		Code:    code,
		Op:      strings.TrimSpace(op),
		Message: strings.TrimSpace(message),
		Cause:   cause,
	}
}

// FieldError is a validation failure attributed to one input field.
func FieldError(op, field, message string, args ...interface{}) error {
	return &Error{
		Code:    CodeValidation,
		Op:      strings.TrimSpace(op),
		Field:   strings.TrimSpace(field),
		Message: strings.TrimSpace(message),
		Args:    args,
	}
}

func Wrap(code ErrorCode, op string, err error) error {
	if err == nil {
		return nil
	}
	return NewError(code, op, err.Error(), err)
}

func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}

func CodeOf(err error) ErrorCode {
	var aggErr *Error
	if !errors.As(err, &aggErr) {
		return ""
	}
	return aggErr.Code
}

// FieldOf returns the field of a validation error, or "".
func FieldOf(err error) string {
	var aggErr *Error
	if !errors.As(err, &aggErr) {
		return ""
	}
	return aggErr.Field
}

// As extracts the coded error from err's chain.
func As(err error) (*Error, bool) {
	var aggErr *Error
	if errors.As(err, &aggErr) && aggErr != nil {
		return aggErr, true
	}
	return nil, false
}
