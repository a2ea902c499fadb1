package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

const (
	CodeValidation      = "validation_failed"
	CodeUnauthenticated = "unauthenticated"
	CodeForbidden       = "forbidden"
	CodeNotFound        = "not_found"
	CodeInternal        = "internal"
)

type Error struct {
	Status int
	Code   string
	Err    error
	// Fields holds per-field messages for validation failures.
	Fields map[string][]string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// Validation returns a 422 carrying the given field errors. The message mirrors the
// first failing field so simple clients can show a single line.
func Validation(fields map[string][]string) *Error {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	msg := "the given data was invalid"
	if len(keys) > 0 && len(fields[keys[0]]) > 0 {
		msg = fields[keys[0]][0]
		if extra := countMessages(fields) - 1; extra > 0 {
			msg = fmt.Sprintf("%s (and %d more error%s)", msg, extra, plural(extra))
		}
	}
	return &Error{
		Status: http.StatusUnprocessableEntity,
		Code:   CodeValidation,
		Err:    errors.New(msg),
		Fields: fields,
	}
}

// FieldError is shorthand for a single-field validation failure.
func FieldError(field, msg string) *Error {
	return Validation(map[string][]string{field: {msg}})
}

func Unauthenticated() *Error {
	return New(http.StatusUnauthorized, CodeUnauthenticated, errors.New("Authentication required"))
}

func Forbidden(msg string) *Error {
	if strings.TrimSpace(msg) == "" {
		msg = "forbidden"
	}
	return New(http.StatusForbidden, CodeForbidden, errors.New(msg))
}

func NotFound(what string) *Error {
	return New(http.StatusNotFound, CodeNotFound, fmt.Errorf("%s not found", strings.TrimSpace(what)))
}

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) && e != nil {
		return e, true
	}
	return nil, false
}

func countMessages(fields map[string][]string) int {
	n := 0
	for _, msgs := range fields {
		n += len(msgs)
	}
	return n
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
