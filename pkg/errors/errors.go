// Package errors carries the structured error type used on every failure
// path: an RFC 9457 problem-details document with an application code,
// an optional cause chain, and context fields that can be redacted before
// an error leaves the process.
package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
)

// Error is a structured failure. Title states what went wrong in one line
// and names the file path involved when there is one; Detail adds
// occurrence-specific context such as remediation hints.
type Error struct {
	// Type is a URI reference identifying the error class.
	Type string `json:"type"`

	// Title is a short human-readable summary.
	Title string `json:"title"`

	// Status is the HTTP status code class of the failure.
	Status int `json:"status"`

	// Detail explains this specific occurrence.
	Detail string `json:"detail,omitempty"`

	// Instance identifies the specific occurrence.
	Instance string `json:"instance,omitempty"`

	// Code is the application error code.
	Code ErrorCode `json:"code"`

	// Cause is the wrapped underlying error.
	Cause error `json:"-"`

	// Fields holds structured context for logs and reports.
	Fields map[string]interface{} `json:"fields,omitempty"`
}

// New creates an Error for code. Type and Status come from the code table.
func New(code ErrorCode, title string) *Error {
	info := GetErrorInfo(code)
	return &Error{
		Type:   info.Type,
		Title:  title,
		Status: info.Status,
		Code:   code,
		Fields: make(map[string]interface{}),
	}
}

// Wrap creates an Error for code with cause attached.
func Wrap(code ErrorCode, cause error, title string) *Error {
	return New(code, title).WithCause(cause)
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Title, e.Detail)
	}
	return e.Title
}

// Unwrap exposes the cause to the stdlib errors helpers.
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithDetail sets the occurrence detail.
func (e *Error) WithDetail(detail string) *Error {
	e.Detail = detail
	return e
}

// WithCause attaches the underlying error. When no detail is set the
// cause message becomes the detail.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	if e.Detail == "" && cause != nil {
		e.Detail = cause.Error()
	}
	return e
}

// WithField attaches one context field.
func (e *Error) WithField(key string, value interface{}) *Error {
	if e.Fields == nil {
		e.Fields = make(map[string]interface{})
	}
	e.Fields[key] = value
	return e
}

// WithFields attaches several context fields.
func (e *Error) WithFields(fields map[string]interface{}) *Error {
	for k, v := range fields {
		e.WithField(k, v)
	}
	return e
}

// MarshalJSON renders the problem-details document with the cause message
// inlined, since error values do not marshal themselves.
func (e *Error) MarshalJSON() ([]byte, error) {
	type plain Error
	doc := struct {
		*plain
		CauseMsg string `json:"cause,omitempty"`
	}{plain: (*plain)(e)}
	if e.Cause != nil {
		doc.CauseMsg = e.Cause.Error()
	}
	return json.Marshal(&doc)
}

// As finds the first *Error in err's chain.
func As(err error, target **Error) bool {
	return stderrors.As(err, target)
}

// Is reports whether the first structured error in err's chain carries
// code.
func Is(err error, code ErrorCode) bool {
	var appErr *Error
	if As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// GetCode returns the application code of err, or ErrUnknown for errors
// born outside this package.
func GetCode(err error) ErrorCode {
	var appErr *Error
	if As(err, &appErr) {
		return appErr.Code
	}
	return ErrUnknown
}

// GetStatus returns the HTTP status class of err, defaulting to 500.
func GetStatus(err error) int {
	var appErr *Error
	if As(err, &appErr) {
		return appErr.Status
	}
	return 500
}

// Redact returns a copy safe for machine-readable output: context fields
// that may hold credential material are dropped, as are the cause chain
// and occurrence detail derived from it.
func (e *Error) Redact() *Error {
	redacted := &Error{
		Type:   e.Type,
		Title:  e.Title,
		Status: e.Status,
		Code:   e.Code,
		Fields: make(map[string]interface{}),
	}
	for k, v := range e.Fields {
		if _, sensitive := sensitiveFields[k]; !sensitive {
			redacted.Fields[k] = v
		}
	}
	return redacted
}

// sensitiveFields names context keys that must never leave the process.
var sensitiveFields = map[string]struct{}{
	"password":      {},
	"secret":        {},
	"token":         {},
	"key":           {},
	"credential":    {},
	"client_secret": {},
	"refresh_token": {},
	"access_token":  {},
	"private_key":   {},
	"authorization": {},
}
