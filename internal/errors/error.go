package errors

import (
	stderrors "errors"
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryAsset    Category = "asset"
	CategoryManifest Category = "manifest"
	CategoryRouting  Category = "routing"
	CategoryConfig   Category = "config"
	CategoryCLI      Category = "cli"
)

// BowerError is a structured error with a registered code and an optional cause.
type BowerError struct {
	// Code is a unique error identifier (e.g., "B001").
	Code string

	// Category is the error type (asset, manifest, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of this occurrence.
	Detail string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// DocURL is a link to documentation about this error.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *BowerError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *BowerError) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is a BowerError with the same code.
func (e *BowerError) Is(target error) bool {
	t, ok := target.(*BowerError)
	if !ok {
		return false
	}
	return e.Code != "" && e.Code == t.Code
}

// WithSuggestion adds a fix suggestion to the error.
func (e *BowerError) WithSuggestion(s string) *BowerError {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *BowerError) WithDetail(d string) *BowerError {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *BowerError) Wrap(err error) *BowerError {
	e.Wrapped = err
	return e
}

// New creates a BowerError from a registered error code.
func New(code string) *BowerError {
	template, ok := registry[code]
	if !ok {
		return &BowerError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &BowerError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		DocURL:   template.DocURL,
	}
}

// Newf creates a new BowerError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *BowerError {
	return &BowerError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a BowerError.
// Errors that already carry a BowerError are returned as that BowerError.
func FromError(err error, code string) *BowerError {
	if err == nil {
		return nil
	}
	var be *BowerError
	if stderrors.As(err, &be) {
		return be
	}
	return New(code).Wrap(err)
}

// CodeOf returns the code of the first BowerError in err's chain, or "".
func CodeOf(err error) string {
	var be *BowerError
	if stderrors.As(err, &be) {
		return be.Code
	}
	return ""
}
