package errors

import "fmt"

// Category represents the type of error.
type Category string

const (
	CategoryRuntime   Category = "runtime"
	CategoryReconcile Category = "reconcile"
	CategoryHydration Category = "hydration"
	CategoryLive      Category = "live"
	CategoryConfig    Category = "config"
	CategoryCLI       Category = "cli"
)

// AnchorError is a structured error with a registered code and an optional cause.
type AnchorError struct {
	// Code is a unique error identifier (e.g., "E001").
	Code string

	// Category is the error type (runtime, hydration, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *AnchorError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *AnchorError) Unwrap() error {
	return e.Wrapped
}

// WithSuggestion adds a fix suggestion to the error.
func (e *AnchorError) WithSuggestion(s string) *AnchorError {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *AnchorError) WithDetail(d string) *AnchorError {
	e.Detail = d
	return e
}

// WithDetailf adds a formatted explanation to the error.
func (e *AnchorError) WithDetailf(format string, args ...any) *AnchorError {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// Wrap wraps another error.
func (e *AnchorError) Wrap(err error) *AnchorError {
	e.Wrapped = err
	return e
}

// LogAttrs returns key/value pairs suitable for slog.
func (e *AnchorError) LogAttrs() []any {
	attrs := []any{"code", e.Code, "category", string(e.Category)}
	if e.Detail != "" {
		attrs = append(attrs, "detail", e.Detail)
	}
	if e.Wrapped != nil {
		attrs = append(attrs, "error", e.Wrapped.Error())
	}
	return attrs
}

// New creates an AnchorError from a registered error code.
func New(code string) *AnchorError {
	template, ok := registry[code]
	if !ok {
		return &AnchorError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &AnchorError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
	}
}

// FromError returns err as an AnchorError, wrapping it under code when it
// is not one already.
func FromError(err error, code string) *AnchorError {
	if err == nil {
		return nil
	}
	if ae, ok := err.(*AnchorError); ok {
		return ae
	}
	return New(code).Wrap(err)
}
