// Package errors provides the structured error type shared by the sequence
// engine and its outer layers (plans, CLI).
//
// Every error carries a machine-readable code. Sentinels such as
// ErrNotEnumerable let callers match by code with the standard errors.Is.
package errors

import (
	"fmt"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Sentinels for errors.Is matching. Only the code is compared.
var (
	ErrNotEnumerable = &AppError{Code: ErrCodeNotEnumerable}
	ErrEmptyReduce   = &AppError{Code: ErrCodeEmptyReduce}
	ErrInvalidPlan   = &AppError{Code: ErrCodeInvalidPlan}
	ErrNotFound      = &AppError{Code: ErrCodeNotFound}
)

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// Is reports whether target is an AppError with the same code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// --- Common Error Constructors ---

// NotEnumerable creates an error for a value lacking the enumeration capability.
func NotEnumerable(value any) *AppError {
	return &AppError{
		Code: ErrCodeNotEnumerable, Message: "value is not enumerable",
		Details: map[string]any{"type": fmt.Sprintf("%T", value)},
	}
}

// EmptyReduce creates an error for a reduce without seed over an exhausted sequence.
func EmptyReduce() *AppError {
	return &AppError{
		Code: ErrCodeEmptyReduce, Message: "reduce of exhausted sequence with no initial value",
	}
}

// InvalidInput creates a new AppError for invalid input.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("Invalid input: %s", reason),
		Details: details,
	}
}

// Validation creates a new AppError for validation errors.
func Validation(message string) *AppError {
	return &AppError{Code: ErrCodeInvalidInput, Message: message}
}

// InvalidPlan creates a new AppError for a plan that cannot be compiled.
func InvalidPlan(plan, reason string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidPlan, Message: fmt.Sprintf("plan %q: %s", plan, reason),
		Details: map[string]any{"plan": plan},
	}
}

// NotFound creates a new AppError for a resource that was not found.
func NotFound(resource, id string) *AppError {
	details := map[string]any{"resource": resource}
	if id != "" {
		details["id"] = id
	}
	return &AppError{
		Code: ErrCodeNotFound, Message: fmt.Sprintf("The requested %s was not found.", resource),
		Details: details,
	}
}

// Internal creates a new AppError for an unexpected failure.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred.", Cause: cause,
	}
}
