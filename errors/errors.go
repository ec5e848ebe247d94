package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError is the unified library error type.
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

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

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
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// --- Common Error Constructors ---

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

// MissingField creates a new AppError for a missing required field.
func MissingField(field string) *AppError {
	return &AppError{
		Code: ErrCodeMissingField, Message: fmt.Sprintf("Missing required field: %s", field),
		Details: map[string]any{"field": field},
	}
}

// Internal creates a new AppError for an unexpected failure.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred.",
		Cause: cause,
	}
}

// TypeMismatch creates a new AppError for a joint whose types disagree.
// position is the index of the downstream stage.
func TypeMismatch(position int, output, input string) *AppError {
	return &AppError{
		Code: ErrCodeTypeMismatch,
		Message: fmt.Sprintf("stage %d expects input %s but stage %d produces %s",
			position, input, position-1, output),
		Details: map[string]any{"position": position, "output": output, "input": input},
	}
}

// InputMismatch creates a new AppError for an external input whose type
// differs from the pipeline's input type.
func InputMismatch(expected, got string) *AppError {
	return &AppError{
		Code:    ErrCodeTypeMismatch,
		Message: fmt.Sprintf("pipeline expects input %s, got %s", expected, got),
		Details: map[string]any{"input": expected, "got": got},
	}
}

// ArityViolation creates a new AppError for a function with too many arguments.
func ArityViolation(signature string, arity int) *AppError {
	return &AppError{
		Code:    ErrCodeArityViolation,
		Message: fmt.Sprintf("stage functions take zero or one argument, %s takes %d", signature, arity),
		Details: map[string]any{"signature": signature, "arity": arity},
	}
}

// InvalidStage creates a new AppError for a value that cannot be used as a stage.
func InvalidStage(position int, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidStage,
		Message: fmt.Sprintf("stage %d: %s", position, reason),
		Details: map[string]any{"position": position},
	}
}

// InvalidStageCount creates a new AppError for an unsupported number of stages.
func InvalidStageCount(got, minStages, maxStages int) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidStageCount,
		Message: fmt.Sprintf("a pipeline takes %d to %d stages, got %d", minStages, maxStages, got),
		Details: map[string]any{"count": got, "min": minStages, "max": maxStages},
	}
}

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether err is an AppError carrying code.
func HasCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}
