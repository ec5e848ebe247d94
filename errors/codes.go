package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Validation errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeMissingField indicates a required field is missing.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
)

// Assembly errors
const (
	// ErrCodeTypeMismatch indicates a stage's output type differs from the
	// next stage's input type.
	ErrCodeTypeMismatch ErrorCode = "TYPE_MISMATCH"
	// ErrCodeArityViolation indicates a function takes more than one argument.
	ErrCodeArityViolation ErrorCode = "ARITY_VIOLATION"
	// ErrCodeInvalidStage indicates a value that cannot act as a stage.
	ErrCodeInvalidStage ErrorCode = "INVALID_STAGE"
	// ErrCodeInvalidStageCount indicates an unsupported number of stages.
	ErrCodeInvalidStageCount ErrorCode = "INVALID_STAGE_COUNT"
)

// Internal errors
const (
	// ErrCodeInternal indicates an unexpected internal failure.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var assemblyCodes = map[ErrorCode]bool{
	ErrCodeTypeMismatch:      true,
	ErrCodeArityViolation:    true,
	ErrCodeInvalidStage:      true,
	ErrCodeInvalidStageCount: true,
}

// IsAssemblyCode returns true if the code is raised while building a pipeline.
func IsAssemblyCode(code ErrorCode) bool {
	return assemblyCodes[code]
}
