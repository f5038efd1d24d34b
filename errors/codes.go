package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Sequence errors
const (
	// ErrCodeNotEnumerable indicates a value does not expose the enumeration capability.
	ErrCodeNotEnumerable ErrorCode = "NOT_ENUMERABLE"
	// ErrCodeEmptyReduce indicates a reduce without seed over an exhausted sequence.
	ErrCodeEmptyReduce ErrorCode = "EMPTY_REDUCE"
)

// Input errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeInvalidPlan indicates a plan definition cannot be compiled.
	ErrCodeInvalidPlan ErrorCode = "INVALID_PLAN"
	// ErrCodeNotFound indicates the requested resource was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
)

// Internal errors
const (
	// ErrCodeInternal indicates an unexpected internal failure.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// contractCodes are raised for programmer-contract violations at the call
// site that violated them.
var contractCodes = map[ErrorCode]bool{
	ErrCodeNotEnumerable: true,
	ErrCodeEmptyReduce:   true,
}

// IsContractCode returns true if the code marks a violated sequence contract.
func IsContractCode(code ErrorCode) bool {
	return contractCodes[code]
}
