package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Domain error codes
const (
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeInvalidInput      = "INVALID_INPUT"
	ErrCodeValidation        = "VALIDATION_ERROR"
	ErrCodeSourceUnavailable = "SOURCE_UNAVAILABLE"
)

// Common domain errors
var (
	ErrNotFound          = NewDomainError(ErrCodeNotFound, "Resource not found")
	ErrInvalidInput      = NewDomainError(ErrCodeInvalidInput, "Invalid input provided")
	ErrValidation        = NewDomainError(ErrCodeValidation, "Request validation failed")
	ErrSourceUnavailable = NewDomainError(ErrCodeSourceUnavailable, "Transaction source is unavailable")
)
