package recommendation

import "fmt"

// FailureReason classifies why a payload was rejected.
type FailureReason string

const (
	ReasonMalformedPayload FailureReason = "MalformedPayload"
	ReasonSchemaMismatch   FailureReason = "SchemaMismatch"
	ReasonTypeMismatch     FailureReason = "TypeMismatch"
	ReasonInvalidValue     FailureReason = "InvalidValue"
)

// ValidationError is returned when a create or update payload is rejected.
type ValidationError struct {
	Reason  FailureReason
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationErrorf(reason FailureReason, format string, args ...any) *ValidationError {
	return &ValidationError{Reason: reason, Message: fmt.Sprintf(format, args...)}
}

// NotFoundError carries the id that could not be resolved.
type NotFoundError struct {
	ID uint64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Recommendation with id: %d was not found", e.ID)
}
