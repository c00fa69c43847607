package wizard

import "errors"

var (
	ErrWrongStep    = errors.New("operation not available on this step")
	ErrUnknownField = errors.New("unknown form field")
	ErrSubmitted    = errors.New("project already submitted")
)

// ValidationError is a user-facing rejection of the form at submit time
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
