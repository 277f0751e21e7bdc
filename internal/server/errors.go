package server

import "fmt"

// ValidationError aborts an operation before any state change and carries a
// message meant for the initiating screen.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationErrorf(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError marks a reference to a question, answer or team that does
// not exist. Handlers log it and treat the operation as a no-op.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return e.Kind + " not found: " + e.ID
}

func notFound(kind, id string) error {
	return &NotFoundError{Kind: kind, ID: id}
}
