package checkout

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTransition = errors.New("invalid checkout transition")
	ErrSessionClosed     = errors.New("checkout already submitted")
)

// ValidationError reports the first field that blocks a step transition.
type ValidationError struct {
	Step    string
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s %s", e.Step, e.Field, e.Message)
}

func required(step, field string) *ValidationError {
	return &ValidationError{Step: step, Field: field, Message: "is required"}
}
