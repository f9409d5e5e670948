package actions

import (
	"errors"

	"devconsole/internal/model"
)

const allRequired = "All fields are required"

// ErrValidation matches every *ValidationError via errors.Is.
var ErrValidation = errors.New("validation failed")

// ValidationError reports a missing input. No request is sent for it.
type ValidationError struct {
	Action  model.ActionID
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// requireFields fails with msg unless every value is non-empty.
func requireFields(id model.ActionID, msg string, vals ...string) error {
	for _, v := range vals {
		if v == "" {
			return &ValidationError{Action: id, Message: msg}
		}
	}
	return nil
}
