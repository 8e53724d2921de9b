package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrModelUnavailable   = errors.New("model unavailable")
	ErrTrainingInProgress = errors.New("training already in progress")
)

// ValidationError rejects a malformed recommendation request.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}

func IsValidationError(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}
