package service

import "errors"

var (
	// ErrNotFound is returned when a referenced recipe, user, tag or
	// ingredient id does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned when a caller tries to modify a recipe
	// they do not own.
	ErrForbidden = errors.New("forbidden")
)

// ValidationError reports client input that must never reach the store:
// empty ingredient or tag sets, zero amounts, duplicate adds, removes of
// absent relations. Handlers map it to a 400 response.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string) error {
	return &ValidationError{Message: message}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
