package wizards

import "errors"

var (
	// ErrNotFound indicates the session does not exist or has expired.
	ErrNotFound = errors.New("not found")

	// ErrForbidden indicates the session belongs to another user.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidInput indicates validation or bad input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFinalStep is returned when generation is requested before the last step.
	ErrNotFinalStep = errors.New("generation is only available on the last step")
)
