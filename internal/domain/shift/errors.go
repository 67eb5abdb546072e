package shift

import (
	"errors"
	"fmt"
)

var (
	ErrEventNotFound = errors.New("event not found")

	// ErrInvalidState is the parent of every status precondition failure.
	ErrInvalidState    = errors.New("invalid event state")
	ErrAlreadyFinished = fmt.Errorf("%w: event already finished", ErrInvalidState)
	ErrWrongStatus     = fmt.Errorf("%w: wrong event status", ErrInvalidState)
	ErrCurrentExists   = fmt.Errorf("%w: another event is still current", ErrInvalidState)

	ErrUnknownStatus   = errors.New("unknown event status")
	ErrUnknownStrategy = errors.New("unknown close strategy")

	ErrInvalidFormData        = errors.New("invalid form data")
	ErrUnsupportedFormVersion = fmt.Errorf("%w: unsupported version", ErrInvalidFormData)

	ErrInvalidEventDate = errors.New("event date must be YYYY-MM-DD")
	ErrEventNameEmpty   = errors.New("event name is required")
)
