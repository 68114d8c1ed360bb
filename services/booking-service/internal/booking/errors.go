package booking

import "errors"

// ValidationError reports malformed, missing or past-dated input.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// ConflictError reports that the requested slot is already held.
type ConflictError struct {
	Date string
	Time string
}

func (e *ConflictError) Error() string {
	return "This time slot is already booked. Please choose another time."
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

func invalid(msg string) error { return &ValidationError{Msg: msg} }
