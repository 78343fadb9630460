package services

import (
	"errors"
	"strings"
)

var (
	// ErrMissingFields is matched by *MissingFieldsError.
	ErrMissingFields = errors.New("missing required fields")

	// ErrInvalidPrice means price was present but not a positive finite number.
	ErrInvalidPrice = errors.New("invalid price")
)

// MissingFieldsError lists the absent or blank fields of a listing request.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "Missing required fields: " + strings.Join(e.Fields, ", ")
}

func (e *MissingFieldsError) Is(target error) bool {
	return target == ErrMissingFields
}
