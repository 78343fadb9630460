package handlers

import (
	"errors"
	"net/http"

	"artisans-hub-api/internal/adapters/storage"
	"artisans-hub-api/internal/repositories"
	"artisans-hub-api/internal/services"
)

var (
	// ErrMethodNotAllowed is returned for verbs an endpoint does not serve.
	ErrMethodNotAllowed = errors.New("method not allowed")

	// ErrInvalidBody means the request body was not valid JSON.
	ErrInvalidBody = errors.New("invalid request body")
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrMethodNotAllowed):
		return http.StatusMethodNotAllowed
	case errors.Is(err, ErrInvalidBody),
		errors.Is(err, services.ErrMissingFields),
		errors.Is(err, services.ErrInvalidPrice),
		errors.Is(err, services.ErrNoImage),
		errors.Is(err, repositories.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, storage.ErrFileNotFound),
		errors.Is(err, storage.ErrInvalidKey):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func messageFor(err error) string {
	var missing *services.MissingFieldsError
	switch {
	case errors.Is(err, ErrMethodNotAllowed):
		return "Method not allowed"
	case errors.Is(err, ErrInvalidBody):
		return "Invalid request body"
	case errors.As(err, &missing):
		return missing.Error()
	case errors.Is(err, services.ErrMissingFields):
		return "Missing required fields"
	case errors.Is(err, services.ErrInvalidPrice):
		return "Invalid price"
	case errors.Is(err, services.ErrNoImage):
		return "No image provided"
	case errors.Is(err, storage.ErrFileNotFound), errors.Is(err, storage.ErrInvalidKey):
		return "Image not found"
	default:
		return err.Error()
	}
}
