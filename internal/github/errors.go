package github

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized indicates the token was rejected (HTTP 401).
	ErrUnauthorized = errors.New("github credential rejected")

	// ErrNotFound indicates the requested file does not exist (HTTP 404).
	ErrNotFound = errors.New("github file not found")

	// ErrConflict indicates the expected revision no longer matches the
	// stored file (HTTP 409 or 422).
	ErrConflict = errors.New("github revision conflict")

	// ErrTimeout indicates the request exceeded the configured timeout.
	ErrTimeout = errors.New("github request timed out")

	// ErrUnavailable indicates the API could not be reached.
	ErrUnavailable = errors.New("github api unavailable")
)

// APIError is any other non-success response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("github returned status %d", e.Status)
	}
	return fmt.Sprintf("github returned status %d: %s", e.Status, e.Message)
}
