package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrSessionNotFound = errors.New("session: not found")
	ErrTransport       = errors.New("backend: transport failure")
	ErrDecode          = errors.New("backend: undecodable response")
)

// APIError is a non-2xx answer from the backend.
type APIError struct {
	Status int
	// Detail is the server-provided user-facing message, if any.
	Detail string
	// JSON is set when the body was a JSON document, with or without a detail.
	JSON       bool
	RetryAfter time.Duration
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend: status %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("backend: status %d", e.Status)
}
