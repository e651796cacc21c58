package apiclient

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingCredential is returned before any network call when no token is stored.
	ErrMissingCredential = errors.New("no access token found, please log in")
	// ErrUnauthorized maps an HTTP 401 from the backend.
	ErrUnauthorized = errors.New("unauthorized, please log in again")
)

// APIError is a non-2xx response other than 401.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// RequestError wraps transport and decoding failures.
type RequestError struct {
	Verb     string
	Resource string
	Err      error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("failed to %s %s", e.Verb, e.Resource)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}
