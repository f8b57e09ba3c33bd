package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthorized matches 401 and 403 responses.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound matches 404 responses.
	ErrNotFound = errors.New("not found")
	// ErrNetwork wraps transport failures (connection refused, timeouts).
	ErrNetwork = errors.New("network error")
)

// StatusError reports a non-success HTTP response.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	// Detail is the server's {"detail": "..."} message, if any.
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("api %s %s returned status %d", e.Method, e.Path, e.StatusCode)
}

// Is lets errors.Is classify the status.
func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	}
	return false
}

type networkError struct {
	err error
}

func (e *networkError) Error() string { return "execute request: " + e.err.Error() }

func (e *networkError) Unwrap() []error { return []error{ErrNetwork, e.err} }
