package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthorized matches 401 and 403 responses. The session must log out.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrIneligible matches 422 responses to a swipe on a profile the user may not see.
	ErrIneligible = errors.New("not eligible")
	// ErrNotFound matches 404 responses.
	ErrNotFound = errors.New("not found")
	// ErrNoCredentials is returned by authenticated calls made while logged out.
	ErrNoCredentials = errors.New("not logged in")
)

// APIError is a non-2xx response from the discovery API
type APIError struct {
	StatusCode int
	Code       string // value of the {"error": ...} body, if any
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Code)
	}
	return fmt.Sprintf("api error %d", e.StatusCode)
}

// Is lets callers test API errors against the sentinels with errors.Is.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
	case ErrIneligible:
		return e.StatusCode == http.StatusUnprocessableEntity
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	}
	return false
}
