package services

import "errors"

var (
	// ErrNotFound is returned when a profile or record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrIneligible is returned when a swipe targets a profile the viewer may not see.
	ErrIneligible = errors.New("not eligible")
	// ErrInvalidSwipe is returned for malformed swipe requests.
	ErrInvalidSwipe = errors.New("invalid swipe")
	// ErrInvalidPreferences is returned when preference values are inconsistent.
	ErrInvalidPreferences = errors.New("invalid preferences")
	// ErrInvalidToken is returned when a bearer token cannot be verified.
	ErrInvalidToken = errors.New("invalid token")
	// ErrConflict is returned when a conditional write lost against a concurrent one.
	ErrConflict = errors.New("conflicting write")
)
