package services

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound            = errors.New("URL not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrCodeConflict        = errors.New("custom code already taken")
	ErrAllocationExhausted = errors.New("could not allocate a unique short code, please retry")
	ErrUnauthenticated     = errors.New("authentication required")
	ErrUnauthorized        = errors.New("you do not own this URL")
)

// ValidationError reports the first offending input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// UnsafeContentError is the policy rejection for high-confidence malicious URLs.
type UnsafeContentError struct {
	Category   string
	Confidence float64
	Reason     string
}

func (e *UnsafeContentError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("URL rejected as %s (confidence %.2f): %s", e.Category, e.Confidence, e.Reason)
	}
	return fmt.Sprintf("URL rejected as %s (confidence %.2f)", e.Category, e.Confidence)
}
