package services

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a requested book does not exist
	ErrNotFound = errors.New("not found")

	// ErrUpstreamUnavailable is returned when an operation needs a query vector and none could be produced
	ErrUpstreamUnavailable = errors.New("embedding service unavailable")
)

// RejectedQueryError is returned when the content filter refuses a query.
// Reason is for server-side logs only.
type RejectedQueryError struct {
	Reason string
}

func (e *RejectedQueryError) Error() string {
	return fmt.Sprintf("query rejected: %s", e.Reason)
}
