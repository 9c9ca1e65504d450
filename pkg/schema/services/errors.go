package services

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrEmbeddingUnavailable is matched by every embedding failure.
// Callers treat it as "no vector" rather than as a request error.
var ErrEmbeddingUnavailable = errors.New("embedding unavailable")

// FailureClass names why an embedding call failed
type FailureClass string

const (
	FailureConnection FailureClass = "connection"
	FailureTimeout    FailureClass = "timeout"
	FailureStatus     FailureClass = "status"
	FailurePayload    FailureClass = "payload"
	FailureDimension  FailureClass = "dimension"
)

// EmbeddingError is a classified embedding failure
type EmbeddingError struct {
	Class      FailureClass
	StatusCode int
	Err        error
}

func (e *EmbeddingError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("embedding %s failure (HTTP %d): %v", e.Class, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("embedding %s failure: %v", e.Class, e.Err)
}

func (e *EmbeddingError) Unwrap() error { return e.Err }

// Is makes every EmbeddingError match ErrEmbeddingUnavailable.
func (e *EmbeddingError) Is(target error) bool {
	return target == ErrEmbeddingUnavailable
}

func payloadError(format string, args ...interface{}) *EmbeddingError {
	return &EmbeddingError{Class: FailurePayload, Err: fmt.Errorf(format, args...)}
}

// classifyTransportError wraps an error returned before any response arrived.
func classifyTransportError(err error) *EmbeddingError {
	var ee *EmbeddingError
	if errors.As(err, &ee) {
		return ee
	}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &EmbeddingError{Class: FailureTimeout, Err: err}
	}
	return &EmbeddingError{Class: FailureConnection, Err: err}
}
