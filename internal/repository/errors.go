package repository

import (
	"errors"
	"fmt"
)

// ErrTransport wraps failures to reach the records API at all.
var ErrTransport = errors.New("records API unreachable")

// StatusError is a non-2xx HTTP response from the records API.
type StatusError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: HTTP %d: %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: HTTP %d", e.Op, e.StatusCode)
}

// RejectedError is an application-level failure reported inside a successful
// HTTP response ({"status":"error","message":"..."}).
type RejectedError struct {
	Op      string
	Status  string
	Message string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("%s rejected (%s): %s", e.Op, e.Status, e.Message)
}
