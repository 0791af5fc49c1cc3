// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package transport

import (
	"errors"
	"fmt"
)

// ErrNoResponse indicates the backend answered 2xx without a reply.
var ErrNoResponse = errors.New("No response received from server")

// TransportError is returned for any failed exchange with the backend.
type TransportError struct {
	// Status is the HTTP status code, or 0 when no response was received.
	Status int

	// Message is the user-facing description.
	Message string

	// Err is the underlying cause, if any.
	Err error
}

// Error returns the user-facing message.
func (e *TransportError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// statusError builds the error for a non-2xx response.
func statusError(status int, message string) *TransportError {
	if message == "" {
		message = fmt.Sprintf("HTTP %d", status)
	}
	return &TransportError{Status: status, Message: message}
}
