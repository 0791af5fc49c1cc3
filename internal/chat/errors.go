// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import "errors"

var (
	// ErrBusy is returned by Submit while another submission is in flight.
	ErrBusy = errors.New("a message is already being sent")

	// ErrPanic wraps a panic recovered during a submission.
	ErrPanic = errors.New("unexpected failure")
)

// errorNoticePrefix starts every failure notice.
const errorNoticePrefix = "Sorry, there was an error: "

// ErrorNotice returns the user-facing notice for a failed submission.
func ErrorNotice(err error) string {
	return errorNoticePrefix + err.Error()
}

// ConnectivityWarning is shown when the startup connectivity check fails.
const ConnectivityWarning = "Cannot connect to server. Please check if the backend is running."
