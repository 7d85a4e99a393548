// Copyright © 2026 Pixelterm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: capture/errors.go
// Summary: Error types surfaced by a capture session.

package capture

import (
	"fmt"
	"strings"
	"time"
)

// ProcessExitError reports that the program under test exited with a
// non-zero status. It is never retried by the core.
type ProcessExitError struct {
	Command  string
	Args     []string
	ExitCode int
}

func (e *ProcessExitError) Error() string {
	line := e.Command
	if len(e.Args) > 0 {
		line += " " + strings.Join(e.Args, " ")
	}
	return fmt.Sprintf("capture: %q exited with status %d", line, e.ExitCode)
}

// TimeoutError reports that the program under test did not exit within the
// allotted time. The child process has already been forcibly killed by the
// time this error is returned.
type TimeoutError struct {
	Command string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("capture: %q did not exit within %s (process killed)", e.Command, e.Timeout)
}
