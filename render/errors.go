// Copyright © 2026 Pixelterm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: render/errors.go
// Summary: Renderer error type.

package render

import "fmt"

// RenderError reports a failure in the headless-browser rendering step:
// an unloadable host page, an unresolvable font path, a failed screenshot.
// The renderer never retries; retry policy belongs to the caller.
type RenderError struct {
	Stage string
	Err   error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render: %s: %v", e.Stage, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

func renderErr(stage string, err error) error {
	return &RenderError{Stage: stage, Err: err}
}
