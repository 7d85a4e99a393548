// Copyright © 2026 Pixelterm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: imagediff/errors.go
// Summary: Comparator error types.

package imagediff

import "fmt"

// DimensionMismatchError reports that the actual and baseline images differ
// in width or height. This is always fatal to a comparison — a sizing bug is
// not a rendering regression and must never be reported as "100% of pixels
// differ".
type DimensionMismatchError struct {
	ActualWidth    int
	ActualHeight   int
	BaselineWidth  int
	BaselineHeight int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("imagediff: dimension mismatch: actual %dx%d vs baseline %dx%d",
		e.ActualWidth, e.ActualHeight, e.BaselineWidth, e.BaselineHeight)
}

// ToleranceExceededError reports that more pixels differ than the caller
// allows. It carries the diff artifact path so a failed run points straight
// at the image to inspect.
type ToleranceExceededError struct {
	DiffPixels    int
	MaxDiffPixels int
	DiffPath      string
}

func (e *ToleranceExceededError) Error() string {
	return fmt.Sprintf("imagediff: %d pixels differ, tolerance is %d; inspect %s",
		e.DiffPixels, e.MaxDiffPixels, e.DiffPath)
}
