// Copyright © 2026 Pixelterm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: imagediff/compare.go
// Summary: Threshold-based pixel comparison with a visual diff artifact.

// Package imagediff decides whether two raster images are visually
// equivalent within a tolerance and writes a human-inspectable diff image.
// It is deliberately dumb: same dimensions in, per-pixel channel deltas,
// differing pixels marked red. The interesting work happened earlier in the
// pipeline; by the time two images reach this package they either match or
// something upstream is wrong.
package imagediff

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"

	_ "image/gif" // registered so stray baselines decode instead of erroring opaquely
)

// Options tunes a comparison.
type Options struct {
	// PerPixelThreshold is how far a pixel's channel values may drift, on a
	// 0–1 scale, before the pixel counts as different. Absorbs
	// anti-aliasing noise.
	PerPixelThreshold float64

	// MaxDiffPixels is the number of differing pixels a comparison may
	// report and still pass. Exactly MaxDiffPixels passes.
	MaxDiffPixels int
}

// DefaultOptions matches the documented defaults: threshold 0.1, zero
// tolerated pixels.
func DefaultOptions() Options {
	return Options{PerPixelThreshold: 0.1, MaxDiffPixels: 0}
}

// Result reports a completed comparison.
type Result struct {
	DiffPixels  int
	TotalPixels int
	DiffPath    string
}

// Compare decodes both images, requires identical dimensions, counts pixels
// whose channel delta exceeds the threshold, and writes the diff artifact —
// unconditionally, success included, so a reviewer can always open it.
// Exceeding MaxDiffPixels returns the Result together with a
// ToleranceExceededError.
func Compare(actualPath, baselinePath, diffPath string, opts Options) (Result, error) {
	actual, err := decode(actualPath)
	if err != nil {
		return Result{}, err
	}
	baseline, err := decode(baselinePath)
	if err != nil {
		return Result{}, err
	}

	ab, bb := actual.Bounds(), baseline.Bounds()
	if ab.Dx() != bb.Dx() || ab.Dy() != bb.Dy() {
		return Result{}, &DimensionMismatchError{
			ActualWidth:    ab.Dx(),
			ActualHeight:   ab.Dy(),
			BaselineWidth:  bb.Dx(),
			BaselineHeight: bb.Dy(),
		}
	}

	diffImg := image.NewRGBA(image.Rect(0, 0, ab.Dx(), ab.Dy()))
	diffCount := 0

	for y := 0; y < ab.Dy(); y++ {
		for x := 0; x < ab.Dx(); x++ {
			ac := actual.At(ab.Min.X+x, ab.Min.Y+y)
			bc := baseline.At(bb.Min.X+x, bb.Min.Y+y)
			if pixelDelta(ac, bc) > opts.PerPixelThreshold {
				diffCount++
				diffImg.Set(x, y, color.RGBA{R: 255, A: 255})
			} else {
				diffImg.Set(x, y, dim(ac))
			}
		}
	}

	if err := writeDiff(diffPath, diffImg); err != nil {
		return Result{}, err
	}

	res := Result{
		DiffPixels:  diffCount,
		TotalPixels: ab.Dx() * ab.Dy(),
		DiffPath:    diffPath,
	}
	if diffCount > opts.MaxDiffPixels {
		return res, &ToleranceExceededError{
			DiffPixels:    diffCount,
			MaxDiffPixels: opts.MaxDiffPixels,
			DiffPath:      diffPath,
		}
	}
	return res, nil
}

// pixelDelta is the largest normalized channel difference between two
// pixels, alpha included.
func pixelDelta(a, b color.Color) float64 {
	ar, ag, abl, aa := a.RGBA()
	br, bg, bbl, ba := b.RGBA()
	max := channelDelta(ar, br)
	if d := channelDelta(ag, bg); d > max {
		max = d
	}
	if d := channelDelta(abl, bbl); d > max {
		max = d
	}
	if d := channelDelta(aa, ba); d > max {
		max = d
	}
	return max
}

func channelDelta(a, b uint32) float64 {
	if a > b {
		return float64(a-b) / 0xFFFF
	}
	return float64(b-a) / 0xFFFF
}

// dim renders a matching pixel as a washed-out grayscale of the actual
// image, so red marks stand out while the layout stays recognizable.
func dim(c color.Color) color.Color {
	g := color.GrayModel.Convert(c).(color.Gray)
	v := uint8(192 + uint16(g.Y)/4)
	return color.RGBA{R: v, G: v, B: v, A: 255}
}

func decode(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("imagediff: open %s: %w", path, err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("imagediff: decode %s: %w", path, err)
	}
	return img, nil
}

func writeDiff(path string, img image.Image) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("imagediff: diff directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("imagediff: create diff %s: %w", path, err)
	}
	defer f.Close()

	if filepath.Ext(path) == ".jpg" || filepath.Ext(path) == ".jpeg" {
		return jpeg.Encode(f, img, nil)
	}
	return png.Encode(f, img)
}
