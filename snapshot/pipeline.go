// Copyright © 2026 Pixelterm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: snapshot/pipeline.go
// Summary: The capture → normalize → render → compare pipeline.

// Package snapshot orchestrates one full visual regression check: capture a
// program's PTY output, normalize it, rasterize it in a headless browser,
// and compare the raster against a stored baseline. Each step strictly
// precedes the next; nothing starts before its predecessor's output is
// complete.
package snapshot

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"pixelterm/ansi"
	"pixelterm/capture"
	"pixelterm/imagediff"
	"pixelterm/render"
)

// SnapRequest describes one snapshot check.
type SnapRequest struct {
	Name    string
	Command string
	Args    []string
	Env     map[string]string
	Options Options

	BaselinePath string
	OutputPath   string
	DiffPath     string
}

// SnapResult reports a completed (or failed-with-diff) snapshot check.
type SnapResult struct {
	DiffPixels  int
	TotalPixels int

	// BaselineCreated is true when no baseline existed and the fresh
	// render was adopted as the new one. The check succeeds in that case.
	BaselineCreated bool

	// RemovedSelectors is the diagnostic count of U+FE0F occurrences the
	// normalizer stripped from the captured stream.
	RemovedSelectors int

	OutputPath   string
	BaselinePath string
	DiffPath     string
}

// Pipeline runs snapshot checks against a shared renderer. Pipelines are
// safe for concurrent use: every render carries its own request-scoped
// configuration.
type Pipeline struct {
	renderer *render.Renderer
	history  *History
	logger   *slog.Logger
}

// NewPipeline creates a Pipeline. The history store is optional; pass nil
// to skip run recording.
func NewPipeline(renderer *render.Renderer, history *History, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{renderer: renderer, history: history, logger: logger}
}

// Snap executes the full pipeline for one request. Failures propagate to
// the caller untouched: no retry, no recovery. A rendered-but-uncompared
// output image stays on disk on failure to aid debugging.
func (p *Pipeline) Snap(ctx context.Context, req SnapRequest) (SnapResult, error) {
	if err := req.Options.Validate(); err != nil {
		return SnapResult{}, err
	}
	if req.Command == "" || req.OutputPath == "" || req.BaselinePath == "" {
		return SnapResult{}, fmt.Errorf("snapshot: command, output path, and baseline path are required")
	}
	if req.DiffPath == "" {
		req.DiffPath = diffPathFor(req.OutputPath)
	}

	session := &capture.Session{
		Command: req.Command,
		Args:    req.Args,
		Columns: req.Options.Cols,
		Rows:    req.Options.Rows,
		Env:     req.Env,
		Timeout: req.Options.timeout(),
	}
	raw, err := session.Run(ctx)
	if err != nil {
		return SnapResult{}, err
	}

	normalized, removed := ansi.NormalizeBytes(raw)
	if removed > 0 {
		p.logger.Debug("stripped emoji variation selectors from captured stream",
			"name", req.Name, "count", removed)
	}

	if err := p.renderer.Render(ctx, buildRenderRequest(&req, string(normalized))); err != nil {
		return SnapResult{}, err
	}

	res := SnapResult{
		RemovedSelectors: removed,
		OutputPath:       req.OutputPath,
		BaselinePath:     req.BaselinePath,
		DiffPath:         req.DiffPath,
	}

	if _, statErr := os.Stat(req.BaselinePath); os.IsNotExist(statErr) {
		// No prior baseline: adopt the fresh render and succeed.
		if err := copyFile(req.OutputPath, req.BaselinePath); err != nil {
			return SnapResult{}, fmt.Errorf("snapshot: adopt baseline: %w", err)
		}
		res.BaselineCreated = true
		p.logger.Info("no baseline existed, adopted current output", "name", req.Name, "baseline", req.BaselinePath)
		p.record(req.Name, res, true)
		return res, nil
	}

	cmp, cmpErr := imagediff.Compare(req.OutputPath, req.BaselinePath, req.DiffPath, imagediff.Options{
		PerPixelThreshold: req.Options.Threshold,
		MaxDiffPixels:     req.Options.MaxDiffPixels,
	})
	res.DiffPixels = cmp.DiffPixels
	res.TotalPixels = cmp.TotalPixels
	p.record(req.Name, res, cmpErr == nil)
	return res, cmpErr
}

// buildRenderRequest maps a snapshot request onto a render request. The
// columns and rows are copied verbatim from the options the capture session
// was spawned with — never derived from the stream's content.
func buildRenderRequest(req *SnapRequest, stream string) render.Request {
	return render.Request{
		Stream:     stream,
		Columns:    req.Options.Cols,
		Rows:       req.Options.Rows,
		Fonts:      req.Options.fonts(),
		Margin:     req.Options.Margin,
		Background: req.Options.BackgroundColor,
		Format:     req.Options.Type,
		OutputPath: req.OutputPath,
	}
}

func (p *Pipeline) record(name string, res SnapResult, passed bool) {
	if p.history == nil {
		return
	}
	if err := p.history.Record(name, res, passed); err != nil {
		p.logger.Warn("failed to record run history", "name", name, "error", err)
	}
}

func diffPathFor(outputPath string) string {
	ext := filepath.Ext(outputPath)
	return outputPath[:len(outputPath)-len(ext)] + ".diff" + ext
}

func copyFile(src, dst string) error {
	if dir := filepath.Dir(dst); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
