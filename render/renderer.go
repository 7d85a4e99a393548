// Copyright © 2026 Pixelterm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: render/renderer.go
// Summary: Rasterizes a normalized terminal byte stream via headless Chrome.

// Package render feeds a normalized byte stream into a browser-hosted
// terminal emulator sized exactly like the capture PTY and rasterizes the
// result. All per-render configuration travels in the Request value — there
// is no ambient font or dimension state, which is what makes concurrent
// renders on one shared browser safe.
package render

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"pixelterm/browser"
	"pixelterm/fontstack"
	"pixelterm/unicodewidth"
)

// FontConfig carries the resolved fonts for one render.
type FontConfig struct {
	Emoji fontstack.Font
	Base  fontstack.Font

	// FallbackFamilies is the caller's CSS-style comma-separated list,
	// appended after the emoji and base families.
	FallbackFamilies string
}

// Request is the pure value describing one render. Columns and Rows must be
// the exact values the capture PTY was spawned with; they are never
// recomputed from the stream, because text-derived sizes disagree with the
// double-width accounting the program under test laid out against.
type Request struct {
	Stream     string
	Columns    int
	Rows       int
	Fonts      FontConfig
	Margin     int
	Background string
	Format     string // "png" or "jpeg"
	FontSize   int
	OutputPath string

	// Asset overrides; empty means env, then the pinned CDN defaults.
	XtermJSURL  string
	XtermCSSURL string
}

// shortStreamBytes is the length below which captured data is suspicious:
// a program that crashed at startup typically produces almost nothing.
const shortStreamBytes = 16

const pageReadyTimeout = 10 * time.Second

// Renderer rasterizes render requests against a shared headless browser.
type Renderer struct {
	mgr    *browser.Manager
	logger *slog.Logger
}

// NewRenderer creates a Renderer on a shared browser manager.
func NewRenderer(mgr *browser.Manager, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{mgr: mgr, logger: logger}
}

// Render rasterizes the request to req.OutputPath, creating intermediate
// directories as needed. The temporary HTML host document is cleaned up
// best-effort. Fails with RenderError; never retries.
func (r *Renderer) Render(ctx context.Context, req Request) error {
	if err := r.validate(&req); err != nil {
		return err
	}

	if len(req.Stream) < shortStreamBytes {
		r.logger.Warn("captured data is suspiciously short, the program may have crashed before producing output",
			"bytes", len(req.Stream))
	}

	families := fontstack.BuildStack(req.Fonts.FallbackFamilies, req.Fonts.Emoji.Family, req.Fonts.Base.Family)
	r.logger.Debug("resolved font stack", "families", families, "stream_bytes", len(req.Stream))

	for _, f := range []fontstack.Font{req.Fonts.Emoji, req.Fonts.Base} {
		if err := f.CheckPath(); err != nil {
			return renderErr("font configuration", err)
		}
	}

	html, err := buildPage(&req, families)
	if err != nil {
		return renderErr("host page", err)
	}

	tmp, err := os.CreateTemp("", "pixelterm-*.html")
	if err != nil {
		return renderErr("temp document", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // best effort
	if _, err := tmp.WriteString(html); err != nil {
		tmp.Close()
		return renderErr("temp document", err)
	}
	tmp.Close()

	page, err := r.mgr.Page()
	if err != nil {
		return renderErr("browser", err)
	}
	defer page.Close()
	page = page.Context(ctx)

	if err := r.loadPage(page, tmpPath); err != nil {
		return err
	}

	// The width table must be active before any data reaches the emulator.
	if res, err := page.Eval("() => (" + unicodewidth.OverrideScript() + ")(window.__term)"); err != nil {
		r.logger.Warn("width table registration failed, emoji may render at the wrong width", "error", err)
	} else if !res.Value.Bool() {
		r.logger.Warn("terminal emulator exposes no unicode registration hook, emoji may render at the wrong width")
	}

	// Fonts next: writing before they settle rasterizes fallback glyphs.
	// The barrier fails open; a load error degrades, it does not abort.
	if _, err := page.Eval("(" + fontstack.LoadBarrierScript(families) + ")()"); err != nil {
		r.logger.Warn("font load barrier did not settle cleanly", "error", err)
	}

	if _, err := page.Eval(
		"(data) => new Promise(resolve => window.__term.write(data, () => resolve(true)))",
		req.Stream,
	); err != nil {
		return renderErr("write stream", err)
	}

	// Two animation frames flush the emulator's renderer before capture.
	if _, err := page.Eval("() => new Promise(r => requestAnimationFrame(() => requestAnimationFrame(() => r(true))))"); err != nil {
		return renderErr("settle", err)
	}

	img, err := r.screenshot(page, &req)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(req.OutputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return renderErr("output directory", err)
		}
	}
	if err := os.WriteFile(req.OutputPath, img, 0o644); err != nil {
		return renderErr("write output", err)
	}
	return nil
}

func (r *Renderer) validate(req *Request) error {
	if req.Columns <= 0 || req.Rows <= 0 {
		return renderErr("request", fmt.Errorf("dimensions must be positive, got %dx%d", req.Columns, req.Rows))
	}
	if req.OutputPath == "" {
		return renderErr("request", fmt.Errorf("output path must not be empty"))
	}
	switch req.Format {
	case "", "png":
		req.Format = "png"
	case "jpeg":
	default:
		return renderErr("request", fmt.Errorf("unsupported output format %q", req.Format))
	}
	if req.Background == "" {
		req.Background = "#000000"
	}
	if req.FontSize <= 0 {
		req.FontSize = 16
	}
	return nil
}

func (r *Renderer) loadPage(page *rod.Page, path string) error {
	if err := page.Navigate("file://" + path); err != nil {
		return renderErr("navigate", err)
	}
	if err := page.WaitLoad(); err != nil {
		return renderErr("page load", err)
	}

	deadline := time.Now().Add(pageReadyTimeout)
	for {
		res, err := page.Eval("() => window.__ready === true")
		if err == nil && res.Value.Bool() {
			return nil
		}
		if time.Now().After(deadline) {
			return renderErr("page load", fmt.Errorf("terminal emulator never initialized (unreachable xterm.js assets?)"))
		}
		time.Sleep(50 * time.Millisecond)
	}
}

func (r *Renderer) screenshot(page *rod.Page, req *Request) ([]byte, error) {
	res, err := page.Eval(`() => {
		const rect = document.getElementById('terminal').getBoundingClientRect();
		return { x: rect.x, y: rect.y, width: rect.width, height: rect.height };
	}`)
	if err != nil {
		return nil, renderErr("measure", err)
	}

	margin := float64(req.Margin)
	clip := &proto.PageViewport{
		X:      res.Value.Get("x").Num() - margin,
		Y:      res.Value.Get("y").Num() - margin,
		Width:  res.Value.Get("width").Num() + 2*margin,
		Height: res.Value.Get("height").Num() + 2*margin,
		Scale:  1,
	}

	format := proto.PageCaptureScreenshotFormatPng
	if req.Format == "jpeg" {
		format = proto.PageCaptureScreenshotFormatJpeg
	}

	img, err := page.Screenshot(false, &proto.PageCaptureScreenshot{
		Format:                format,
		Clip:                  clip,
		FromSurface:           true,
		CaptureBeyondViewport: true,
	})
	if err != nil {
		return nil, renderErr("screenshot", err)
	}
	return img, nil
}
