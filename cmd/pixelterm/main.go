// Copyright © 2026 Pixelterm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/pixelterm/main.go
// Summary: CLI entry point: single snapshot checks and TOML-driven batches.

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"pixelterm/browser"
	"pixelterm/imagediff"
	"pixelterm/internal/logging"
	"pixelterm/render"
	"pixelterm/snapshot"
)

func main() {
	var (
		configPath  = flag.String("config", "", "TOML batch description; overrides the single-snapshot flags")
		concurrency = flag.Int("concurrency", 2, "concurrent pipelines per batch chunk")
		preset      = flag.String("preset", "default", "terminal-size preset (default, ci, wide, small)")
		name        = flag.String("name", "snapshot", "case name for logs and history")
		baseline    = flag.String("baseline", "", "baseline image path (created on first run)")
		output      = flag.String("out", "", "output image path")
		diff        = flag.String("diff", "", "diff image path (derived from -out when empty)")
		historyPath = flag.String("history", "", "optional SQLite run-history database")
		emojiFont   = flag.String("emoji-font", "", "bundled emoji font key (noto, noto-mono, twemoji, unifont, system)")
		fontFamily  = flag.String("font-family", "", "fallback CSS font family list")
		maxDiff     = flag.Int("max-diff-pixels", 0, "differing pixels tolerated before failure")
		logLevel    = flag.String("log-level", "info", "debug, info, warn, or error")
	)
	flag.Parse()

	logger := logging.New(logging.Level(*logLevel))
	slog.SetDefault(logger)

	if err := run(logger, *configPath, *concurrency, *preset, *name, *baseline, *output, *diff,
		*historyPath, *emojiFont, *fontFamily, *maxDiff, flag.Args()); err != nil {
		logger.Error("pixelterm failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, configPath string, concurrency int, preset, name,
	baseline, output, diff, historyPath, emojiFont, fontFamily string,
	maxDiff int, argv []string) error {

	mgr := browser.NewManager(logger)
	defer mgr.Close()
	renderer := render.NewRenderer(mgr, logger)

	var history *snapshot.History
	if historyPath != "" {
		var err error
		history, err = snapshot.OpenHistory(historyPath)
		if err != nil {
			return err
		}
		defer history.Close()
	}

	pipeline := snapshot.NewPipeline(renderer, history, logger)
	ctx := context.Background()

	if configPath != "" {
		return runBatch(ctx, logger, pipeline, configPath, concurrency)
	}

	if len(argv) == 0 {
		return errors.New("usage: pixelterm [flags] -baseline b.png -out o.png -- command [args...]")
	}
	if baseline == "" || output == "" {
		return errors.New("-baseline and -out are required for a single snapshot")
	}

	opts, err := snapshot.Preset(preset)
	if err != nil {
		return err
	}
	opts = snapshot.Overlay(opts, snapshot.Options{
		EmojiFont:     emojiFont,
		FontFamily:    fontFamily,
		MaxDiffPixels: maxDiff,
	})

	res, err := pipeline.Snap(ctx, snapshot.SnapRequest{
		Name:         name,
		Command:      argv[0],
		Args:         argv[1:],
		Options:      opts,
		BaselinePath: baseline,
		OutputPath:   output,
		DiffPath:     diff,
	})
	if err != nil {
		return reportFailure(name, err)
	}
	if res.BaselineCreated {
		logger.Info("baseline created", "name", name, "baseline", res.BaselinePath)
	} else {
		logger.Info("snapshot matches baseline", "name", name,
			"diff_pixels", res.DiffPixels, "total_pixels", res.TotalPixels)
	}
	return nil
}

func runBatch(ctx context.Context, logger *slog.Logger, pipeline *snapshot.Pipeline,
	configPath string, concurrency int) error {

	cfg, err := snapshot.LoadConfig(configPath)
	if err != nil {
		return err
	}

	results := pipeline.RunBatch(ctx, cfg, concurrency)
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			reportFailure(r.Name, r.Err)
			continue
		}
		logger.Info("case passed", "name", r.Name,
			"diff_pixels", r.Result.DiffPixels, "baseline_created", r.Result.BaselineCreated)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d cases failed", failed, len(results))
	}
	return nil
}

// reportFailure prints the actionable detail a reviewer needs: how far over
// tolerance the run was and which image to open.
func reportFailure(name string, err error) error {
	var tol *imagediff.ToleranceExceededError
	if errors.As(err, &tol) {
		fmt.Fprintf(os.Stderr, "FAIL %s: %d pixels differ (tolerance %d)\n  inspect: %s\n",
			name, tol.DiffPixels, tol.MaxDiffPixels, tol.DiffPath)
		return err
	}
	fmt.Fprintf(os.Stderr, "FAIL %s: %v\n", name, err)
	return err
}
