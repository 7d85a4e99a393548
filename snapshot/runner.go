// Copyright © 2026 Pixelterm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: snapshot/runner.go
// Summary: Chunked concurrent batch execution of snapshot cases.

package snapshot

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Case is one entry in a batch description.
type Case struct {
	Name    string            `toml:"name"`
	Command string            `toml:"command"`
	Args    []string          `toml:"args"`
	Env     map[string]string `toml:"env"`

	Preset  string  `toml:"preset"`
	Options Options `toml:"options"`

	Baseline string `toml:"baseline"`
	Output   string `toml:"output"`
	Diff     string `toml:"diff"`
}

// CaseResult pairs a case with its outcome. Err is per-case; one failing
// case never aborts the rest of its chunk or the chunks after it.
type CaseResult struct {
	Name   string
	Result SnapResult
	Err    error
}

// RunBatch executes cases in fixed-size chunks of at most concurrency
// pipelines at a time. Every case in chunk N — failures included —
// completes before chunk N+1 starts, which bounds concurrent browser and
// PTY usage. Cases within a chunk run independently and in no particular
// order relative to each other.
func (p *Pipeline) RunBatch(ctx context.Context, cfg *FileConfig, concurrency int) []CaseResult {
	if concurrency <= 0 {
		concurrency = 1
	}

	results := make([]CaseResult, len(cfg.Cases))
	for start := 0; start < len(cfg.Cases); start += concurrency {
		end := start + concurrency
		if end > len(cfg.Cases) {
			end = len(cfg.Cases)
		}

		var g errgroup.Group
		for i := start; i < end; i++ {
			g.Go(func() error {
				results[i] = p.runCase(ctx, cfg, cfg.Cases[i])
				return nil
			})
		}
		g.Wait()
	}
	return results
}

func (p *Pipeline) runCase(ctx context.Context, cfg *FileConfig, cs Case) CaseResult {
	opts, err := cfg.Effective(cs)
	if err != nil {
		return CaseResult{Name: cs.Name, Err: err}
	}
	res, err := p.Snap(ctx, SnapRequest{
		Name:         cs.Name,
		Command:      cs.Command,
		Args:         cs.Args,
		Env:          cs.Env,
		Options:      opts,
		BaselinePath: cs.Baseline,
		OutputPath:   cs.Output,
		DiffPath:     cs.Diff,
	})
	return CaseResult{Name: cs.Name, Result: res, Err: err}
}
