package snapshot

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"pixelterm/render"
)

func TestBuildRenderRequestPropagatesSpawnDimensions(t *testing.T) {
	req := &SnapRequest{
		Options:    Options{Cols: 32, Rows: 10, Threshold: 0.1},
		OutputPath: "out/box.png",
	}
	// A stream whose longest line (60 cols) and line count (40) disagree
	// with the spawn dimensions on purpose: the render request must carry
	// the spawn values, never anything derived from the text.
	stream := strings.Repeat(strings.Repeat("x", 60)+"\r\n", 40)

	rr := buildRenderRequest(req, stream)
	if rr.Columns != 32 || rr.Rows != 10 {
		t.Fatalf("render request %dx%d, want the spawn dimensions 32x10", rr.Columns, rr.Rows)
	}
	if rr.Stream != stream {
		t.Fatal("stream must pass through verbatim")
	}
}

func TestSnapFailsFastOnBadOptions(t *testing.T) {
	p := NewPipeline(render.NewRenderer(nil, nil), nil, nil)

	_, err := p.Snap(context.Background(), SnapRequest{
		Command:      "/bin/echo",
		Options:      Options{Cols: 0, Rows: 24},
		BaselinePath: "b.png",
		OutputPath:   "o.png",
	})
	if err == nil {
		t.Fatal("invalid dimensions must fail before anything is spawned")
	}

	_, err = p.Snap(context.Background(), SnapRequest{
		Options: Options{Cols: 80, Rows: 24, Threshold: 0.1},
	})
	if err == nil {
		t.Fatal("missing command and paths must fail before anything is spawned")
	}
}

func TestDiffPathDerivation(t *testing.T) {
	if got := diffPathFor("out/box.png"); got != "out/box.diff.png" {
		t.Fatalf("diff path = %q", got)
	}
	if got := diffPathFor("shot.jpeg"); got != "shot.diff.jpeg" {
		t.Fatalf("diff path = %q", got)
	}
}

func TestRunBatchIsolatesCaseFailures(t *testing.T) {
	p := NewPipeline(render.NewRenderer(nil, nil), nil, nil)
	cfg := &FileConfig{
		Cases: []Case{
			{Name: "bad-preset", Command: "/bin/echo", Preset: "nope"},
			{Name: "no-command"}, // fails validation inside Snap
			{Name: "also-bad", Command: "/bin/echo", Preset: "missing"},
		},
	}

	results := p.RunBatch(context.Background(), cfg, 2)
	if len(results) != 3 {
		t.Fatalf("results = %d, want 3", len(results))
	}
	for i, r := range results {
		if r.Err == nil {
			t.Fatalf("case %d (%s) should have failed", i, r.Name)
		}
		if r.Name != cfg.Cases[i].Name {
			t.Fatalf("result %d out of order: %q", i, r.Name)
		}
	}
	if !errors.Is(results[0].Err, ErrUnknownPreset) {
		t.Fatalf("case 0 error = %v", results[0].Err)
	}
}

func TestHistoryRecordAndRecent(t *testing.T) {
	h, err := OpenHistory(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	defer h.Close()

	if err := h.Record("box", SnapResult{
		DiffPixels:   7,
		TotalPixels:  1000,
		OutputPath:   "out/box.png",
		BaselinePath: "baselines/box.png",
		DiffPath:     "out/box.diff.png",
	}, false); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := h.Record("box", SnapResult{
		TotalPixels:     1000,
		BaselineCreated: true,
		OutputPath:      "out/box.png",
		BaselinePath:    "baselines/box.png",
		DiffPath:        "out/box.diff.png",
	}, true); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := h.Record("other", SnapResult{}, true); err != nil {
		t.Fatalf("record: %v", err)
	}

	records, err := h.Recent("box", 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	failed := 0
	for _, r := range records {
		if r.Name != "box" {
			t.Fatalf("foreign record leaked: %+v", r)
		}
		if !r.Passed {
			failed++
			if r.DiffPixels != 7 {
				t.Fatalf("diff pixels = %d, want 7", r.DiffPixels)
			}
		}
	}
	if failed != 1 {
		t.Fatalf("failed records = %d, want 1", failed)
	}
}
