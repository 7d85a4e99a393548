package render

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pixelterm/fontstack"
)

func writeFakeFont(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Fake-Regular.ttf")
	if err := os.WriteFile(path, []byte{0x00, 0x01, 0x00, 0x00}, 0o644); err != nil {
		t.Fatalf("write fake font: %v", err)
	}
	return path
}

func TestBuildPageCarriesExactDimensions(t *testing.T) {
	req := &Request{
		Stream:     strings.Repeat("x\r\n", 40), // longer than 10 rows, wider lines than 32 cols elsewhere
		Columns:    32,
		Rows:       10,
		Background: "#000000",
		FontSize:   16,
	}
	html, err := buildPage(req, []string{"monospace"})
	if err != nil {
		t.Fatalf("buildPage: %v", err)
	}
	if !strings.Contains(html, "cols: 32") || !strings.Contains(html, "rows: 10") {
		t.Fatalf("page must use the spawn dimensions verbatim:\n%s", html)
	}
}

func TestBuildPageFontFaces(t *testing.T) {
	fontPath := writeFakeFont(t)
	req := &Request{
		Columns:    80,
		Rows:       24,
		Background: "#000000",
		FontSize:   16,
		Fonts: FontConfig{
			Base: fontstack.Font{Path: fontPath, Family: "Fake Mono"},
			// A family without a path is a system font: present in the
			// stack, absent from @font-face.
			Emoji: fontstack.Font{Family: "Apple Color Emoji"},
		},
	}
	families := fontstack.BuildStack("monospace", req.Fonts.Emoji.Family, req.Fonts.Base.Family)
	html, err := buildPage(req, families)
	if err != nil {
		t.Fatalf("buildPage: %v", err)
	}
	if !strings.Contains(html, "data:font/ttf;base64,") {
		t.Fatal("path-backed font must be inlined as a data URL")
	}
	if strings.Count(html, "@font-face") != 1 {
		t.Fatalf("want exactly one @font-face (system-font family gets none):\n%s", html)
	}
	if !strings.Contains(html, "Apple Color Emoji") {
		t.Fatal("system-font family must still appear in the CSS stack")
	}
}

func TestValidateDefaultsAndRejects(t *testing.T) {
	r := NewRenderer(nil, nil)

	req := Request{Columns: 80, Rows: 24, OutputPath: "out.png"}
	if err := r.validate(&req); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}
	if req.Format != "png" || req.FontSize != 16 || req.Background == "" {
		t.Fatalf("defaults not applied: %+v", req)
	}

	bad := []Request{
		{Columns: 0, Rows: 24, OutputPath: "x.png"},
		{Columns: 80, Rows: -1, OutputPath: "x.png"},
		{Columns: 80, Rows: 24},
		{Columns: 80, Rows: 24, OutputPath: "x.gif", Format: "gif"},
	}
	for i, b := range bad {
		if err := r.validate(&b); err == nil {
			t.Fatalf("case %d: invalid request accepted: %+v", i, b)
		}
	}
}

func TestRenderMissingFontFileFailsFast(t *testing.T) {
	r := NewRenderer(nil, nil)
	err := r.Render(t.Context(), Request{
		Stream:     "hello world, long enough to not warn",
		Columns:    80,
		Rows:       24,
		OutputPath: filepath.Join(t.TempDir(), "out.png"),
		Fonts: FontConfig{
			Base: fontstack.Font{Path: "/nonexistent/font.ttf", Family: "Ghost Mono"},
		},
	})
	if err == nil {
		t.Fatal("missing font file must be a configuration error")
	}
	var rerr *RenderError
	if !errors.As(err, &rerr) {
		t.Fatalf("want RenderError, got %T: %v", err, err)
	}
	if rerr.Stage != "font configuration" {
		t.Fatalf("unexpected stage %q", rerr.Stage)
	}
}
