// Copyright © 2026 Pixelterm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: fontstack/fonts.go
// Summary: Bundled font enumeration for deterministic glyph rendering.

// Package fontstack builds the browser-side font configuration for a
// snapshot: which files to declare, in what order the families stack, and
// the load barrier that keeps rasterization from racing font loading.
//
// Snapshots are only reproducible across machines when every glyph comes
// from a known font. The bundled base font pins the box-drawing and text
// glyphs; the emoji font options pin emoji shapes.
package fontstack

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Font is one resolved font: a local file path and the CSS family name it
// is declared under. A Font with an empty Path but a non-empty Family means
// "use the host system's font under this name": valid, it simply gets no
// @font-face declaration. A zero Font means no override at all.
type Font struct {
	Path        string
	Family      string
	Description string
}

// IsZero reports whether the font carries neither a path nor a family.
func (f Font) IsZero() bool { return f.Path == "" && f.Family == "" }

// EmojiFontSystem selects the host system's emoji font, no override.
const EmojiFontSystem = "system"

// Recognized emoji font keys.
const (
	EmojiFontNoto     = "noto"      // color emoji
	EmojiFontNotoMono = "noto-mono" // monochrome emoji
	EmojiFontTwemoji  = "twemoji"   // Twitter-style color emoji
	EmojiFontUnifont  = "unifont"   // monochrome bitmap, wide Unicode coverage
)

// FontDirEnv overrides the directory the bundled font files are resolved
// against. Without it, fonts are expected under ./fonts.
const FontDirEnv = "PIXELTERM_FONT_DIR"

var bundledEmoji = map[string]Font{
	EmojiFontNoto:     {Path: "NotoColorEmoji.ttf", Family: "Noto Color Emoji", Description: "Noto color emoji"},
	EmojiFontNotoMono: {Path: "NotoEmoji-Regular.ttf", Family: "Noto Emoji", Description: "Noto monochrome emoji"},
	EmojiFontTwemoji:  {Path: "Twemoji.Mozilla.ttf", Family: "Twemoji Mozilla", Description: "Twitter-style emoji"},
	EmojiFontUnifont:  {Path: "unifont.otf", Family: "Unifont", Description: "monochrome bitmap, wide coverage"},
}

var bundledBase = Font{
	Path:        "JetBrainsMono-Regular.ttf",
	Family:      "JetBrains Mono",
	Description: "bundled monospace base font",
}

// FontDir returns the directory bundled font files are resolved against.
func FontDir() string {
	if dir := os.Getenv(FontDirEnv); dir != "" {
		return dir
	}
	return "fonts"
}

// ResolveEmojiFont looks up a bundled emoji font by key. Unknown or empty
// keys fall back to the system default (no override); an unknown key is
// logged so a typo in caller configuration stays visible.
func ResolveEmojiFont(key string) Font {
	if key == "" || key == EmojiFontSystem {
		return Font{Description: "host system emoji font, no override"}
	}
	f, ok := bundledEmoji[key]
	if !ok {
		slog.Warn("unknown emoji font key, falling back to system font", "key", key)
		return Font{Description: "host system emoji font, no override"}
	}
	f.Path = filepath.Join(FontDir(), f.Path)
	return f
}

// ResolveBaseFont returns the bundled monospace base font. It is always
// enumerated; whether the file exists is checked at render time.
func ResolveBaseFont() Font {
	f := bundledBase
	f.Path = filepath.Join(FontDir(), f.Path)
	return f
}

// CheckPath verifies that a path-backed font's file exists. A missing file
// is a configuration error surfaced to the caller, never silently skipped.
func (f Font) CheckPath() error {
	if f.Path == "" {
		return nil
	}
	if _, err := os.Stat(f.Path); err != nil {
		return fmt.Errorf("fontstack: font file for family %q: %w", f.Family, err)
	}
	return nil
}
