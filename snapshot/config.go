// Copyright © 2026 Pixelterm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: snapshot/config.go
// Summary: Snapshot options, terminal-size presets, and TOML config loading.

package snapshot

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"pixelterm/capture"
	"pixelterm/fontstack"
	"pixelterm/render"
)

// Options is the recognized per-snapshot configuration. Zero fields mean
// "use the preset's value".
type Options struct {
	Cols            int     `toml:"cols"`
	Rows            int     `toml:"rows"`
	MaxDiffPixels   int     `toml:"max_diff_pixels"`
	Threshold       float64 `toml:"threshold"`
	BackgroundColor string  `toml:"background_color"`
	FontFamily      string  `toml:"font_family"`
	Margin          int     `toml:"margin"`

	// TimeoutMS bounds the capture. 0 inherits the preset default and -1
	// disables the deadline. Zero cannot mean "unlimited" here: zero is
	// exactly what overlay merging produces for a field the caller never
	// set, so the unlimited case takes the explicit -1.
	TimeoutMS int `toml:"timeout_ms"`

	Type string `toml:"type"` // png or jpeg

	// EmojiFont selects a bundled emoji font by key; the explicit
	// path+family pair overrides it.
	EmojiFont       string `toml:"emoji_font"`
	EmojiFontPath   string `toml:"emoji_font_path"`
	EmojiFontFamily string `toml:"emoji_font_family"`
	BaseFontPath    string `toml:"base_font_path"`
	BaseFontFamily  string `toml:"base_font_family"`
}

// ErrUnknownPreset is returned before any process is spawned or file
// written when a preset name is not recognized.
var ErrUnknownPreset = errors.New("snapshot: unknown preset")

var presets = map[string]Options{
	"default": {Cols: 80, Rows: 24, Threshold: 0.1, Margin: 16, TimeoutMS: int(capture.DefaultTimeout / time.Millisecond), Type: "png"},
	"ci":      {Cols: 80, Rows: 24, Threshold: 0.1, Margin: 16, TimeoutMS: int(capture.CITimeout / time.Millisecond), Type: "png"},
	"wide":    {Cols: 120, Rows: 30, Threshold: 0.1, Margin: 16, TimeoutMS: int(capture.DefaultTimeout / time.Millisecond), Type: "png"},
	"small":   {Cols: 40, Rows: 12, Threshold: 0.1, Margin: 16, TimeoutMS: int(capture.DefaultTimeout / time.Millisecond), Type: "png"},
}

// Preset returns a named terminal-size preset. The empty name means
// "default".
func Preset(name string) (Options, error) {
	if name == "" {
		name = "default"
	}
	opts, ok := presets[name]
	if !ok {
		return Options{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	return opts, nil
}

// Overlay returns base with every non-zero field of override applied.
func Overlay(base, override Options) Options {
	if override.Cols != 0 {
		base.Cols = override.Cols
	}
	if override.Rows != 0 {
		base.Rows = override.Rows
	}
	if override.MaxDiffPixels != 0 {
		base.MaxDiffPixels = override.MaxDiffPixels
	}
	if override.Threshold != 0 {
		base.Threshold = override.Threshold
	}
	if override.BackgroundColor != "" {
		base.BackgroundColor = override.BackgroundColor
	}
	if override.FontFamily != "" {
		base.FontFamily = override.FontFamily
	}
	if override.Margin != 0 {
		base.Margin = override.Margin
	}
	if override.TimeoutMS != 0 {
		base.TimeoutMS = override.TimeoutMS
	}
	if override.Type != "" {
		base.Type = override.Type
	}
	if override.EmojiFont != "" {
		base.EmojiFont = override.EmojiFont
	}
	if override.EmojiFontPath != "" {
		base.EmojiFontPath = override.EmojiFontPath
	}
	if override.EmojiFontFamily != "" {
		base.EmojiFontFamily = override.EmojiFontFamily
	}
	if override.BaseFontPath != "" {
		base.BaseFontPath = override.BaseFontPath
	}
	if override.BaseFontFamily != "" {
		base.BaseFontFamily = override.BaseFontFamily
	}
	return base
}

// Validate rejects unusable options before anything is spawned or written.
func (o Options) Validate() error {
	if o.Cols <= 0 || o.Rows <= 0 {
		return fmt.Errorf("snapshot: dimensions must be positive, got %dx%d", o.Cols, o.Rows)
	}
	if o.Threshold < 0 || o.Threshold > 1 {
		return fmt.Errorf("snapshot: threshold must be in [0,1], got %g", o.Threshold)
	}
	if o.MaxDiffPixels < 0 {
		return fmt.Errorf("snapshot: max_diff_pixels must not be negative, got %d", o.MaxDiffPixels)
	}
	switch o.Type {
	case "", "png", "jpeg":
	default:
		return fmt.Errorf("snapshot: type must be png or jpeg, got %q", o.Type)
	}
	if o.EmojiFontPath != "" && o.EmojiFontFamily == "" {
		return errors.New("snapshot: emoji_font_path requires emoji_font_family")
	}
	if o.BaseFontPath != "" && o.BaseFontFamily == "" {
		return errors.New("snapshot: base_font_path requires base_font_family")
	}
	return nil
}

// timeout maps TimeoutMS onto the capture session convention.
func (o Options) timeout() time.Duration {
	switch {
	case o.TimeoutMS < 0:
		return capture.NoTimeout
	case o.TimeoutMS == 0:
		return capture.DefaultTimeout
	default:
		return time.Duration(o.TimeoutMS) * time.Millisecond
	}
}

// fonts resolves the option fields into a render font configuration.
// Explicit path+family pairs win over bundled keys.
func (o Options) fonts() render.FontConfig {
	cfg := render.FontConfig{FallbackFamilies: o.FontFamily}

	if o.EmojiFontPath != "" || o.EmojiFontFamily != "" {
		cfg.Emoji = fontstack.Font{Path: o.EmojiFontPath, Family: o.EmojiFontFamily}
	} else {
		cfg.Emoji = fontstack.ResolveEmojiFont(o.EmojiFont)
	}

	if o.BaseFontPath != "" || o.BaseFontFamily != "" {
		cfg.Base = fontstack.Font{Path: o.BaseFontPath, Family: o.BaseFontFamily}
	} else {
		cfg.Base = fontstack.ResolveBaseFont()
	}
	return cfg
}

// FileConfig is a batch description loaded from TOML.
type FileConfig struct {
	// Preset names the base preset for every case; cases may override it.
	Preset string `toml:"preset"`

	// Defaults overlay the preset for every case.
	Defaults Options `toml:"defaults"`

	Cases []Case `toml:"case"`
}

// LoadConfig reads a batch description from a TOML file.
func LoadConfig(path string) (*FileConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("snapshot: read config %s: %w", path, err)
	}
	var cfg FileConfig
	if err := toml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("snapshot: parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// Effective resolves the options for one case: preset, then file defaults,
// then the case's own overrides.
func (c *FileConfig) Effective(cs Case) (Options, error) {
	presetName := cs.Preset
	if presetName == "" {
		presetName = c.Preset
	}
	opts, err := Preset(presetName)
	if err != nil {
		return Options{}, err
	}
	opts = Overlay(opts, c.Defaults)
	opts = Overlay(opts, cs.Options)
	return opts, opts.Validate()
}
