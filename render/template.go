// Copyright © 2026 Pixelterm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: render/template.go
// Summary: Builds the temporary HTML document hosting the terminal emulator.

package render

import (
	_ "embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"os"
	"strings"

	"pixelterm/fontstack"
)

//go:embed page.tmpl
var pageSource string

var pageTemplate = template.Must(template.New("page").Parse(pageSource))

// DefaultXtermJS and DefaultXtermCSS locate the terminal-emulator assets.
// Point PIXELTERM_XTERM_JS / PIXELTERM_XTERM_CSS at local copies for
// air-gapped runs.
const (
	DefaultXtermJS  = "https://cdn.jsdelivr.net/npm/@xterm/xterm@5.5.0/lib/xterm.js"
	DefaultXtermCSS = "https://cdn.jsdelivr.net/npm/@xterm/xterm@5.5.0/css/xterm.css"
)

// fontFace carries pre-quoted, trusted values: the family name is produced
// by QuoteIfMultiWord and the data URL is built from bundled font bytes, so
// both bypass the contextual autoescaper on purpose.
type fontFace struct {
	Family  template.CSS
	DataURL template.URL
}

type pageData struct {
	XtermJS       string
	XtermCSS      string
	Background    string
	Margin        int
	FontFaces     []fontFace
	Columns       int
	Rows          int
	FontFamilyCSS string
	FontSize      int
}

// buildPage renders the host document for a request. Path-backed fonts are
// inlined as data: URLs so the page has no loose file dependencies and the
// font bytes are exactly the bundled ones, wherever the page ends up.
func buildPage(req *Request, families []string) (string, error) {
	data := pageData{
		XtermJS:       pick(req.XtermJSURL, os.Getenv("PIXELTERM_XTERM_JS"), DefaultXtermJS),
		XtermCSS:      pick(req.XtermCSSURL, os.Getenv("PIXELTERM_XTERM_CSS"), DefaultXtermCSS),
		Background:    req.Background,
		Margin:        req.Margin,
		Columns:       req.Columns,
		Rows:          req.Rows,
		FontFamilyCSS: fontstack.CSSStack(families),
		FontSize:      req.FontSize,
	}

	for _, f := range []fontstack.Font{req.Fonts.Emoji, req.Fonts.Base} {
		if f.Path == "" {
			continue
		}
		url, err := fontDataURL(f.Path)
		if err != nil {
			return "", err
		}
		data.FontFaces = append(data.FontFaces, fontFace{
			Family:  template.CSS(fontstack.QuoteIfMultiWord(f.Family)),
			DataURL: url,
		})
	}

	var b strings.Builder
	if err := pageTemplate.Execute(&b, data); err != nil {
		return "", fmt.Errorf("execute page template: %w", err)
	}
	return b.String(), nil
}

func fontDataURL(path string) (template.URL, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read font %s: %w", path, err)
	}
	mime := "font/ttf"
	if strings.HasSuffix(strings.ToLower(path), ".otf") {
		mime = "font/otf"
	}
	return template.URL("data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(raw)), nil
}

func pick(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
