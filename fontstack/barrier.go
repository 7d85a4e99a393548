// Copyright © 2026 Pixelterm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: fontstack/barrier.go
// Summary: Generates the browser-side font-load barrier expression.

package fontstack

import (
	"fmt"
	"strings"
)

// genericFamilies are the CSS keywords the browser resolves itself; asking
// document.fonts to load them is meaningless, so they are excluded from the
// barrier.
var genericFamilies = map[string]bool{
	"serif":      true,
	"sans-serif": true,
	"monospace":  true,
	"cursive":    true,
	"fantasy":    true,
	"system-ui":  true,
	"emoji":      true,
	"math":       true,
	"fangsong":   true,
}

// IsGenericFamily reports whether name is a CSS generic family keyword.
func IsGenericFamily(name string) bool {
	return genericFamilies[strings.ToLower(name)]
}

// LoadBarrierScript returns a JavaScript function expression that resolves
// once every non-generic family in the stack has been explicitly requested
// for loading. When every family is generic the expression resolves
// immediately. Family names are escaped so the generated code stays
// syntactically valid whatever the caller put in its fallback list.
func LoadBarrierScript(families []string) string {
	var loads []string
	for _, f := range families {
		if IsGenericFamily(f) {
			continue
		}
		loads = append(loads, fmt.Sprintf("document.fonts.load('16px \"%s\"')", escapeJS(f)))
	}
	if len(loads) == 0 {
		return "() => Promise.resolve(true)"
	}
	return fmt.Sprintf("() => Promise.all([%s]).then(() => true)", strings.Join(loads, ", "))
}

// escapeJS escapes backslashes and quotes for embedding in a JS string
// literal.
func escapeJS(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	return s
}
