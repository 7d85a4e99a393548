// Copyright © 2026 Pixelterm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: unicodewidth/override.go
// Summary: Generates the browser-side width-table override for xterm.js.

package unicodewidth

import (
	"fmt"
	"strings"
)

// ProviderVersion names the Unicode provider registered on the browser-side
// terminal. Registering under a distinct version keeps the stock tables
// untouched and makes activation failures detectable.
const ProviderVersion = "11-pixelterm"

// OverrideScript returns a JavaScript function expression that registers the
// EmojiRanges table as a Unicode provider on an xterm.js Terminal instance
// and activates it. The generated function takes the terminal as its only
// argument and returns true on success, false if the emulator exposes no
// unicode registration hook. Rendering proceeds either way; a false return
// is surfaced as a diagnostic, not a failure.
func OverrideScript() string {
	var ranges strings.Builder
	for i, rg := range EmojiRanges {
		if i > 0 {
			ranges.WriteString(",")
		}
		fmt.Fprintf(&ranges, "[0x%X,0x%X]", rg[0], rg[1])
	}

	return fmt.Sprintf(`(term) => {
	const ranges = [%s];
	const wide = (cp) => {
		for (const [lo, hi] of ranges) {
			if (cp >= lo && cp <= hi) return true;
		}
		return false;
	};
	if (!term.unicode || typeof term.unicode.register !== 'function') {
		return false;
	}
	const base = term.unicode.versions[term.unicode.activeVersion];
	term.unicode.register({
		version: '%s',
		wcwidth: (cp) => {
			if (cp >= 0xFE00 && cp <= 0xFE0F) return 0;
			if (wide(cp)) return 2;
			return base ? base.wcwidth(cp) : 1;
		},
		charProperties: (cp, preceding) => {
			if (base && typeof base.charProperties === 'function') {
				return base.charProperties(cp, preceding);
			}
			return 0;
		},
	});
	term.unicode.activeVersion = '%s';
	return term.unicode.activeVersion === '%s';
}`, ranges.String(), ProviderVersion, ProviderVersion, ProviderVersion)
}
