// Copyright © 2026 Pixelterm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: ansi/normalize.go
// Summary: Canonicalizes captured terminal bytes before re-rendering.

// Package ansi transforms a captured raw terminal byte stream into the
// canonical form the renderer consumes. The only transformation is removal
// of the emoji variation selector U+FE0F: the layout libraries used by
// programs under test count it as one column while the renderer's Unicode
// tables count it as zero, so leaving it in shifts everything after an
// emoji by one cell and breaks border alignment.
package ansi

import (
	"strings"
	"unicode/utf8"

	"pixelterm/unicodewidth"
)

// Normalize returns stream with every U+FE0F removed and the number of
// occurrences that were removed. All other bytes — newlines, escape
// sequences, text — pass through verbatim, so line boundaries and escape
// framing are untouched. Normalize is idempotent.
func Normalize(stream string) (string, int) {
	idx := strings.IndexRune(stream, unicodewidth.VariationSelector16)
	if idx < 0 {
		return stream, 0
	}

	var b strings.Builder
	b.Grow(len(stream))
	b.WriteString(stream[:idx])

	removed := 0
	for i := idx; i < len(stream); {
		r, size := utf8.DecodeRuneInString(stream[i:])
		if r == unicodewidth.VariationSelector16 {
			removed++
		} else {
			b.WriteString(stream[i : i+size])
		}
		i += size
	}
	return b.String(), removed
}

// NormalizeBytes is Normalize for raw capture buffers.
func NormalizeBytes(stream []byte) ([]byte, int) {
	s, removed := Normalize(string(stream))
	if removed == 0 {
		return stream, 0
	}
	return []byte(s), removed
}
