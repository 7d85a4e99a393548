// Copyright © 2026 Pixelterm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: unicodewidth/width.go
// Summary: Width reconciliation model shared by the capture and render sides.

// Package unicodewidth holds the single width table pixelterm trusts.
//
// Three width algorithms touch a snapshot: the layout library of the program
// under test, the PTY line discipline, and the Unicode tables of the
// browser-side terminal emulator. They disagree on emoji and
// variation-selector sequences. This package is the arbiter: the Go side
// measures with it, and the browser side is forced onto the same table via
// OverrideScript, so both ends agree by construction.
package unicodewidth

import (
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// VariationSelector16 requests emoji presentation for the preceding rune.
// It renders at width zero but several layout libraries count it as one
// column, which is why the normalizer strips it before re-rendering.
const VariationSelector16 = '\uFE0F'

// EmojiRanges lists the rune ranges the renderer must treat as double-width.
// The U+1F000–U+1FFFF block is the verified minimum; the remaining entries
// cover the emoji-presentation subsets of the BMP symbol blocks per the
// Unicode emoji-data tables.
var EmojiRanges = [][2]rune{
	{0x1F000, 0x1FFFF}, // Mahjong tiles through Symbols Extended-A
	{0x2600, 0x26FF},   // Miscellaneous Symbols
	{0x2700, 0x27BF},   // Dingbats
	{0x2B00, 0x2BFF},   // Miscellaneous Symbols and Arrows
	{0x3030, 0x3030},   // Wavy dash
	{0x303D, 0x303D},   // Part alternation mark
	{0x3297, 0x3299},   // Circled ideographs
}

// IsEmoji reports whether r falls in one of the double-width emoji ranges.
func IsEmoji(r rune) bool {
	for _, rg := range EmojiRanges {
		if r >= rg[0] && r <= rg[1] {
			return true
		}
	}
	return false
}

// IsVariationSelector reports whether r is a variation selector (U+FE00–U+FE0F).
func IsVariationSelector(r rune) bool {
	return r >= 0xFE00 && r <= 0xFE0F
}

// RuneWidth returns the column width of a single rune: 0 for variation
// selectors and combining marks, 2 for emoji and East-Asian wide runes,
// 1 otherwise. Emoji ranges win over the go-runewidth tables so that the
// answer matches what OverrideScript installs in the browser.
func RuneWidth(r rune) int {
	if IsVariationSelector(r) {
		return 0
	}
	if IsEmoji(r) {
		return 2
	}
	return runewidth.RuneWidth(r)
}

// StringWidth returns the column width of s, counting per grapheme cluster
// so that ZWJ sequences and flag pairs occupy one cell pair, not several.
func StringWidth(s string) int {
	total := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		total += graphemeWidth(g.Runes())
	}
	return total
}

// graphemeWidth is the width of one grapheme cluster: double if any rune in
// the cluster is emoji or wide, otherwise the width of its base rune.
func graphemeWidth(runes []rune) int {
	if len(runes) == 0 {
		return 0
	}
	for _, r := range runes {
		if IsEmoji(r) {
			return 2
		}
	}
	w := 0
	for _, r := range runes {
		if rw := RuneWidth(r); rw > w {
			w = rw
		}
	}
	return w
}
