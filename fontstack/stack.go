// Copyright © 2026 Pixelterm contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: fontstack/stack.go
// Summary: Ordered, deduplicated CSS font stack construction.

package fontstack

import "strings"

// BuildStack produces the ordered font family list handed to the terminal
// emulator: emoji family first, bundled base family next, then the caller's
// comma-separated fallback entries. Each family appears at most once — the
// historical defect this function exists to prevent was the bundled base
// font name showing up twice, once as the explicit override and once inside
// the caller's fallback string, which broke cell metrics.
func BuildStack(callerFamilies, emojiFamily, baseFamily string) []string {
	var stack []string
	seen := make(map[string]bool)

	appendOnce := func(name string) {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		stack = append(stack, name)
	}

	appendOnce(emojiFamily)
	appendOnce(baseFamily)
	for _, entry := range strings.Split(callerFamilies, ",") {
		appendOnce(entry)
	}
	return stack
}

// QuoteIfMultiWord wraps a family name containing a space in double quotes,
// as CSS requires; single-word names pass through unquoted.
func QuoteIfMultiWord(family string) string {
	if strings.ContainsRune(family, ' ') {
		return `"` + family + `"`
	}
	return family
}

// CSSStack renders an ordered family list as a CSS font-family value.
func CSSStack(families []string) string {
	quoted := make([]string, len(families))
	for i, f := range families {
		quoted[i] = QuoteIfMultiWord(f)
	}
	return strings.Join(quoted, ", ")
}
