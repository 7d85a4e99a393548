package unicodewidth

import (
	"strings"
	"testing"
)

func TestRuneWidthEmoji(t *testing.T) {
	cases := []struct {
		r    rune
		want int
	}{
		{'a', 1},
		{'│', 1},      // box drawing stays single width
		{'世', 2},      // CJK wide via runewidth tables
		{'🦊', 2},      // U+1F98A, inside the verified minimum range
		{'⚡', 2},      // U+26A1, Miscellaneous Symbols
		{'✅', 2},      // U+2705, Dingbats
		{'\uFE0F', 0}, // variation selector renders nothing
		{'\uFE00', 0},
	}
	for _, c := range cases {
		if got := RuneWidth(c.r); got != c.want {
			t.Errorf("RuneWidth(%U) = %d, want %d", c.r, got, c.want)
		}
	}
}

func TestStringWidthGraphemes(t *testing.T) {
	cases := []struct {
		s    string
		want int
	}{
		{"", 0},
		{"hello", 5},
		{"🦊", 2},
		{"a🦊b", 4},
		{"🇩🇪", 2},         // flag pair is one double-width cluster
		{"👩‍🚀", 2},        // ZWJ sequence collapses to one cluster
		{"☀\uFE0F", 2},   // selector adds no width
		{"┌──┐", 4},
	}
	for _, c := range cases {
		if got := StringWidth(c.s); got != c.want {
			t.Errorf("StringWidth(%q) = %d, want %d", c.s, got, c.want)
		}
	}
}

func TestIsEmojiRangeBounds(t *testing.T) {
	if !IsEmoji(0x1F000) || !IsEmoji(0x1FFFF) {
		t.Fatal("verified minimum range bounds must be emoji")
	}
	if IsEmoji(0x1EFFF) {
		t.Fatal("rune below the emoji block misclassified")
	}
	if IsEmoji('A') {
		t.Fatal("ASCII misclassified as emoji")
	}
}

func TestOverrideScriptContainsTable(t *testing.T) {
	js := OverrideScript()
	if !strings.Contains(js, "[0x1F000,0x1FFFF]") {
		t.Fatal("override script is missing the verified minimum emoji range")
	}
	if !strings.Contains(js, ProviderVersion) {
		t.Fatal("override script does not register the pixelterm provider version")
	}
	if !strings.Contains(js, "0xFE00") || !strings.Contains(js, "0xFE0F") {
		t.Fatal("override script must zero-width the variation selector block")
	}
	// Must be a single function expression usable as a rod Eval argument.
	if !strings.HasPrefix(js, "(term) =>") {
		t.Fatalf("override script must be a function expression, got prefix %q", js[:12])
	}
}
