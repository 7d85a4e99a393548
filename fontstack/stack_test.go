package fontstack

import (
	"reflect"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestBuildStackOrderAndDedup(t *testing.T) {
	got := BuildStack("JetBrains Mono, Menlo, monospace", "Noto Color Emoji", "JetBrains Mono")
	want := []string{"Noto Color Emoji", "JetBrains Mono", "Menlo", "monospace"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("stack = %v, want %v", got, want)
	}
}

func TestBuildStackEmptyEntries(t *testing.T) {
	got := BuildStack(" , Menlo ,, monospace , ", "", "")
	want := []string{"Menlo", "monospace"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("stack = %v, want %v", got, want)
	}
}

func TestBuildStackNoEmojiFont(t *testing.T) {
	got := BuildStack("monospace", "", "JetBrains Mono")
	want := []string{"JetBrains Mono", "monospace"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("stack = %v, want %v", got, want)
	}
}

func TestBuildStackProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	names := gen.OneConstOf(
		"JetBrains Mono", "Noto Color Emoji", "Menlo", "monospace",
		"DejaVu Sans Mono", "Twemoji Mozilla", "", " ",
	)

	properties.Property("each family appears exactly once, overrides first", prop.ForAll(
		func(emoji, base string, fallback []string) bool {
			stack := BuildStack(strings.Join(fallback, ","), strings.TrimSpace(emoji), strings.TrimSpace(base))

			seen := make(map[string]int)
			for _, f := range stack {
				seen[f]++
				if f != strings.TrimSpace(f) || f == "" {
					return false
				}
			}
			for _, n := range seen {
				if n != 1 {
					return false
				}
			}
			// Emoji family (if any) precedes base family (if any), both
			// precede every fallback-only entry.
			e, b := strings.TrimSpace(emoji), strings.TrimSpace(base)
			if e != "" && stack[0] != e {
				return false
			}
			if e != "" && b != "" && e != b {
				if indexOf(stack, b) != 1 {
					return false
				}
			}
			return true
		},
		names, names, gen.SliceOf(names),
	))

	properties.TestingRun(t)
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}

func TestQuoteIfMultiWord(t *testing.T) {
	if got := QuoteIfMultiWord("JetBrains Mono"); got != `"JetBrains Mono"` {
		t.Fatalf("got %q", got)
	}
	if got := QuoteIfMultiWord("monospace"); got != "monospace" {
		t.Fatalf("got %q", got)
	}
}

func TestCSSStack(t *testing.T) {
	got := CSSStack([]string{"Noto Color Emoji", "JetBrains Mono", "monospace"})
	want := `"Noto Color Emoji", "JetBrains Mono", monospace`
	if got != want {
		t.Fatalf("css = %q, want %q", got, want)
	}
}

func TestLoadBarrierSkipsGenerics(t *testing.T) {
	js := LoadBarrierScript([]string{"serif", "MONOSPACE", "system-ui"})
	if js != "() => Promise.resolve(true)" {
		t.Fatalf("all-generic stack must produce an immediate resolve, got %q", js)
	}
}

func TestLoadBarrierRequestsEachFamily(t *testing.T) {
	js := LoadBarrierScript([]string{"Noto Color Emoji", "monospace", "JetBrains Mono"})
	if !strings.Contains(js, `document.fonts.load('16px \"Noto Color Emoji\"')`) &&
		!strings.Contains(js, `document.fonts.load('16px "Noto Color Emoji"')`) {
		t.Fatalf("barrier missing emoji family load: %q", js)
	}
	if strings.Contains(js, "monospace") {
		t.Fatalf("generic family leaked into the barrier: %q", js)
	}
	if !strings.Contains(js, "Promise.all") {
		t.Fatalf("barrier must await all loads: %q", js)
	}
}

func TestLoadBarrierEscaping(t *testing.T) {
	js := LoadBarrierScript([]string{`Weird "Font" \ Name`})
	if !strings.Contains(js, `\"Font\"`) || !strings.Contains(js, `\\`) {
		t.Fatalf("quotes and backslashes must be escaped: %q", js)
	}
}

func TestResolveEmojiFontKeys(t *testing.T) {
	for _, key := range []string{EmojiFontNoto, EmojiFontNotoMono, EmojiFontTwemoji, EmojiFontUnifont} {
		f := ResolveEmojiFont(key)
		if f.Path == "" || f.Family == "" {
			t.Fatalf("bundled key %q must resolve to path and family, got %+v", key, f)
		}
	}
	for _, key := range []string{"", EmojiFontSystem, "definitely-not-a-font"} {
		f := ResolveEmojiFont(key)
		if f.Path != "" || f.Family != "" {
			t.Fatalf("key %q must mean no override, got %+v", key, f)
		}
	}
}

func TestResolveBaseFontAlwaysAvailable(t *testing.T) {
	f := ResolveBaseFont()
	if f.Path == "" || f.Family != "JetBrains Mono" {
		t.Fatalf("base font must always be enumerated, got %+v", f)
	}
}

func TestFontDirEnvOverride(t *testing.T) {
	t.Setenv(FontDirEnv, "/opt/pixelterm/fonts")
	f := ResolveBaseFont()
	if !strings.HasPrefix(f.Path, "/opt/pixelterm/fonts/") {
		t.Fatalf("font dir override ignored, path %q", f.Path)
	}
}
