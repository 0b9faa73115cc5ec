package contract

import (
	"testing"
	"unicode/utf8"
)

// FuzzTruncateText fuzzes TruncateText with random text and widths.
func FuzzTruncateText(f *testing.F) {
	seeds := []struct {
		text  string
		width int
	}{
		{"https://www.tiktok.com/@user/video/1", 20},
		{"", 10},
		{"abc", 4},
		{"日本語のテキスト", 5},
	}
	for _, seed := range seeds {
		f.Add(seed.text, seed.width)
	}

	f.Fuzz(func(t *testing.T, text string, width int) {
		if width > 1<<16 || width < -1<<16 {
			return
		}
		out := TruncateText(text, width)
		if width > 3 && utf8.ValidString(text) && utf8.RuneCountInString(out) > width {
			t.Fatalf("TruncateText(%q, %d) = %q exceeds width", text, width, out)
		}
	})
}
