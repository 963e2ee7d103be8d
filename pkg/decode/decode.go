// Package decode sniffs the charset of uploaded artifact files. Backends
// reject mis-decoded BPMN/OpenAPI bodies, so uploads are decoded as UTF-8
// first with legacy fallbacks for files exported from Windows tooling.
package decode

import (
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// replacementLimit is the number of U+FFFD runes above which a decode is
// considered garbage and the next candidate encoding is tried.
const replacementLimit = 5

var fallbacks = []encoding.Encoding{
	charmap.Windows1251,
	unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM),
	unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM),
}

// replacementCount counts runes that are, or would decode to, U+FFFD.
// Invalid UTF-8 byte sequences count as one replacement each.
func replacementCount(s string) int {
	count := 0

	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError {
			count++
		}

		i += size
	}

	return count
}

// Sniff decodes raw file bytes, trying UTF-8 first and falling back to
// windows-1251, UTF-16LE and UTF-16BE in order. The first decode producing at
// most five replacement characters wins; otherwise the UTF-8 decoding is
// returned as-is.
func Sniff(data []byte) string {
	text := string(data)
	if text != "" && replacementCount(text) <= replacementLimit {
		return text
	}

	for _, enc := range fallbacks {
		alt, err := enc.NewDecoder().String(string(data))
		if err != nil {
			continue
		}

		if alt != "" && replacementCount(alt) <= replacementLimit {
			return alt
		}
	}

	return text
}

// SniffFile reads and decodes one file.
func SniffFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	return Sniff(data), nil
}
