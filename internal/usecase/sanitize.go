package usecase

import (
	"html"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

// MaxMessageLength is the hard cap on a stored body, in characters.
const MaxMessageLength = 500

// maxStripPasses bounds how many layers of entity encoding are peeled off.
const maxStripPasses = 8

var stripPolicy = bluemonday.StrictPolicy()

// SanitizeBody turns user input into plain text: markup and control
// characters removed, line endings normalized, surrounding space trimmed.
func SanitizeBody(raw string) string {
	if !utf8.ValidString(raw) {
		raw = strings.ToValidUTF8(raw, "")
	}

	text := stripMarkup(raw)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.Map(func(r rune) rune {
		switch {
		case r == '\n':
			return r
		case r == '\t':
			return ' '
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, text)

	return strings.TrimSpace(text)
}

// stripMarkup removes tags and decodes entities until the text is stable, so
// encoded markup cannot come back to life after decoding.
func stripMarkup(text string) string {
	for i := 0; i < maxStripPasses; i++ {
		next := html.UnescapeString(stripPolicy.Sanitize(text))
		if next == text {
			return text
		}
		text = next
	}
	return strings.NewReplacer("<", "", ">", "").Replace(text)
}

// TruncateBody cuts text to MaxMessageLength characters.
func TruncateBody(text string) string {
	if utf8.RuneCountInString(text) <= MaxMessageLength {
		return text
	}
	runes := []rune(text)
	return strings.TrimRightFunc(string(runes[:MaxMessageLength]), unicode.IsSpace)
}
