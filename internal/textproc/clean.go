// Package textproc provides text normalization utilities for raw
// conversation messages: whitespace collapsing, character filtering,
// word counting, and URL extraction.
package textproc

import (
	"regexp"
	"strings"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	// Keep word characters, whitespace and basic punctuation; strip
	// everything else (emoji, control characters, stray symbols).
	charsetRe = regexp.MustCompile(`[^\w\s.,!?;:-]`)
	// $-_ is a character range: it spans the ASCII block that includes
	// slash, digits, ?, = and uppercase letters, so full URL paths and
	// query strings match.
	urlRe  = regexp.MustCompile(`https?://[A-Za-z0-9$-_@.&+!*(),%]+`)
	wordRe = regexp.MustCompile(`\w+`)
)

// Clean normalizes a raw message string: runs of whitespace collapse to a
// single space, the ends are trimmed, and characters outside the allowed
// set are removed. Cleaning never fails; unusable input yields "".
func Clean(text string) string {
	text = charsetRe.ReplaceAllString(text, "")
	text = whitespaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// CountWords returns the number of whitespace-delimited tokens.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// ExtractURLs returns all http/https URLs found in the text, in order.
func ExtractURLs(text string) []string {
	return urlRe.FindAllString(text, -1)
}

// Words returns the lowercase word tokens of the text.
func Words(text string) []string {
	return wordRe.FindAllString(strings.ToLower(text), -1)
}
