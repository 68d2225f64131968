// Package segment splits raw narrative text into the units the rule
// evaluator and similarity scorer work over: blank-line-delimited
// paragraphs and non-empty lines.
package segment

import (
	"regexp"
	"strings"
)

// paragraphSep matches one or more blank lines, including lines that
// contain only whitespace.
var paragraphSep = regexp.MustCompile(`\n[ \t]*\n+`)

// Paragraphs splits text into trimmed, non-empty paragraphs in document
// order. A paragraph is a block of consecutive non-blank lines. Empty
// input yields an empty slice.
func Paragraphs(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	blocks := paragraphSep.Split(text, -1)
	out := make([]string, 0, len(blocks))
	for _, b := range blocks {
		b = strings.TrimSpace(b)
		if b != "" {
			out = append(out, b)
		}
	}
	return out
}

// Lines returns the trimmed, non-empty lines of text in order.
func Lines(text string) []string {
	var out []string
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// FirstLine returns the first line of text, trimmed. Empty input yields
// an empty string.
func FirstLine(text string) string {
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	return strings.TrimSpace(text)
}
