// Package similarity measures how closely a produced document matches a
// reference, line by line.
package similarity

import (
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/forwauzz/section7eval/internal/segment"
)

// Lines computes the positional line similarity between a produced text
// and a reference text, in [0,1].
//
// Both texts are reduced to their non-empty trimmed lines. For each index
// up to the longer line count, the pair of lines (empty string where one
// side is shorter) is compared with Ratio and the ratios are averaged.
// Two empty texts are a perfect match (1.0).
//
// The comparison is positional on purpose: it never re-aligns inserted or
// deleted lines, so one extra line shifts every later pair and depresses
// the score. That strictness is part of the contract.
func Lines(produced, reference string) float64 {
	la := segment.Lines(produced)
	lb := segment.Lines(reference)
	if len(la) == 0 && len(lb) == 0 {
		return 1.0
	}

	n := len(la)
	if len(lb) > n {
		n = len(lb)
	}
	if n == 0 {
		return 0.0
	}

	sum := 0.0
	for i := 0; i < n; i++ {
		var a, b string
		if i < len(la) {
			a = la[i]
		}
		if i < len(lb) {
			b = lb[i]
		}
		sum += Ratio(a, b)
	}
	return sum / float64(n)
}

// Ratio is the normalized edit similarity of two strings: twice the
// number of matching runes over the total rune count, where matches come
// from a character-level diff. Identical strings (including two empty
// strings) score 1.0; fully disjoint strings score 0.0. The measure is
// symmetric.
func Ratio(a, b string) float64 {
	if a == b {
		return 1.0
	}
	total := utf8.RuneCountInString(a) + utf8.RuneCountInString(b)
	if total == 0 {
		return 1.0
	}

	dmp := diffmatchpatch.New()
	common := 0
	for _, d := range dmp.DiffMain(a, b, false) {
		if d.Type == diffmatchpatch.DiffEqual {
			common += utf8.RuneCountInString(d.Text)
		}
	}
	return 2.0 * float64(common) / float64(total)
}
