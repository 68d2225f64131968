// Package rules applies the fixed Section 7 compliance rule set to a
// produced document and aggregates the outcomes into a flat score.
//
// The nine rules are modeled as a declarative list of (id, check) pairs
// rather than a hard-coded sequence, so each rule is unit-testable in
// isolation and the set can be substituted without touching the
// evaluator. A rule never errors: when it finds zero applicable
// instances it passes vacuously.
package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/forwauzz/section7eval/internal/extract"
	"github.com/forwauzz/section7eval/internal/segment"
)

// RequiredHeader is the exact first line a Section 7 document must carry.
const RequiredHeader = "7. Historique de faits et évolution"

// maxExamples caps the diagnostic example list on a failing rule.
const maxExamples = 5

// temporalOpeningRe matches a paragraph first line that leads with a bare
// date ("Le 19 …") or a month phrase ("En avril …") instead of the
// subject.
var temporalOpeningRe = regexp.MustCompile(`^\s*(En\s+\p{L}+|Le\s+[0-3]?\d)`)

// Document is one produced text prepared for rule evaluation: the raw
// text, its paragraphs, and the signals extracted once and shared by
// every rule.
type Document struct {
	Text       string
	Paragraphs []string
	Dates      []extract.DateToken
	Quotes     []string
	Verbs      []string
}

// NewDocument segments and extracts signals from text.
func NewDocument(text string) *Document {
	return &Document{
		Text:       text,
		Paragraphs: segment.Paragraphs(text),
		Dates:      extract.Dates(text),
		Quotes:     extract.Quotes(text),
		Verbs:      extract.VerbsFound(text),
	}
}

// Outcome is the result of one rule applied to one document. Diagnostic
// fields are rule-specific; unused ones are omitted from the JSON report.
type Outcome struct {
	Rule string `json:"rule"`
	OK   bool   `json:"ok"`
	Msg  string `json:"msg,omitempty"`

	// Offending 1-based paragraph indices (subject/date-opening rules).
	BadParagraphs []int `json:"bad_paragraphs,omitempty"`

	// Quotation rules. Counts are pointers so the owning rule emits
	// them even at zero while the other rules omit them entirely.
	TotalQuotes    *int  `json:"total_quotes,omitempty"`
	NonRadioQuotes *int  `json:"non_radio_quotes,omitempty"`
	TotalRadio     *int  `json:"total_radio,omitempty"`
	WithQuotes     *int  `json:"with_quotes,omitempty"`
	MissingQuotes  []int `json:"missing_quotes,omitempty"`

	// Verb-variety rule.
	DistinctVerbs []string `json:"distinct_verbs,omitempty"`

	// Chronology rule.
	DateCount *int `json:"date_count,omitempty"`

	// Vertebral rule: exact offending substrings, capped.
	Examples []string `json:"examples,omitempty"`
}

// Rule pairs a stable identifier with its check. Checks read the
// Document and return a fresh Outcome; they must not mutate it.
type Rule struct {
	ID    string
	Check func(doc *Document) Outcome
}

// Default returns the built-in Section 7 rule set, in report order.
func Default() []Rule {
	return []Rule{
		{ID: "header", Check: checkHeader},
		{ID: "paragraph-opens-with-subject", Check: checkSubjectOpening},
		{ID: "no-bare-date-or-month-opening", Check: checkTemporalOpening},
		{ID: "medical-title-present", Check: checkMedicalTitle},
		{ID: "at-most-one-non-radiology-quotation", Check: checkSingleDeclaration},
		{ID: "radiology-paragraphs-must-quote-verbatim", Check: checkRadiologyVerbatim},
		{ID: "verb-variety", Check: checkVerbVariety},
		{ID: "ascending-chronology", Check: checkChronology},
		{ID: "vertebral-hyphenation", Check: checkVertebralHyphens},
	}
}

// Evaluate runs every rule against doc and returns one outcome per rule,
// in rule order.
func Evaluate(doc *Document, ruleSet []Rule) []Outcome {
	out := make([]Outcome, 0, len(ruleSet))
	for _, r := range ruleSet {
		o := r.Check(doc)
		o.Rule = r.ID
		out = append(out, o)
	}
	return out
}

// checkHeader verifies the document's first line is exactly the required
// section header.
func checkHeader(doc *Document) Outcome {
	if segment.FirstLine(strings.TrimSpace(doc.Text)) == RequiredHeader {
		return Outcome{OK: true}
	}
	return Outcome{OK: false, Msg: fmt.Sprintf("first line must be %q", RequiredHeader)}
}

// checkSubjectOpening verifies every narrative paragraph opens with one
// of the two fixed subject phrases. The section-header paragraph is not
// narrative and is exempt.
func checkSubjectOpening(doc *Document) Outcome {
	var bad []int
	for i, p := range doc.Paragraphs {
		if isHeaderParagraph(p) {
			continue
		}
		if !hasSubjectOpening(p) {
			bad = append(bad, i+1)
		}
	}
	return Outcome{OK: len(bad) == 0, BadParagraphs: bad}
}

func isHeaderParagraph(p string) bool {
	return segment.FirstLine(p) == RequiredHeader
}

func hasSubjectOpening(p string) bool {
	for _, s := range extract.SubjectOpenings {
		if strings.HasPrefix(p, s) {
			return true
		}
	}
	return false
}

// checkTemporalOpening flags paragraphs whose first line leads with a
// bare date or a month phrase. This is structural: chronological content
// must stay subordinate to the subject-first sentence, so a paragraph can
// fail this rule and the subject rule at once.
func checkTemporalOpening(doc *Document) Outcome {
	var bad []int
	for i, p := range doc.Paragraphs {
		if isHeaderParagraph(p) {
			continue
		}
		if temporalOpeningRe.MatchString(segment.FirstLine(p)) {
			bad = append(bad, i+1)
		}
	}
	return Outcome{OK: len(bad) == 0, BadParagraphs: bad}
}

func checkMedicalTitle(doc *Document) Outcome {
	ok := extract.HasMedicalTitle(doc.Text)
	o := Outcome{OK: ok}
	if !ok {
		o.Msg = "no physician title found in the document"
	}
	return o
}

// checkSingleDeclaration verifies that at most one paragraph outside the
// radiology excerpts carries a quotation: only the worker's initial
// declaration is quoted verbatim elsewhere.
func checkSingleDeclaration(doc *Document) Outcome {
	nonRadio := 0
	for _, p := range doc.Paragraphs {
		if extract.HasQuote(p) && !extract.HasImagingKeyword(p) {
			nonRadio++
		}
	}
	return Outcome{
		OK:             nonRadio <= 1,
		TotalQuotes:    intp(len(doc.Quotes)),
		NonRadioQuotes: intp(nonRadio),
	}
}

// checkRadiologyVerbatim verifies every paragraph mentioning an imaging
// modality quotes its report verbatim. No radiology paragraphs means a
// vacuous pass.
func checkRadiologyVerbatim(doc *Document) Outcome {
	var missing []int
	radio, quoted := 0, 0
	for i, p := range doc.Paragraphs {
		if !extract.HasImagingKeyword(p) {
			continue
		}
		radio++
		if extract.HasQuote(p) {
			quoted++
		} else {
			missing = append(missing, i+1)
		}
	}
	return Outcome{
		OK:            len(missing) == 0,
		TotalRadio:    intp(radio),
		WithQuotes:    intp(quoted),
		MissingQuotes: missing,
	}
}

// checkVerbVariety requires at least two distinct consultation verbs
// across the document, guarding against repetitive phrasing.
func checkVerbVariety(doc *Document) Outcome {
	return Outcome{OK: len(doc.Verbs) >= 2, DistinctVerbs: doc.Verbs}
}

// checkChronology verifies the dates, taken in narrative order, are
// non-decreasing. Fewer than two dates passes trivially.
func checkChronology(doc *Document) Outcome {
	ok := true
	for i := 0; i+1 < len(doc.Dates); i++ {
		if doc.Dates[i+1].Before(doc.Dates[i]) {
			ok = false
			break
		}
	}
	return Outcome{OK: ok, DateCount: intp(len(doc.Dates))}
}

func intp(n int) *int { return &n }

// checkVertebralHyphens flags adjacent vertebral levels written without
// the required hyphen, e.g. "L5 S1" instead of "L5-S1".
func checkVertebralHyphens(doc *Document) Outcome {
	pairs := extract.UnhyphenatedVertebralPairs(doc.Text)
	if len(pairs) > maxExamples {
		pairs = pairs[:maxExamples]
	}
	return Outcome{OK: len(pairs) == 0, Examples: pairs}
}
