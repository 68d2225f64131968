// Package extract provides the pure signal extractors the rule evaluator
// runs over a produced document: calendar dates, quoted spans,
// consultation verbs, vertebral-level pairs, and physician titles.
//
// Every function here is total: malformed input yields fewer matches,
// never an error.
package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	dateRe      = regexp.MustCompile(`(?i)\b([0-3]?\d(?:er)?)\s+(` + strings.Join(Months, "|") + `)\s+([12]\d{3})\b`)
	quoteRe     = regexp.MustCompile(`(?s)«.*?»`)
	vertebralRe = regexp.MustCompile(`\b[CTL]\d{1,2}\s+-?\s*[LS]\d{1,2}\b`)
	// \b is ASCII-only in RE2: it does not bound keywords starting with
	// an accented letter ("échographie"), so the alternation is fenced
	// with explicit non-letter classes instead.
	imagingRe = regexp.MustCompile(`(?i)(?:^|[^\p{L}\p{N}])(` + strings.Join(ImagingKeywords, "|") + `)(?:[^\p{L}\p{N}]|$)`)
	titleRe   = regexp.MustCompile(buildTokenPattern(TitleTokens))
	verbRes   = buildVerbPatterns(ConsultationVerbs)
)

// buildTokenPattern assembles a word-boundary alternation from tokens.
// Tokens ending in "." get no trailing boundary: a period followed by a
// space is not a word boundary.
func buildTokenPattern(tokens []string) string {
	alts := make([]string, len(tokens))
	for i, tok := range tokens {
		alt := regexp.QuoteMeta(tok)
		if !strings.HasSuffix(tok, ".") {
			alt += `\b`
		}
		alts[i] = alt
	}
	return `\b(` + strings.Join(alts, "|") + `)`
}

func buildVerbPatterns(verbs []string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(verbs))
	for i, v := range verbs {
		res[i] = regexp.MustCompile(`\b` + regexp.QuoteMeta(v) + `\b`)
	}
	return res
}

// DateToken is one calendar date parsed from the text, normalized for
// chronological comparison.
type DateToken struct {
	Day   int
	Month time.Month
	Year  int
	Text  string // matched substring, as written
}

// Time returns the token as a midnight-UTC instant for comparison.
func (d DateToken) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// Before reports whether d is strictly earlier than other.
func (d DateToken) Before(other DateToken) bool {
	return d.Time().Before(other.Time())
}

// Dates scans text for "<day> <month-name> <year>" tokens and returns
// them in document order, not sorted. The day may carry the "er" ordinal
// suffix ("1er" parses as day 1). Matches that fail calendar validation
// (e.g. "31 février 2024") are dropped silently.
func Dates(text string) []DateToken {
	var out []DateToken
	for _, m := range dateRe.FindAllStringSubmatch(text, -1) {
		day, err := strconv.Atoi(strings.TrimSuffix(m[1], "er"))
		if err != nil || day == 0 {
			continue
		}
		month, ok := monthNumber(m[2])
		if !ok {
			continue
		}
		year, err := strconv.Atoi(m[3])
		if err != nil {
			continue
		}
		// time.Date normalizes overflow (Feb 31 → Mar 2); a changed day
		// or month means the written date does not exist.
		t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
		if t.Day() != day || t.Month() != month || t.Year() != year {
			continue
		}
		out = append(out, DateToken{Day: day, Month: month, Year: year, Text: m[0]})
	}
	return out
}

// monthNumber resolves a French month name, case-insensitively.
func monthNumber(name string) (time.Month, bool) {
	name = strings.ToLower(name)
	for i, m := range Months {
		if name == m {
			return time.Month(i + 1), true
		}
	}
	return 0, false
}

// Quotes returns every «…» span in text, guillemets included, duplicates
// preserved. Spans may cross line boundaries.
func Quotes(text string) []string {
	return quoteRe.FindAllString(text, -1)
}

// HasQuote reports whether text contains both an opening and a closing
// guillemet. This is the looser per-paragraph check the quotation rules
// use; it tolerates a span whose halves sit on different lines of the
// same paragraph.
func HasQuote(text string) bool {
	return strings.Contains(text, "«") && strings.Contains(text, "»")
}

// VerbsFound returns the distinct consultation verbs present in text, in
// vocabulary order. Matching is word-bounded and case-sensitive.
func VerbsFound(text string) []string {
	var found []string
	for i, re := range verbRes {
		if re.MatchString(text) {
			found = append(found, ConsultationVerbs[i])
		}
	}
	return found
}

// UnhyphenatedVertebralPairs returns each occurrence of two adjacent
// vertebral-level tokens written without the required hyphen, e.g.
// "L5 S1". The returned strings are the exact matched substrings.
func UnhyphenatedVertebralPairs(text string) []string {
	return vertebralRe.FindAllString(text, -1)
}

// HasMedicalTitle reports whether any physician-title token appears in
// text.
func HasMedicalTitle(text string) bool {
	return titleRe.MatchString(text)
}

// HasImagingKeyword reports whether text mentions an imaging modality,
// marking it as a radiology excerpt.
func HasImagingKeyword(text string) bool {
	return imagingRe.MatchString(text)
}
