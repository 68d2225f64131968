// Package redact scrubs secret-shaped material from text before it is
// sent to the external review model. Case documents come from clinical
// pipelines that occasionally leak environment dumps into their output;
// the excerpts leave the machine, so anything resembling a credential is
// masked first.
package redact

import "regexp"

const mask = "[REDACTED]"

// patterns are applied in order to every excerpt.
var patterns = []*regexp.Regexp{
	// AWS access key IDs
	regexp.MustCompile(`AKIA[0-9A-Z]{16}`),
	// OpenAI / Anthropic style secret keys
	regexp.MustCompile(`(?:^|\s|["'])sk-[a-zA-Z0-9]{20,}`),
	// JWT tokens (three base64url segments)
	regexp.MustCompile(`eyJ[A-Za-z0-9\-_]+\.[A-Za-z0-9\-_]+\.[A-Za-z0-9\-_]+`),
	// Bearer tokens; 20-char minimum keeps French prose out
	regexp.MustCompile(`(?i)Bearer\s+[A-Za-z0-9\-._~+/]{20,}=*`),
	// Inline password assignments
	regexp.MustCompile(`(?i)password\s*[:=]\s*\S+`),
}

// Scrub replaces every secret-shaped match in input with [REDACTED].
func Scrub(input string) string {
	for _, re := range patterns {
		input = re.ReplaceAllString(input, mask)
	}
	return input
}
