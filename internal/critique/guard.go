package critique

import (
	"log"
	"regexp"
	"strings"
)

// redacted replaces instruction-like phrases found in user documents.
const redacted = "[REDACTED]"

// injectionPatterns match phrases addressed to the model rather than
// describing the candidate.
var injectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)ignore\s+(all\s+|the\s+)?(previous|prior|above)\s+instructions?`),
	regexp.MustCompile(`(?i)disregard\s+(all\s+|the\s+)?(previous|prior|above)(\s+instructions?)?`),
	regexp.MustCompile(`(?i)forget\s+(all\s+)?(previous|prior|everything)(\s+instructions?)?`),
	regexp.MustCompile(`(?i)new\s+instructions?\s*:`),
	regexp.MustCompile(`(?i)(give|assign|rate)\s+(this|the)\s+(resume|candidate)\s+(a\s+)?(score\s+of\s+)?100`),
	regexp.MustCompile(`(?i)(resume|ats)\s+score\s*:\s*\d{1,3}\s*/\s*100`),
}

// quoteDelimiter fences documents inside the review prompt.
const quoteDelimiter = `"""`

// guardInput prepares user supplied text for the review prompt. Phrases
// that address the model are redacted, self-awarded scores are removed so
// they cannot be mistaken for the model's answer, and the prompt's quote
// delimiter is broken up so the text cannot close its block.
func guardInput(text, source string) string {
	guarded := text
	hits := 0
	for _, pattern := range injectionPatterns {
		guarded = pattern.ReplaceAllStringFunc(guarded, func(string) string {
			hits++
			return redacted
		})
	}
	if hits > 0 {
		log.Printf("[critique] redacted %d instruction-like phrase(s) in %s", hits, source)
	}

	return strings.ReplaceAll(guarded, quoteDelimiter, `" " "`)
}
