package analyzer

import (
	"regexp"
	"strings"
)

// separatorReplacer turns separators into spaces so "front-end", "front_end"
// and "front/end" all match "front end".
var separatorReplacer = strings.NewReplacer("-", " ", "_", " ", "/", " ")

// NormalizeText lower-cases text, replaces separators with spaces and collapses
// all whitespace (including line breaks) to single spaces.
func NormalizeText(text string) string {
	text = strings.ToLower(text)
	text = separatorReplacer.Replace(text)
	return strings.Join(strings.Fields(text), " ")
}

// splitLines normalizes line endings and splits text into lines.
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}

// wordCount counts whitespace-separated tokens.
func wordCount(text string) int {
	return len(strings.Fields(text))
}

// phrase is a keyword compiled for whole-word matching against normalized text.
type phrase struct {
	raw string
	re  *regexp.Regexp
}

// compilePhrase builds a matcher for s. The boundary check applies to the
// start and end of the phrase; internal spaces match any whitespace run.
// It returns nil for phrases that are empty after normalization.
func compilePhrase(s string) *phrase {
	return buildPhrase(s, "")
}

// compilePluralPhrase is compilePhrase that also accepts a trailing "s" or
// "es" on the last word, so "project" matches a "Projects" header.
func compilePluralPhrase(s string) *phrase {
	return buildPhrase(s, `(?:e?s)?`)
}

func buildPhrase(s, suffix string) *phrase {
	words := strings.Fields(NormalizeText(s))
	if len(words) == 0 {
		return nil
	}
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	pattern := `(?:^|[^\p{L}\p{N}_])` + strings.Join(quoted, `\s+`) + suffix + `(?:$|[^\p{L}\p{N}_])`
	return &phrase{raw: s, re: regexp.MustCompile(pattern)}
}

// in reports whether the phrase occurs in already-normalized text.
func (p *phrase) in(normalized string) bool {
	return p.re.MatchString(normalized)
}

func compilePhrases(words []string) []*phrase {
	out := make([]*phrase, 0, len(words))
	for _, w := range words {
		if p := compilePhrase(w); p != nil {
			out = append(out, p)
		}
	}
	return out
}

// ContainsWord reports whether phrase occurs in text as a whole word or
// whole multi-word phrase, case-insensitively and separator-insensitively.
func ContainsWord(text, phrase string) bool {
	p := compilePhrase(phrase)
	if p == nil {
		return false
	}
	return p.in(NormalizeText(text))
}

// containsAnySubstring reports whether lowerLine contains any keyword as a substring.
func containsAnySubstring(lowerLine string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lowerLine, kw) {
			return true
		}
	}
	return false
}

// countMatches counts how many phrases occur in normalized text.
func countMatches(normalized string, phrases []*phrase) int {
	n := 0
	for _, p := range phrases {
		if p.in(normalized) {
			n++
		}
	}
	return n
}

func anyMatch(normalized string, phrases []*phrase) bool {
	for _, p := range phrases {
		if p.in(normalized) {
			return true
		}
	}
	return false
}
