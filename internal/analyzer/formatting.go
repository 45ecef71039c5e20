package analyzer

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Formatting deduction reasons, in evaluation order.
const (
	ReasonTooShort            = "too short"
	ReasonNoSectionHeaders    = "no section headers"
	ReasonNoBulletPoints      = "no bullet points"
	ReasonInconsistentSpacing = "inconsistent spacing"
	ReasonMissingContactInfo  = "missing contact info"
)

// MinimumLength is the character count below which text is "too short".
const MinimumLength = 300

type formattingRule struct {
	reason  string
	penalty int
	failed  func(text string, lines []string) bool
}

var formattingRules = []formattingRule{
	{ReasonTooShort, 30, func(text string, _ []string) bool {
		return utf8.RuneCountInString(text) < MinimumLength
	}},
	{ReasonNoSectionHeaders, 20, func(_ string, lines []string) bool {
		return !anyLine(lines, looksLikeHeader)
	}},
	{ReasonNoBulletPoints, 20, func(_ string, lines []string) bool {
		return !anyLine(lines, startsWithBullet)
	}},
	{ReasonInconsistentSpacing, 15, func(_ string, lines []string) bool {
		return hasDoubleBlank(lines)
	}},
	{ReasonMissingContactInfo, 15, func(text string, _ []string) bool {
		return !HasContactInfo(text)
	}},
}

var (
	titleCaseRe = regexp.MustCompile(`^[A-Z][a-z]+(\s[A-Z][a-z]+)*$`)
	emailRe     = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	phoneRe     = regexp.MustCompile(`(?:\+\d{1,3}[\s.\-]?)?(?:\(\d{3}\)|\d{3})[\s.\-]?\d{3}[\s.\-]?\d{4}|\+\d{1,3}[\s.\-]?\d{5}[\s.\-]?\d{5}`)
	linkedinRe  = regexp.MustCompile(`(?i)linkedin\.com/\S+`)
)

// bulletGlyphs are the line prefixes counted as bullet points.
var bulletGlyphs = []string{"•", "-", "*", "→", "‣", "·"}

// FormattingReport is a 0-100 quality score with the reasons for each deduction.
type FormattingReport struct {
	Score      int      `json:"score"`
	Deductions []string `json:"deductions"`
}

// ScoreFormatting applies the structural rules in fixed order. Each failed rule
// subtracts its penalty from 100 and records its reason. The score floors at 0.
func ScoreFormatting(text string) FormattingReport {
	lines := splitLines(text)
	report := FormattingReport{Score: 100, Deductions: []string{}}

	for _, rule := range formattingRules {
		if rule.failed(text, lines) {
			report.Score -= rule.penalty
			report.Deductions = append(report.Deductions, rule.reason)
		}
	}

	if report.Score < 0 {
		report.Score = 0
	}
	return report
}

// HasContactInfo reports whether text carries an email, a phone number or a
// LinkedIn profile URL.
func HasContactInfo(text string) bool {
	return emailRe.MatchString(text) || phoneRe.MatchString(text) || linkedinRe.MatchString(text)
}

// looksLikeHeader accepts fully upper-case lines and Title Cased word runs.
func looksLikeHeader(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	if strings.ToUpper(line) == line && strings.ToLower(line) != line {
		return true
	}
	return titleCaseRe.MatchString(line)
}

func startsWithBullet(line string) bool {
	line = strings.TrimSpace(line)
	for _, glyph := range bulletGlyphs {
		if strings.HasPrefix(line, glyph) {
			return true
		}
	}
	return false
}

func hasDoubleBlank(lines []string) bool {
	for i := 0; i+1 < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "" && strings.TrimSpace(lines[i+1]) == "" {
			return true
		}
	}
	return false
}

func anyLine(lines []string, pred func(string) bool) bool {
	for _, l := range lines {
		if pred(l) {
			return true
		}
	}
	return false
}
