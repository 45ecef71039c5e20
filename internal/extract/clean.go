package extract

import (
	"regexp"
	"strings"
)

var (
	innerSpaceRe   = regexp.MustCompile(`[ \t\f\v\x{00A0}]+`)
	blankRunRe     = regexp.MustCompile(`\n\n\n+`)
	bulletPrefixes = []string{"- ", "* ", "• ", "· ", "‣ ", "→ "}
)

// CleanText normalizes extracted text while keeping its line structure.
// Line endings become LF, invalid UTF-8 is replaced, runs of spaces inside a
// line collapse to one, and three or more blank lines collapse to one blank line.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ToValidUTF8(content, "�")
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		cleaned = append(cleaned, cleanLine(line))
	}

	result := strings.Join(cleaned, "\n")
	result = blankRunRe.ReplaceAllString(result, "\n\n")
	return strings.TrimSpace(result)
}

// cleanLine trims trailing whitespace and collapses inner spacing. Indentation
// before a bullet is kept so nested lists survive.
func cleanLine(line string) string {
	line = strings.TrimRight(line, " \t\u00a0")
	if strings.TrimSpace(line) == "" {
		return ""
	}

	trimmed := strings.TrimLeft(line, " \t\u00a0")
	indent := len(line) - len(trimmed)
	body := innerSpaceRe.ReplaceAllString(trimmed, " ")

	if indent > 0 && isBulletLine(trimmed) {
		return strings.Repeat(" ", indent) + body
	}
	return body
}

func isBulletLine(line string) bool {
	for _, prefix := range bulletPrefixes {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}
