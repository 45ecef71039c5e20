package analyzer

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	githubRe      = regexp.MustCompile(`(?i)github\.com/[A-Za-z0-9\-_.]+`)
	linkedinURLRe = regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?linkedin\.com/[^\s,;|)]+`)
)

const maxNameWords = 5

// ContactInfo holds the contact details found in a document.
type ContactInfo struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty"`
}

// ExtractContact returns the first email, phone number, LinkedIn and GitHub
// link in text. Name is the first non-blank line when it reads like a name:
// a few words of letters with no contact details on it.
func ExtractContact(text string) ContactInfo {
	info := ContactInfo{
		Email:    emailRe.FindString(text),
		Phone:    strings.TrimSpace(phoneRe.FindString(text)),
		LinkedIn: strings.TrimRight(linkedinURLRe.FindString(text), "."),
		GitHub:   strings.TrimRight(githubRe.FindString(text), "."),
	}

	for _, line := range splitLines(text) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if looksLikeName(line) {
			info.Name = line
		}
		break
	}
	return info
}

func looksLikeName(line string) bool {
	words := strings.Fields(line)
	if len(words) == 0 || len(words) > maxNameWords {
		return false
	}
	for _, r := range line {
		if !unicode.IsLetter(r) && !unicode.IsSpace(r) && r != '.' && r != '\'' && r != '-' {
			return false
		}
	}
	return true
}
