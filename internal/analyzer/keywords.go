// Package analyzer implements the rule-based resume text analysis: document type
// classification, section extraction, skill matching and formatting scoring.
//
// Every component is a pure function over its input and the keyword tables it was
// built with, so a single Analyzer can be shared across goroutines.
package analyzer

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/jonathan/skillmatch/internal/schemas"
)

// DocumentType is the label produced by the classifier.
type DocumentType string

// Document type labels.
const (
	DocumentResume      DocumentType = "resume"
	DocumentMarksheet   DocumentType = "marksheet"
	DocumentCertificate DocumentType = "certificate"
	DocumentIDCard      DocumentType = "id_card"
	DocumentUnknown     DocumentType = "unknown"
)

// DocumentTypes lists the classifiable types in declaration order.
// Classification ties are resolved in favour of the earlier entry.
var DocumentTypes = []DocumentType{
	DocumentResume,
	DocumentMarksheet,
	DocumentCertificate,
	DocumentIDCard,
}

// Section names a logical resume section.
type Section string

// Section names.
const (
	SectionSummary    Section = "summary"
	SectionEducation  Section = "education"
	SectionExperience Section = "experience"
	SectionProjects   Section = "projects"
	SectionSkills     Section = "skills"
	SectionContact    Section = "contact"
)

// ContentSections are the sections extracted into a report, in report order.
var ContentSections = []Section{
	SectionSummary,
	SectionEducation,
	SectionExperience,
	SectionProjects,
	SectionSkills,
}

var allSections = append(append([]Section{}, ContentSections...), SectionContact)

//go:embed keywords.json
var defaultKeywordsJSON []byte

// Keywords holds the static keyword bags. It is read-only once passed to New.
type Keywords struct {
	DocumentTypes map[DocumentType][]string `json:"document_types"`
	Sections      map[Section][]string      `json:"sections"`
}

// DefaultKeywords returns the built-in keyword bags.
func DefaultKeywords() *Keywords {
	kw, err := ParseKeywords(defaultKeywordsJSON)
	if err != nil {
		panic(fmt.Sprintf("embedded keywords.json is invalid: %v", err))
	}
	return kw
}

// LoadKeywords reads keyword bags from a JSON file.
func LoadKeywords(path string) (*Keywords, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read keywords file %s: %w", path, err)
	}
	return ParseKeywords(data)
}

// ParseKeywords validates raw JSON against the keyword schema and decodes it.
func ParseKeywords(data []byte) (*Keywords, error) {
	if err := schemas.ValidateBytes(schemas.Keywords, data); err != nil {
		return nil, err
	}

	var kw Keywords
	if err := json.Unmarshal(data, &kw); err != nil {
		return nil, fmt.Errorf("failed to parse keywords JSON: %w", err)
	}
	kw.lowercase()

	if err := kw.Validate(); err != nil {
		return nil, err
	}
	return &kw, nil
}

// Validate checks that every document type and section has at least one keyword.
func (k *Keywords) Validate() error {
	if k == nil {
		return &InvalidArgumentError{Argument: "keywords", Message: "must not be nil"}
	}
	for _, dt := range DocumentTypes {
		if len(nonBlank(k.DocumentTypes[dt])) == 0 {
			return &InvalidArgumentError{Argument: "keywords", Message: fmt.Sprintf("document type %q has no keywords", dt)}
		}
	}
	for _, s := range allSections {
		if len(nonBlank(k.Sections[s])) == 0 {
			return &InvalidArgumentError{Argument: "keywords", Message: fmt.Sprintf("section %q has no keywords", s)}
		}
	}
	return nil
}

func (k *Keywords) lowercase() {
	for dt, words := range k.DocumentTypes {
		k.DocumentTypes[dt] = lowerAll(words)
	}
	for s, words := range k.Sections {
		k.Sections[s] = lowerAll(words)
	}
}

func lowerAll(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range nonBlank(words) {
		out = append(out, strings.ToLower(strings.TrimSpace(w)))
	}
	return out
}

func nonBlank(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if strings.TrimSpace(w) != "" {
			out = append(out, w)
		}
	}
	return out
}
