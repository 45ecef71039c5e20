package builder

import (
	"sort"
	"strings"
)

// Layout names.
const (
	TemplateModern       = "Modern"
	TemplateProfessional = "Professional"
	TemplateMinimal      = "Minimal"
	TemplateCreative     = "Creative"
)

// DefaultTemplate is used when a request names no layout.
const DefaultTemplate = TemplateModern

// Slots available in every layout file.
const (
	ExperienceSlots = 4
	EducationSlots  = 3
	ProjectSlots    = 3
)

// SectionLabels are the headings a layout prints.
type SectionLabels struct {
	Summary    string
	Experience string
	Education  string
	Projects   string
	Skills     string
}

// Layout fixes everything about a built resume except its content: the
// DOCX file carries fonts and colours, the rest is applied while filling
// placeholders.
type Layout struct {
	Name      string
	File      string
	Labels    SectionLabels
	Bullet    string
	Upper     bool
	Separator string
}

var layouts = map[string]Layout{
	"modern": {
		Name:      TemplateModern,
		File:      "modern.docx",
		Labels:    SectionLabels{"Profile", "Experience", "Education", "Projects", "Skills"},
		Bullet:    "‣",
		Upper:     true,
		Separator: " | ",
	},
	"professional": {
		Name:      TemplateProfessional,
		File:      "professional.docx",
		Labels:    SectionLabels{"Professional Summary", "Professional Experience", "Education", "Selected Projects", "Core Competencies"},
		Bullet:    "•",
		Upper:     true,
		Separator: " • ",
	},
	"minimal": {
		Name:      TemplateMinimal,
		File:      "minimal.docx",
		Labels:    SectionLabels{"Summary", "Experience", "Education", "Projects", "Skills"},
		Bullet:    "-",
		Separator: " · ",
	},
	"creative": {
		Name:      TemplateCreative,
		File:      "creative.docx",
		Labels:    SectionLabels{"About Me", "Where I've Worked", "Where I've Studied", "Things I've Built", "What I Bring"},
		Bullet:    "→",
		Separator: "  ✦  ",
	},
}

// LookupLayout finds a layout by name, ignoring case. A blank name selects
// DefaultTemplate.
func LookupLayout(name string) (Layout, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultTemplate
	}
	l, ok := layouts[strings.ToLower(name)]
	if !ok {
		return Layout{}, &Error{Message: name, Cause: ErrUnknownTemplate}
	}
	return l, nil
}

// Templates returns the layout names in alphabetical order.
func Templates() []string {
	names := make([]string, 0, len(layouts))
	for _, l := range layouts {
		names = append(names, l.Name)
	}
	sort.Strings(names)
	return names
}

// Title applies the layout casing to a section label.
func (l Layout) Title(label string) string {
	if l.Upper {
		return strings.ToUpper(label)
	}
	return label
}
