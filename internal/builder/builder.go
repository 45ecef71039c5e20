// Package builder produces DOCX resumes from a ResumeForm by filling the
// placeholders of an embedded layout file.
package builder

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"log"
	"strings"

	"github.com/lukasjarosch/go-docx"

	"github.com/jonathan/skillmatch/internal/types"
)

//go:embed templates/*.docx
var embedded embed.FS

// lineBreak separates the lines of one placeholder value. go-docx writes it
// as a <w:br/> so each bullet starts its own line.
const lineBreak = "\n"

// Builder fills layout files. It is safe for concurrent use.
type Builder struct {
	templates fs.FS
	verbose   bool
}

// New returns a Builder reading layout files from templates. A nil FS uses
// the layouts compiled into the binary.
func New(templates fs.FS, verbose bool) *Builder {
	if templates == nil {
		sub, err := fs.Sub(embedded, "templates")
		if err != nil {
			panic(fmt.Sprintf("builder: embedded templates: %v", err))
		}
		templates = sub
	}
	return &Builder{templates: templates, verbose: verbose}
}

// Build validates form and returns the filled DOCX document for the named
// layout.
func (b *Builder) Build(form *types.ResumeForm, template string) ([]byte, error) {
	if form == nil {
		return nil, &Error{Message: "resume form is required"}
	}
	layout, err := LookupLayout(template)
	if err != nil {
		return nil, err
	}
	if err := form.Validate(); err != nil {
		return nil, &Error{Message: "invalid resume form", Cause: err}
	}

	raw, err := fs.ReadFile(b.templates, layout.File)
	if err != nil {
		return nil, &Error{Message: fmt.Sprintf("failed to read layout %s", layout.File), Cause: err}
	}

	doc, err := docx.OpenBytes(raw)
	if err != nil {
		return nil, &Error{Message: fmt.Sprintf("failed to open layout %s", layout.File), Cause: err}
	}
	defer doc.Close()

	values := Placeholders(form, layout)
	if err := doc.ReplaceAll(values); err != nil {
		return nil, &Error{Message: "failed to fill layout", Cause: err}
	}

	var buf bytes.Buffer
	if err := doc.Write(&buf); err != nil {
		return nil, &Error{Message: "failed to write document", Cause: err}
	}

	if b.verbose {
		log.Printf("[builder] built %s resume for %s (%d bytes)", layout.Name, form.PersonalInfo.FullName, buf.Len())
	}
	return buf.Bytes(), nil
}

// Placeholders maps every placeholder of a layout file to its text for form.
// Unused slots map to the empty string so no placeholder survives.
func Placeholders(form *types.ResumeForm, layout Layout) docx.PlaceholderMap {
	p := docx.PlaceholderMap{}
	info := form.PersonalInfo

	name := clean(info.FullName)
	if layout.Upper {
		name = strings.ToUpper(name)
	}
	p["full_name"] = name
	p["contact_line"] = joinNonBlank(layout.Separator, info.Email, info.Phone, info.Location)
	p["links_line"] = joinNonBlank(layout.Separator, info.LinkedIn, info.GitHub, info.Portfolio)

	p["summary_title"] = sectionTitle(layout, layout.Labels.Summary, strings.TrimSpace(form.Summary) != "")
	p["summary"] = clean(form.Summary)

	experiences := make([]entry, len(form.Experiences))
	for i, e := range form.Experiences {
		experiences[i] = experienceEntry(e, layout)
	}
	p["experience_title"] = sectionTitle(layout, layout.Labels.Experience, len(experiences) > 0)
	for i, e := range fold(experiences, ExperienceSlots) {
		p[fmt.Sprintf("experience_%d_heading", i+1)] = e.heading
		p[fmt.Sprintf("experience_%d_body", i+1)] = e.body
	}

	education := make([]entry, len(form.Education))
	for i, e := range form.Education {
		education[i] = educationEntry(e, layout)
	}
	p["education_title"] = sectionTitle(layout, layout.Labels.Education, len(education) > 0)
	for i, e := range fold(education, EducationSlots) {
		p[fmt.Sprintf("education_%d", i+1)] = joinLines(e.heading, e.body)
	}

	projects := make([]entry, len(form.Projects))
	for i, e := range form.Projects {
		projects[i] = projectEntry(e, layout)
	}
	p["projects_title"] = sectionTitle(layout, layout.Labels.Projects, len(projects) > 0)
	for i, e := range fold(projects, ProjectSlots) {
		p[fmt.Sprintf("project_%d_heading", i+1)] = e.heading
		p[fmt.Sprintf("project_%d_body", i+1)] = e.body
	}

	skills := form.Skills
	p["skills_title"] = sectionTitle(layout, layout.Labels.Skills, len(skills.All()) > 0)
	p["skills_technical"] = skillLine("Technical", skills.Technical)
	p["skills_soft"] = skillLine("Soft Skills", skills.Soft)
	p["skills_languages"] = skillLine("Languages", skills.Languages)
	p["skills_tools"] = skillLine("Tools", skills.Tools)

	return p
}

type entry struct {
	heading string
	body    string
}

// fold lays entries out over a fixed number of slots. Entries beyond the
// last slot are appended to its body, heading first.
func fold(entries []entry, slots int) []entry {
	out := make([]entry, slots)
	for i, e := range entries {
		if i < slots {
			out[i] = e
			continue
		}
		last := &out[slots-1]
		last.body = joinLines(last.body, e.heading, e.body)
	}
	return out
}

func experienceEntry(e types.ExperienceEntry, layout Layout) entry {
	heading := joinNonBlank(", ", e.Position, e.Company)
	if dates := DateRange(e.StartDate, e.EndDate); dates != "" {
		heading += " (" + dates + ")"
	}
	lines := []string{clean(e.Description)}
	lines = append(lines, bullets(layout.Bullet, e.Responsibilities)...)
	lines = append(lines, bullets(layout.Bullet, e.Achievements)...)
	return entry{heading: heading, body: joinLines(lines...)}
}

func educationEntry(e types.EducationEntry, layout Layout) entry {
	degree := clean(e.Degree)
	if field := clean(e.Field); field != "" {
		degree += " in " + field
	}
	heading := joinNonBlank(", ", degree, e.School)
	if date := clean(e.GraduationDate); date != "" {
		heading += " (" + date + ")"
	}
	lines := []string{}
	if gpa := clean(e.GPA); gpa != "" {
		lines = append(lines, "GPA "+gpa)
	}
	lines = append(lines, bullets(layout.Bullet, e.Achievements)...)
	return entry{heading: heading, body: joinLines(lines...)}
}

func projectEntry(e types.ProjectEntry, layout Layout) entry {
	heading := clean(e.Name)
	if tech := joinNonBlank(", ", e.Technologies...); tech != "" {
		heading += " (" + tech + ")"
	}
	lines := []string{clean(e.Description)}
	lines = append(lines, bullets(layout.Bullet, e.Responsibilities)...)
	lines = append(lines, clean(e.Link))
	return entry{heading: heading, body: joinLines(lines...)}
}

func sectionTitle(layout Layout, label string, present bool) string {
	if !present {
		return ""
	}
	return layout.Title(label)
}

func skillLine(label string, skills []string) string {
	list := joinNonBlank(", ", skills...)
	if list == "" {
		return ""
	}
	return label + ": " + list
}

// DateRange formats a start and end date. A missing end date reads "Present".
func DateRange(start, end string) string {
	start, end = clean(start), clean(end)
	switch {
	case start == "" && end == "":
		return ""
	case end == "":
		return start + " - Present"
	case start == "":
		return end
	}
	return start + " - " + end
}

func bullets(glyph string, items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = clean(item); item != "" {
			out = append(out, glyph+" "+item)
		}
	}
	return out
}

func joinNonBlank(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = clean(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

// joinLines joins already cleaned lines with lineBreak, skipping blanks.
func joinLines(lines ...string) string {
	kept := make([]string, 0, len(lines))
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			kept = append(kept, l)
		}
	}
	return strings.Join(kept, lineBreak)
}

// braceReplacer keeps user text from reading as a placeholder. Line breaks
// become spaces because each value fills a single run.
var braceReplacer = strings.NewReplacer("{", "(", "}", ")", "\r\n", " ", "\n", " ", "\r", " ", "\t", " ")

func clean(s string) string {
	return strings.TrimSpace(braceReplacer.Replace(s))
}
