// Package rendering provides functionality to render LaTeX resumes from templates.
package rendering

import (
	_ "embed"
	"os"
	"strings"
	"text/template"

	"github.com/jonathan/skillmatch/internal/builder"
	"github.com/jonathan/skillmatch/internal/types"
)

//go:embed resume.tex
var defaultTemplate string

// latexBullets maps layout bullet glyphs to LaTeX that pdflatex can typeset.
var latexBullets = map[string]string{
	"•": `\textbullet`,
	"-": `--`,
	"‣": `$\triangleright$`,
	"→": `$\rightarrow$`,
}

// TemplateData represents the data structure passed to the LaTeX template
type TemplateData struct {
	Name     string
	Contact  string
	Links    string
	Summary  string
	Bullet   string
	Labels   builder.SectionLabels
	Sections []Section
	Skills   []SkillGroup
}

// Section is one titled list of entries: experience, education or projects.
type Section struct {
	Title   string
	Entries []Entry
}

// Entry is one experience, degree or project
type Entry struct {
	Title    string
	Subtitle string
	Dates    string
	Details  string
	Bullets  []string
}

// SkillGroup is one labelled line of the skills section
type SkillGroup struct {
	Label  string
	Skills string
}

// RenderLaTeX renders form with the built-in LaTeX template, styled after
// the named builder layout.
func RenderLaTeX(form *types.ResumeForm, layoutName string) (string, error) {
	tmpl, err := newTemplate("", defaultTemplate)
	if err != nil {
		return "", err
	}
	return render(tmpl, "", form, layoutName)
}

// RenderLaTeXFile renders form with the template at templatePath.
func RenderLaTeXFile(form *types.ResumeForm, layoutName, templatePath string) (string, error) {
	tmpl, err := parseTemplate(templatePath)
	if err != nil {
		return "", err
	}
	return render(tmpl, templatePath, form, layoutName)
}

func render(tmpl *template.Template, templatePath string, form *types.ResumeForm, layoutName string) (string, error) {
	if form == nil {
		return "", &ExportError{Stage: StageInput, Cause: ErrMissingForm}
	}
	layout, err := builder.LookupLayout(layoutName)
	if err != nil {
		return "", err
	}
	if err := form.Validate(); err != nil {
		return "", &ExportError{Stage: StageInput, Cause: err}
	}

	data := buildTemplateData(form, layout)

	var result strings.Builder
	if err := tmpl.Execute(&result, data); err != nil {
		return "", &ExportError{Stage: StageExecute, Template: templatePath, Cause: err}
	}
	return result.String(), nil
}

// parseTemplate reads and parses a LaTeX template file.
func parseTemplate(templatePath string) (*template.Template, error) {
	content, err := os.ReadFile(templatePath)
	if err != nil {
		return nil, &ExportError{Stage: StageLoad, Template: templatePath, Cause: err}
	}
	return newTemplate(templatePath, string(content))
}

func newTemplate(templatePath, content string) (*template.Template, error) {
	tmpl, err := template.New("resume").Funcs(template.FuncMap{
		"escape": EscapeLaTeX,
	}).Parse(content)
	if err != nil {
		return nil, &ExportError{Stage: StageParse, Template: templatePath, Cause: err}
	}
	return tmpl, nil
}

// buildTemplateData escapes every form value and groups the entries into
// sections. Empty sections are left out.
func buildTemplateData(form *types.ResumeForm, layout builder.Layout) *TemplateData {
	info := form.PersonalInfo
	labels := layout.Labels

	name := strings.TrimSpace(info.FullName)
	if layout.Upper {
		name = strings.ToUpper(name)
	}

	bullet, ok := latexBullets[layout.Bullet]
	if !ok {
		bullet = `\textbullet`
	}

	data := &TemplateData{
		Name:    EscapeLaTeX(name),
		Contact: joinEscaped(layout.Separator, info.Email, info.Phone, info.Location),
		Links:   joinEscaped(layout.Separator, info.LinkedIn, info.GitHub, info.Portfolio),
		Summary: EscapeLaTeX(strings.TrimSpace(form.Summary)),
		Bullet:  bullet,
		Labels: builder.SectionLabels{
			Summary:    EscapeLaTeX(layout.Title(labels.Summary)),
			Experience: EscapeLaTeX(layout.Title(labels.Experience)),
			Education:  EscapeLaTeX(layout.Title(labels.Education)),
			Projects:   EscapeLaTeX(layout.Title(labels.Projects)),
			Skills:     EscapeLaTeX(layout.Title(labels.Skills)),
		},
	}

	if len(form.Experiences) > 0 {
		section := Section{Title: data.Labels.Experience}
		for _, e := range form.Experiences {
			section.Entries = append(section.Entries, Entry{
				Title:    EscapeLaTeX(strings.TrimSpace(e.Position)),
				Subtitle: EscapeLaTeX(strings.TrimSpace(e.Company)),
				Dates:    EscapeLaTeX(builder.DateRange(e.StartDate, e.EndDate)),
				Details:  EscapeLaTeX(strings.TrimSpace(e.Description)),
				Bullets:  escapeAll(e.Responsibilities, e.Achievements),
			})
		}
		data.Sections = append(data.Sections, section)
	}

	if len(form.Education) > 0 {
		section := Section{Title: data.Labels.Education}
		for _, e := range form.Education {
			degree := strings.TrimSpace(e.Degree)
			if field := strings.TrimSpace(e.Field); field != "" {
				degree += " in " + field
			}
			details := ""
			if gpa := strings.TrimSpace(e.GPA); gpa != "" {
				details = "GPA " + gpa
			}
			section.Entries = append(section.Entries, Entry{
				Title:    EscapeLaTeX(degree),
				Subtitle: EscapeLaTeX(strings.TrimSpace(e.School)),
				Dates:    EscapeLaTeX(strings.TrimSpace(e.GraduationDate)),
				Details:  EscapeLaTeX(details),
				Bullets:  escapeAll(e.Achievements),
			})
		}
		data.Sections = append(data.Sections, section)
	}

	if len(form.Projects) > 0 {
		section := Section{Title: data.Labels.Projects}
		for _, p := range form.Projects {
			section.Entries = append(section.Entries, Entry{
				Title:    EscapeLaTeX(strings.TrimSpace(p.Name)),
				Subtitle: joinEscaped(", ", p.Technologies...),
				Details:  joinEscaped(" ", p.Description, p.Link),
				Bullets:  escapeAll(p.Responsibilities),
			})
		}
		data.Sections = append(data.Sections, section)
	}

	groups := []struct {
		label  string
		skills []string
	}{
		{"Technical", form.Skills.Technical},
		{"Soft Skills", form.Skills.Soft},
		{"Languages", form.Skills.Languages},
		{"Tools", form.Skills.Tools},
	}
	for _, g := range groups {
		if list := joinEscaped(", ", g.skills...); list != "" {
			data.Skills = append(data.Skills, SkillGroup{Label: g.label, Skills: list})
		}
	}

	return data
}

func joinEscaped(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, EscapeLaTeX(p))
		}
	}
	return strings.Join(kept, EscapeLaTeX(sep))
}

func escapeAll(lists ...[]string) []string {
	var out []string
	for _, list := range lists {
		for _, item := range list {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, EscapeLaTeX(item))
			}
		}
	}
	return out
}
