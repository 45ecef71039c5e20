// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"slices"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/skillmatch/internal/analyzer"
	"github.com/jonathan/skillmatch/internal/critique"
	"github.com/jonathan/skillmatch/internal/pipeline"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for the analyze command
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(truncate(line, boxWidth-4)))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// pad right-pads s to the box content width counting runes, so glyphs such
// as "✓" do not break the border.
func pad(s string) string {
	if n := boxWidth - 4 - utf8.RuneCountInString(s); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit-3]) + "..."
}

// writeList writes up to maxItemsToShow items with a bullet glyph.
func writeList(sb *strings.Builder, items []string, glyph string) {
	count := min(len(items), maxItemsToShow)
	for i := 0; i < count; i++ {
		fmt.Fprintf(sb, "  %s %s\n", glyph, items[i])
	}
	if len(items) > maxItemsToShow {
		fmt.Fprintf(sb, "  ... and %d more\n", len(items)-maxItemsToShow)
	}
}

// PrintReport outputs a human-readable summary of an analysis report.
func (p *Printer) PrintReport(report *pipeline.Report) {
	if report == nil {
		return
	}

	p.printClassification(report)
	if !report.IsResume {
		return
	}

	p.printContact(report)
	p.printScores(report)
	p.printSkills(report)

	if len(report.Recommendations) > 0 {
		var sb strings.Builder
		for _, rec := range report.Recommendations {
			fmt.Fprintf(&sb, "• %s\n", rec)
		}
		p.printBox("RECOMMENDATIONS", strings.TrimSuffix(sb.String(), "\n"))
	}

	p.PrintCritique(report.Critique)
	if report.AIError != "" {
		p.printBox("AI REVIEW UNAVAILABLE", report.AIError)
	}
}

func (p *Printer) printClassification(report *pipeline.Report) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Document type: %s\n", report.DocumentType)
	if report.ResumeID != nil {
		fmt.Fprintf(&sb, "Stored as:     %s\n", report.ResumeID)
	}

	labels := make([]analyzer.DocumentType, 0, len(report.Classification.Scores))
	for label := range report.Classification.Scores {
		labels = append(labels, label)
	}
	slices.Sort(labels)
	if len(labels) > 0 {
		sb.WriteString("\nKeyword scores:\n")
		for _, label := range labels {
			fmt.Fprintf(&sb, "  %-12s %.1f\n", label, report.Classification.Scores[label])
		}
	}

	if !report.IsResume {
		sb.WriteString("\nNot a resume; resume checks were skipped.")
	}
	p.printBox("DOCUMENT CLASSIFICATION", strings.TrimSuffix(sb.String(), "\n"))
}

func (p *Printer) printContact(report *pipeline.Report) {
	c := report.Contact
	fields := []struct{ label, value string }{
		{"Name", c.Name},
		{"Email", c.Email},
		{"Phone", c.Phone},
		{"LinkedIn", c.LinkedIn},
		{"GitHub", c.GitHub},
	}

	var sb strings.Builder
	for _, f := range fields {
		value := f.value
		if value == "" {
			value = "-"
		}
		fmt.Fprintf(&sb, "%-9s %s\n", f.label+":", value)
	}
	p.printBox("CONTACT", strings.TrimSuffix(sb.String(), "\n"))
}

func (p *Printer) printScores(report *pipeline.Report) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "ATS score:        %d/100\n", report.ATSScore)
	fmt.Fprintf(&sb, "Section score:    %d/100\n", report.SectionScore)
	if report.Formatting != nil {
		fmt.Fprintf(&sb, "Formatting score: %d/100\n", report.Formatting.Score)
	}
	if report.SkillMatch != nil && len(report.RequiredSkills) > 0 {
		fmt.Fprintf(&sb, "Skill match:      %.1f%%\n", report.SkillMatch.MatchScore)
	}

	sb.WriteString("\nSections:\n")
	for _, s := range report.FoundSections {
		fmt.Fprintf(&sb, "  ✓ %s\n", s)
	}
	for _, s := range report.MissingSections {
		fmt.Fprintf(&sb, "  ✗ %s\n", s)
	}

	p.printBox("SCORES", strings.TrimSuffix(sb.String(), "\n"))
}

func (p *Printer) printSkills(report *pipeline.Report) {
	if len(report.RequiredSkills) == 0 || report.SkillMatch == nil {
		return
	}

	var sb strings.Builder
	target := report.JobRole
	if target == "" {
		target = report.SkillSource
	}
	fmt.Fprintf(&sb, "Target: %s (%d skills)\n", target, len(report.RequiredSkills))
	if jp := report.JobPosting; jp != nil {
		if title := joinNonEmpty(" at ", jp.Title, jp.Company); title != "" {
			fmt.Fprintf(&sb, "Posting: %s\n", title)
		}
		if jp.URL != "" {
			fmt.Fprintf(&sb, "URL: %s\n", jp.URL)
		}
	}

	if len(report.SkillMatch.FoundSkills) > 0 {
		sb.WriteString("\nFound:\n")
		writeList(&sb, report.SkillMatch.FoundSkills, "✓")
	}
	if len(report.SkillMatch.MissingSkills) > 0 {
		sb.WriteString("\nMissing:\n")
		writeList(&sb, report.SkillMatch.MissingSkills, "✗")
	}

	p.printBox("SKILL MATCH", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCritique outputs the AI review scores and section headings.
func (p *Printer) PrintCritique(result *critique.Result) {
	if result == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Model:        %s\n", result.Model)
	fmt.Fprintf(&sb, "Resume score: %s\n", scoreText(result.ResumeScore))
	fmt.Fprintf(&sb, "ATS score:    %s\n", scoreText(result.ATSScore))

	if len(result.Sections) > 0 {
		headings := make([]string, 0, len(result.Sections))
		for heading := range result.Sections {
			headings = append(headings, heading)
		}
		sort.Strings(headings)
		sb.WriteString("\nSections:\n")
		writeList(&sb, headings, "•")
	}

	p.printBox("AI REVIEW", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintProgress writes one pipeline progress line.
//
//nolint:errcheck // writing to stderr; errors are not recoverable
func (p *Printer) PrintProgress(event pipeline.ProgressEvent) {
	fmt.Fprintf(p.out, "[%s] %s\n", event.Step, event.Message)
}

func scoreText(score *int) string {
	if score == nil {
		return "n/a"
	}
	return fmt.Sprintf("%d/100", *score)
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
