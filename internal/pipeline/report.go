package pipeline

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/skillmatch/internal/analyzer"
	"github.com/jonathan/skillmatch/internal/critique"
	"github.com/jonathan/skillmatch/internal/ingestion"
)

// Where the required skills of a run came from.
const (
	SkillSourceExplicit       = "explicit"
	SkillSourceRole           = "role"
	SkillSourceJobDescription = "job_description"
	SkillSourceNone           = "none"
)

// sectionWeight is the section score contributed by each content section found.
const sectionWeight = 20

// maxMissingSkillHints bounds the missing skills named in recommendations.
const maxMissingSkillHints = 5

// Report is the full result of analyzing one document.
type Report struct {
	ResumeID        *uuid.UUID                    `json:"resume_id,omitempty"`
	Classification  analyzer.Classification       `json:"classification"`
	DocumentType    analyzer.DocumentType         `json:"document_type"`
	IsResume        bool                          `json:"is_resume"`
	Contact         analyzer.ContactInfo          `json:"contact"`
	Sections        map[analyzer.Section][]string `json:"sections,omitempty"`
	FoundSections   []analyzer.Section            `json:"found_sections"`
	MissingSections []analyzer.Section            `json:"missing_sections"`
	JobRole         string                        `json:"job_role,omitempty"`
	JobCategory     string                        `json:"job_category,omitempty"`
	JobPosting      *ingestion.Metadata           `json:"job_posting,omitempty"`
	SkillSource     string                        `json:"skill_source"`
	RequiredSkills  []string                      `json:"required_skills"`
	SkillMatch      *analyzer.SkillMatchResult    `json:"skill_match,omitempty"`
	Formatting      *analyzer.FormattingReport    `json:"formatting,omitempty"`
	SectionScore    int                           `json:"section_score"`
	ATSScore        int                           `json:"ats_score"`
	Recommendations []string                      `json:"recommendations"`
	Critique        *critique.Result              `json:"critique,omitempty"`
	AIError         string                        `json:"ai_error,omitempty"`
	StoreError      string                        `json:"store_error,omitempty"`
	GeneratedAt     time.Time                     `json:"generated_at"`
}

// SectionScore is 20 points per content section with at least one block.
func SectionScore(sections map[analyzer.Section][]analyzer.SectionBlock) int {
	score := 0
	for _, s := range analyzer.ContentSections {
		if len(sections[s]) > 0 {
			score += sectionWeight
		}
	}
	return score
}

// ATSScore weights keyword match, formatting and section coverage. Without
// required skills the keyword component is dropped and the other two split
// the weight evenly.
func ATSScore(keywordScore float64, formatScore, sectionScore int, hasRequiredSkills bool) int {
	if !hasRequiredSkills {
		return int(math.Round(0.5*float64(formatScore) + 0.5*float64(sectionScore)))
	}
	return int(math.Round(0.4*keywordScore + 0.3*float64(formatScore) + 0.3*float64(sectionScore)))
}

var deductionAdvice = map[string]string{
	analyzer.ReasonTooShort:            "Add more detail: the resume is too short to show your experience",
	analyzer.ReasonNoSectionHeaders:    "Use clear section headers such as EDUCATION, EXPERIENCE and SKILLS",
	analyzer.ReasonNoBulletPoints:      "Use bullet points to list responsibilities and achievements",
	analyzer.ReasonInconsistentSpacing: "Remove repeated blank lines so spacing is consistent",
	analyzer.ReasonMissingContactInfo:  "Add contact information such as an email address, phone number or LinkedIn profile",
}

// Recommendations turns formatting deductions, missing sections and missing
// skills into advice, in that order.
func Recommendations(formatting *analyzer.FormattingReport, missingSections []analyzer.Section, missingSkills []string) []string {
	recs := []string{}
	if formatting != nil {
		for _, d := range formatting.Deductions {
			if advice, ok := deductionAdvice[d]; ok {
				recs = append(recs, advice)
			}
		}
	}
	for _, s := range missingSections {
		recs = append(recs, fmt.Sprintf("Add a %s section", titleCase(string(s))))
	}
	if len(missingSkills) > 0 {
		hints := missingSkills
		if len(hints) > maxMissingSkillHints {
			hints = hints[:maxMissingSkillHints]
		}
		recs = append(recs, "Highlight these skills if you have them: "+strings.Join(hints, ", "))
	}
	return recs
}

func sectionCoverage(sections map[analyzer.Section][]analyzer.SectionBlock) (found, missing []analyzer.Section) {
	found, missing = []analyzer.Section{}, []analyzer.Section{}
	for _, s := range analyzer.ContentSections {
		if len(sections[s]) > 0 {
			found = append(found, s)
		} else {
			missing = append(missing, s)
		}
	}
	return found, missing
}

func sectionTexts(sections map[analyzer.Section][]analyzer.SectionBlock) map[analyzer.Section][]string {
	out := make(map[analyzer.Section][]string, len(sections))
	for s, blocks := range sections {
		if len(blocks) == 0 {
			continue
		}
		texts := make([]string, len(blocks))
		for i, b := range blocks {
			texts[i] = b.Text
		}
		out[s] = texts
	}
	return out
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
