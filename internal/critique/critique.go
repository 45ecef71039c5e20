// Package critique asks a generative model for a structured resume review and
// pulls the numeric scores out of its answer.
package critique

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/jonathan/skillmatch/internal/llm"
	"github.com/jonathan/skillmatch/internal/prompts"
)

// Request is the input to one review.
type Request struct {
	ResumeText     string
	JobRole        string
	JobDescription string
}

// Result is the model's review. Scores are nil when the answer did not
// contain them in the requested "XX/100" form.
type Result struct {
	Model       string            `json:"model"`
	Analysis    string            `json:"analysis"`
	Sections    map[string]string `json:"sections,omitempty"`
	ResumeScore *int              `json:"resume_score"`
	ATSScore    *int              `json:"ats_score"`
}

var (
	resumeScoreRe = regexp.MustCompile(`(?i)resume\s+score\s*[:\-]?\s*\**\s*(\d{1,3})\s*/\s*100`)
	atsScoreRe    = regexp.MustCompile(`(?i)ats\s+score\s*[:\-]?\s*\**\s*(\d{1,3})\s*/\s*100`)
	headingRe     = regexp.MustCompile(`(?m)^#{2,3}\s+(.+?)\s*#*\s*$`)
)

// Analyze runs a review of req.ResumeText with the standard model tier.
func Analyze(ctx context.Context, client llm.Client, req Request) (*Result, error) {
	if strings.TrimSpace(req.ResumeText) == "" {
		return nil, &Error{Message: "resume text is required"}
	}
	if client == nil {
		return nil, &Error{Message: "AI client is not configured"}
	}

	prompt, err := BuildPrompt(req)
	if err != nil {
		return nil, &Error{Message: "failed to build prompt", Cause: err}
	}

	answer, err := client.GenerateContent(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, &Error{Message: "failed to generate review", Cause: err}
	}
	answer = strings.TrimSpace(answer)

	return &Result{
		Model:       client.GetModel(llm.TierStandard),
		Analysis:    answer,
		Sections:    SplitSections(answer),
		ResumeScore: extractScore(resumeScoreRe, answer),
		ATSScore:    extractScore(atsScoreRe, answer),
	}, nil
}

// BuildPrompt assembles the review prompt, appending the role alignment and
// job match sections when the request names a role or a description.
func BuildPrompt(req Request) (string, error) {
	prompt, err := prompts.Render(prompts.CritiqueFile, "review", map[string]string{
		"ResumeText": guardInput(strings.TrimSpace(req.ResumeText), "resume"),
	})
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(prompt)

	if role := strings.TrimSpace(req.JobRole); role != "" {
		part, err := prompts.Render(prompts.CritiqueFile, "role-alignment", map[string]string{"JobRole": guardInput(role, "job role")})
		if err != nil {
			return "", err
		}
		sb.WriteString(part)
	}

	if desc := strings.TrimSpace(req.JobDescription); desc != "" {
		part, err := prompts.Render(prompts.CritiqueFile, "job-match", map[string]string{"JobDescription": guardInput(desc, "job description")})
		if err != nil {
			return "", err
		}
		sb.WriteString(part)
	}

	return sb.String(), nil
}

// ResumeScore returns the first "Resume Score: XX/100" value in text.
func ResumeScore(text string) *int {
	return extractScore(resumeScoreRe, text)
}

// ATSScore returns the first "ATS Score: XX/100" value in text.
func ATSScore(text string) *int {
	return extractScore(atsScoreRe, text)
}

// SplitSections maps each "## Heading" in text to the trimmed body below it.
// Text before the first heading is dropped.
func SplitSections(text string) map[string]string {
	locs := headingRe.FindAllStringSubmatchIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}

	sections := make(map[string]string, len(locs))
	for i, loc := range locs {
		title := text[loc[2]:loc[3]]
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		sections[title] = strings.TrimSpace(text[loc[1]:end])
	}
	return sections
}

func extractScore(re *regexp.Regexp, text string) *int {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	score, err := strconv.Atoi(m[1])
	if err != nil || score > 100 {
		return nil
	}
	return &score
}
