package types

import "strings"

// AnalyzeRequest is the JSON body of POST /analyze. Multipart uploads carry
// the same fields as form values, with the resume in a "file" part.
type AnalyzeRequest struct {
	Text           string   `json:"text"`
	Role           string   `json:"role,omitempty" validate:"max=200"`
	Skills         []string `json:"skills,omitempty" validate:"max=100,dive,max=100"`
	JobDescription string   `json:"job_description,omitempty" validate:"max=50000"`
	JobURL         string   `json:"job_url,omitempty" validate:"omitempty,url"`
	AI             bool     `json:"ai,omitempty"`
}

// Validate validates the AnalyzeRequest.
func (r *AnalyzeRequest) Validate() error {
	return Validator().Struct(r)
}

// BuildRequest is the body of POST /resumes/build: a resume form plus the
// layout to render it with.
type BuildRequest struct {
	ResumeForm
	Template string `json:"template,omitempty"`
}

// SplitSkills parses a comma separated skill list, dropping empty items.
func SplitSkills(value string) []string {
	var skills []string
	for _, part := range strings.Split(value, ",") {
		if skill := strings.TrimSpace(part); skill != "" {
			skills = append(skills, skill)
		}
	}
	return skills
}
