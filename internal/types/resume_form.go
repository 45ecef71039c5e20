package types

import "strings"

// Skill categories used by the builder and stored with each skill.
const (
	SkillTechnical = "technical"
	SkillSoft      = "soft"
	SkillLanguage  = "languages"
	SkillTool      = "tools"
)

// PersonalInfo is the header block of a built resume.
type PersonalInfo struct {
	FullName  string `json:"full_name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required"`
	Location  string `json:"location,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty" validate:"omitempty,url"`
	GitHub    string `json:"github,omitempty" validate:"omitempty,url"`
	Portfolio string `json:"portfolio,omitempty" validate:"omitempty,url"`
}

// EducationEntry is one degree or certification.
type EducationEntry struct {
	School         string   `json:"school" validate:"required"`
	Degree         string   `json:"degree" validate:"required"`
	Field          string   `json:"field,omitempty"`
	GraduationDate string   `json:"graduation_date,omitempty"`
	GPA            string   `json:"gpa,omitempty"`
	Achievements   []string `json:"achievements,omitempty"`
}

// ExperienceEntry is one position held.
type ExperienceEntry struct {
	Company          string   `json:"company" validate:"required"`
	Position         string   `json:"position" validate:"required"`
	StartDate        string   `json:"start_date,omitempty"`
	EndDate          string   `json:"end_date,omitempty"`
	Description      string   `json:"description,omitempty"`
	Responsibilities []string `json:"responsibilities,omitempty"`
	Achievements     []string `json:"achievements,omitempty"`
}

// ProjectEntry is one personal or professional project.
type ProjectEntry struct {
	Name             string   `json:"name" validate:"required"`
	Technologies     []string `json:"technologies,omitempty"`
	Description      string   `json:"description,omitempty"`
	Responsibilities []string `json:"responsibilities,omitempty"`
	Link             string   `json:"link,omitempty" validate:"omitempty,url"`
}

// SkillCategories groups skills the way the builder lays them out.
type SkillCategories struct {
	Technical []string `json:"technical,omitempty"`
	Soft      []string `json:"soft,omitempty"`
	Languages []string `json:"languages,omitempty"`
	Tools     []string `json:"tools,omitempty"`
}

// CategorizedSkill is one skill with the category it was entered under.
type CategorizedSkill struct {
	Name     string `json:"skill_name"`
	Category string `json:"skill_category"`
}

// All returns every non-blank skill with its category, in category order.
// A skill listed under two categories is kept once, under the first.
func (s SkillCategories) All() []CategorizedSkill {
	groups := []struct {
		category string
		skills   []string
	}{
		{SkillTechnical, s.Technical},
		{SkillSoft, s.Soft},
		{SkillLanguage, s.Languages},
		{SkillTool, s.Tools},
	}

	seen := make(map[string]bool)
	var out []CategorizedSkill
	for _, g := range groups {
		for _, skill := range g.skills {
			name := strings.TrimSpace(skill)
			if name == "" || seen[strings.ToLower(name)] {
				continue
			}
			seen[strings.ToLower(name)] = true
			out = append(out, CategorizedSkill{Name: name, Category: g.category})
		}
	}
	return out
}

// ResumeForm is everything the builder needs to produce a resume.
type ResumeForm struct {
	PersonalInfo   PersonalInfo      `json:"personal_info"`
	Summary        string            `json:"summary,omitempty"`
	Experiences    []ExperienceEntry `json:"experiences,omitempty" validate:"dive"`
	Education      []EducationEntry  `json:"education,omitempty" validate:"dive"`
	Projects       []ProjectEntry    `json:"projects,omitempty" validate:"dive"`
	Skills         SkillCategories   `json:"skills_categories"`
	TargetRole     string            `json:"target_role,omitempty"`
	TargetCategory string            `json:"target_category,omitempty"`
}

// Validate checks required fields, including those of nested entries.
func (f *ResumeForm) Validate() error {
	return Validator().Struct(f)
}
