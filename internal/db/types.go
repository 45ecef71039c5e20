package db

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Resume sources.
const (
	SourceUpload  = "upload"
	SourceBuilder = "builder"
)

// Resume is a row of resume_data. Section fields hold one entry per block or
// form entry.
type Resume struct {
	ID             uuid.UUID   `json:"id"`
	Name           string      `json:"name"`
	Email          string      `json:"email"`
	Phone          string      `json:"phone"`
	LinkedIn       string      `json:"linkedin,omitempty"`
	GitHub         string      `json:"github,omitempty"`
	Portfolio      string      `json:"portfolio,omitempty"`
	Summary        string      `json:"summary,omitempty"`
	TargetRole     string      `json:"target_role,omitempty"`
	TargetCategory string      `json:"target_category,omitempty"`
	Education      StringArray `json:"education"`
	Experience     StringArray `json:"experience"`
	Projects       StringArray `json:"projects"`
	Skills         StringArray `json:"skills"`
	Template       string      `json:"template,omitempty"`
	Source         string      `json:"source"`
	CreatedAt      time.Time   `json:"created_at"`
}

// ResumeSkill is a row of resume_skills.
type ResumeSkill struct {
	ID               uuid.UUID `json:"id"`
	ResumeID         uuid.UUID `json:"resume_id"`
	SkillName        string    `json:"skill_name"`
	SkillCategory    string    `json:"skill_category"`
	ProficiencyScore *float64  `json:"proficiency_score,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// ResumeAnalysis is a row of resume_analysis.
type ResumeAnalysis struct {
	ID                uuid.UUID   `json:"id"`
	ResumeID          uuid.UUID   `json:"resume_id"`
	DocumentType      string      `json:"document_type"`
	ATSScore          int         `json:"ats_score"`
	KeywordMatchScore float64     `json:"keyword_match_score"`
	FormatScore       int         `json:"format_score"`
	SectionScore      int         `json:"section_score"`
	AIResumeScore     *int        `json:"ai_resume_score"`
	AIATSScore        *int        `json:"ai_ats_score"`
	MissingSkills     StringArray `json:"missing_skills"`
	Recommendations   StringArray `json:"recommendations"`
	CreatedAt         time.Time   `json:"created_at"`
}

// ResumeDetail is a resume with its skills and latest analysis.
type ResumeDetail struct {
	Resume   Resume          `json:"resume"`
	Skills   []ResumeSkill   `json:"skills"`
	Analysis *ResumeAnalysis `json:"analysis,omitempty"`
}

// Admin is a dashboard administrator account.
type Admin struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// AdminLog records one administrator action.
type AdminLog struct {
	ID         uuid.UUID `json:"id"`
	AdminEmail string    `json:"admin_email"`
	Action     string    `json:"action"`
	CreatedAt  time.Time `json:"created_at"`
}

// Feedback is one user feedback submission.
type Feedback struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name,omitempty"`
	Email     string    `json:"email,omitempty"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// StringArray handles JSONB string arrays
type StringArray []string

// Scan implements the Scanner interface for StringArray
func (a *StringArray) Scan(src interface{}) error {
	if src == nil {
		*a = []string{}
		return nil
	}
	var source []byte
	switch v := src.(type) {
	case []byte:
		source = v
	case string:
		source = []byte(v)
	default:
		return errors.New("StringArray: unsupported source type")
	}
	return json.Unmarshal(source, a)
}

// Value implements the Valuer interface for StringArray
func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(a))
}

// MarshalJSON encodes a nil array as [] rather than null.
func (a StringArray) MarshalJSON() ([]byte, error) {
	if a == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(a))
}
