package pipeline

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/skillmatch/internal/analyzer"
	"github.com/jonathan/skillmatch/internal/db"
)

// SkillCategoryMatched is the category stored for skills found in an
// uploaded resume.
const SkillCategoryMatched = "matched"

// Store persists analyzed resumes. *db.DB implements it.
type Store interface {
	SaveResume(ctx context.Context, r *db.Resume, skills []db.SkillInput, a *db.ResumeAnalysis) (uuid.UUID, error)
}

var _ Store = (*db.DB)(nil)

// persist writes the resume record, its found skills and the analysis in
// one transaction.
func persist(ctx context.Context, store Store, report *Report) (uuid.UUID, error) {
	var skills []db.SkillInput
	if report.SkillMatch != nil {
		for _, s := range report.SkillMatch.FoundSkills {
			skills = append(skills, db.SkillInput{Name: s, Category: SkillCategoryMatched})
		}
	}
	return store.SaveResume(ctx, ResumeRecord(report), skills, AnalysisRecord(uuid.Nil, report))
}

// ResumeRecord maps a report to a resume_data row.
func ResumeRecord(report *Report) *db.Resume {
	r := &db.Resume{
		Name:           report.Contact.Name,
		Email:          report.Contact.Email,
		Phone:          report.Contact.Phone,
		LinkedIn:       report.Contact.LinkedIn,
		GitHub:         report.Contact.GitHub,
		Summary:        strings.Join(report.Sections[analyzer.SectionSummary], "\n\n"),
		TargetRole:     report.JobRole,
		TargetCategory: report.JobCategory,
		Education:      db.StringArray(report.Sections[analyzer.SectionEducation]),
		Experience:     db.StringArray(report.Sections[analyzer.SectionExperience]),
		Projects:       db.StringArray(report.Sections[analyzer.SectionProjects]),
		Skills:         db.StringArray{},
		Source:         db.SourceUpload,
		CreatedAt:      report.GeneratedAt,
	}
	if report.SkillMatch != nil {
		r.Skills = append(r.Skills, report.SkillMatch.FoundSkills...)
	}
	return r
}

// AnalysisRecord maps a report to a resume_analysis row.
func AnalysisRecord(resumeID uuid.UUID, report *Report) *db.ResumeAnalysis {
	a := &db.ResumeAnalysis{
		ResumeID:        resumeID,
		DocumentType:    string(report.DocumentType),
		ATSScore:        report.ATSScore,
		SectionScore:    report.SectionScore,
		MissingSkills:   db.StringArray{},
		Recommendations: db.StringArray(report.Recommendations),
	}
	if report.SkillMatch != nil {
		a.KeywordMatchScore = report.SkillMatch.MatchScore
		a.MissingSkills = append(a.MissingSkills, report.SkillMatch.MissingSkills...)
	}
	if report.Formatting != nil {
		a.FormatScore = report.Formatting.Score
	}
	if report.Critique != nil {
		a.AIResumeScore = report.Critique.ResumeScore
		a.AIATSScore = report.Critique.ATSScore
	}
	return a
}
