package builder

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/skillmatch/internal/db"
	"github.com/jonathan/skillmatch/internal/types"
)

// Store persists built resumes. *db.DB implements it.
type Store interface {
	SaveResume(ctx context.Context, r *db.Resume, skills []db.SkillInput, a *db.ResumeAnalysis) (uuid.UUID, error)
}

var _ Store = (*db.DB)(nil)

// Save stores form as a builder resume with one skill row per categorized
// skill and returns the new resume ID.
func Save(ctx context.Context, store Store, form *types.ResumeForm, template string) (uuid.UUID, error) {
	layout, err := LookupLayout(template)
	if err != nil {
		return uuid.Nil, err
	}

	all := form.Skills.All()
	skills := make([]db.SkillInput, len(all))
	for i, s := range all {
		skills[i] = db.SkillInput{Name: s.Name, Category: s.Category}
	}
	return store.SaveResume(ctx, ResumeRecord(form, layout.Name), skills, nil)
}

// ResumeRecord maps a form to a resume_data row. Section fields hold one
// line of text per entry, laid out the way the Minimal layout prints them.
func ResumeRecord(form *types.ResumeForm, template string) *db.Resume {
	layout := layouts["minimal"]
	info := form.PersonalInfo

	r := &db.Resume{
		Name:           strings.TrimSpace(info.FullName),
		Email:          strings.TrimSpace(info.Email),
		Phone:          strings.TrimSpace(info.Phone),
		LinkedIn:       strings.TrimSpace(info.LinkedIn),
		GitHub:         strings.TrimSpace(info.GitHub),
		Portfolio:      strings.TrimSpace(info.Portfolio),
		Summary:        strings.TrimSpace(form.Summary),
		TargetRole:     strings.TrimSpace(form.TargetRole),
		TargetCategory: strings.TrimSpace(form.TargetCategory),
		Education:      db.StringArray{},
		Experience:     db.StringArray{},
		Projects:       db.StringArray{},
		Skills:         db.StringArray{},
		Template:       template,
		Source:         db.SourceBuilder,
		CreatedAt:      time.Now().UTC(),
	}
	for _, e := range form.Experiences {
		r.Experience = append(r.Experience, experienceEntry(e, layout).text())
	}
	for _, e := range form.Education {
		r.Education = append(r.Education, educationEntry(e, layout).text())
	}
	for _, e := range form.Projects {
		r.Projects = append(r.Projects, projectEntry(e, layout).text())
	}
	for _, s := range form.Skills.All() {
		r.Skills = append(r.Skills, s.Name)
	}
	return r
}

func (e entry) text() string {
	return joinLines(e.heading, e.body)
}
