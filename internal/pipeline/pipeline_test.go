package pipeline

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/skillmatch/internal/analyzer"
	"github.com/jonathan/skillmatch/internal/db"
	"github.com/jonathan/skillmatch/internal/ingestion"
	"github.com/jonathan/skillmatch/internal/llm"
	"github.com/jonathan/skillmatch/internal/schemas"
)

const sampleResume = `JANE DOE
jane.doe@example.com | (555) 123-4567 | linkedin.com/in/janedoe

SUMMARY
Backend engineer focused on reliable distributed systems.

EXPERIENCE
Senior Engineer, Acme Corp (2019 - 2024)
- Built payment services in Go handling 5k requests per second
- Led migration to Kubernetes

EDUCATION
B.Sc. Computer Science, State University, 2019

PROJECTS
- Raft-based key value store written in Go

SKILLS
Go, Python, PostgreSQL, Docker, Kubernetes
`

type mockLLM struct {
	response string
	err      error
	prompts  []string
	mu       sync.Mutex
}

func (m *mockLLM) GenerateContent(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()
	return m.response, m.err
}

func (m *mockLLM) GetModel(llm.ModelTier) string { return "mock-model" }

func (m *mockLLM) Close() error { return nil }

type mockStore struct {
	resumes    []*db.Resume
	skills     []db.SkillInput
	analyses   []*db.ResumeAnalysis
	createErr  error
	analyzeErr error
}

// SaveResume records nothing when any write fails, like the transactional
// db.DB implementation.
func (m *mockStore) SaveResume(_ context.Context, r *db.Resume, skills []db.SkillInput, a *db.ResumeAnalysis) (uuid.UUID, error) {
	if m.createErr != nil {
		return uuid.Nil, m.createErr
	}
	if m.analyzeErr != nil {
		return uuid.Nil, m.analyzeErr
	}
	r.ID = uuid.New()
	a.ResumeID = r.ID
	m.resumes = append(m.resumes, r)
	m.skills = append(m.skills, skills...)
	m.analyses = append(m.analyses, a)
	return r.ID, nil
}

func newTestPipeline(t *testing.T, opts Options) *Pipeline {
	t.Helper()
	p, err := New(opts)
	require.NoError(t, err)
	return p
}

func TestRun_ExplicitSkills(t *testing.T) {
	p := newTestPipeline(t, Options{})

	report, err := p.Run(context.Background(), Request{
		ResumeText:     sampleResume,
		RequiredSkills: []string{"Go", "Kubernetes", "Terraform"},
	})
	require.NoError(t, err)

	assert.True(t, report.IsResume)
	assert.Equal(t, analyzer.DocumentResume, report.DocumentType)
	assert.Equal(t, SkillSourceExplicit, report.SkillSource)
	require.NotNil(t, report.SkillMatch)
	assert.Equal(t, []string{"Go", "Kubernetes"}, report.SkillMatch.FoundSkills)
	assert.Equal(t, []string{"Terraform"}, report.SkillMatch.MissingSkills)

	assert.Equal(t, 100, report.SectionScore)
	assert.Equal(t, analyzer.ContentSections, report.FoundSections)
	assert.Empty(t, report.MissingSections)
	assert.Equal(t, 87, report.ATSScore)
	assert.Equal(t, []string{"Highlight these skills if you have them: Terraform"}, report.Recommendations)

	assert.Equal(t, "JANE DOE", report.Contact.Name)
	assert.Equal(t, "jane.doe@example.com", report.Contact.Email)
	assert.Len(t, report.Sections[analyzer.SectionExperience], 1)
	assert.Nil(t, report.Critique)
	assert.Nil(t, report.ResumeID)
}

func TestRun_RoleSkills(t *testing.T) {
	p := newTestPipeline(t, Options{})

	report, err := p.Run(context.Background(), Request{ResumeText: sampleResume, JobRole: "backend developer"})
	require.NoError(t, err)

	assert.Equal(t, SkillSourceRole, report.SkillSource)
	assert.Equal(t, "Backend Developer", report.JobRole)
	assert.Equal(t, "Software Development", report.JobCategory)
	assert.Contains(t, report.RequiredSkills, "Go")
	require.NotNil(t, report.SkillMatch)
	assert.ElementsMatch(t, []string{"Go", "Python", "PostgreSQL", "Docker"}, report.SkillMatch.FoundSkills)
	assert.InDelta(t, 40.0, report.SkillMatch.MatchScore, 1e-9)
	assert.Equal(t, 76, report.ATSScore)
}

func TestRun_ExplicitSkillsOverrideRole(t *testing.T) {
	p := newTestPipeline(t, Options{})

	report, err := p.Run(context.Background(), Request{
		ResumeText:     sampleResume,
		JobRole:        "Backend Developer",
		RequiredSkills: []string{"Go"},
	})
	require.NoError(t, err)

	assert.Equal(t, SkillSourceExplicit, report.SkillSource)
	assert.Equal(t, []string{"Go"}, report.RequiredSkills)
	assert.Equal(t, "Software Development", report.JobCategory)
}

func TestRun_UnknownRoleFallsBackToJobDescription(t *testing.T) {
	p := newTestPipeline(t, Options{})

	report, err := p.Run(context.Background(), Request{
		ResumeText:     sampleResume,
		JobRole:        "Payments Wizard",
		JobDescription: "We need strong Go and Terraform skills.",
	})
	require.NoError(t, err)

	assert.Equal(t, "Payments Wizard", report.JobRole)
	assert.Empty(t, report.JobCategory)
	assert.Equal(t, SkillSourceJobDescription, report.SkillSource)
	assert.ElementsMatch(t, []string{"Go", "Terraform"}, report.RequiredSkills)
	require.NotNil(t, report.JobPosting)
	assert.Equal(t, ingestion.SourceText, report.JobPosting.Source)
}

func TestRun_BlankJobDescriptionIgnored(t *testing.T) {
	p := newTestPipeline(t, Options{})

	report, err := p.Run(context.Background(), Request{ResumeText: sampleResume, JobDescription: " \n\t\u00a0 "})
	require.NoError(t, err)

	assert.Nil(t, report.JobPosting)
	assert.Equal(t, SkillSourceNone, report.SkillSource)
}

func TestRun_NoSkills(t *testing.T) {
	p := newTestPipeline(t, Options{})

	report, err := p.Run(context.Background(), Request{ResumeText: sampleResume})
	require.NoError(t, err)

	assert.Equal(t, SkillSourceNone, report.SkillSource)
	assert.Empty(t, report.RequiredSkills)
	assert.Equal(t, 0.0, report.SkillMatch.MatchScore)
	assert.Equal(t, 100, report.ATSScore)
	assert.Empty(t, report.Recommendations)
}

func TestRun_JobURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body><nav>Menu</nav><main><h1>Platform Engineer</h1>
<ul><li>Kubernetes in production</li><li>Terraform</li></ul></main></body></html>`))
	}))
	defer server.Close()

	p := newTestPipeline(t, Options{})

	report, err := p.Run(context.Background(), Request{ResumeText: sampleResume, JobURL: server.URL})
	require.NoError(t, err)

	require.NotNil(t, report.JobPosting)
	assert.Equal(t, server.URL, report.JobPosting.URL)
	assert.Equal(t, SkillSourceJobDescription, report.SkillSource)
	assert.ElementsMatch(t, []string{"Kubernetes", "Terraform"}, report.RequiredSkills)
	assert.Equal(t, []string{"Terraform"}, report.SkillMatch.MissingSkills)
}

func TestRun_JobURLFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	p := newTestPipeline(t, Options{})

	_, err := p.Run(context.Background(), Request{ResumeText: sampleResume, JobURL: server.URL})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ingestion.ErrHTTPRequestFailed))
}

func TestRun_Errors(t *testing.T) {
	p := newTestPipeline(t, Options{})

	_, err := p.Run(context.Background(), Request{ResumeText: " \n "})
	assert.ErrorIs(t, err, ErrEmptyResume)

	_, err = p.Run(context.Background(), Request{ResumeText: sampleResume, RequiredSkills: []string{"Go", "  "}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, analyzer.ErrInvalidArgument))
}

func TestRun_NonResume(t *testing.T) {
	store := &mockStore{}
	p := newTestPipeline(t, Options{Store: store})

	report, err := p.Run(context.Background(), Request{
		ResumeText:     "Semester examination result\nGrade A, marks 450, CGPA 8.5",
		RequiredSkills: []string{"Go"},
		Persist:        true,
	})
	require.NoError(t, err)

	assert.False(t, report.IsResume)
	assert.Equal(t, analyzer.DocumentMarksheet, report.DocumentType)
	assert.Nil(t, report.SkillMatch)
	assert.Nil(t, report.Formatting)
	assert.Zero(t, report.ATSScore)
	require.Len(t, report.Recommendations, 1)
	assert.Contains(t, report.Recommendations[0], "marksheet")
	assert.Empty(t, store.resumes)
}

func TestNonResumeAdvice(t *testing.T) {
	tests := []struct {
		label analyzer.DocumentType
		want  string
	}{
		{analyzer.DocumentMarksheet, "looks like a marksheet rather"},
		{analyzer.DocumentCertificate, "looks like a certificate rather"},
		{analyzer.DocumentIDCard, "looks like an id card rather"},
		{analyzer.DocumentUnknown, "could not be recognized as a resume"},
	}
	for _, tt := range tests {
		t.Run(string(tt.label), func(t *testing.T) {
			assert.Contains(t, nonResumeAdvice(tt.label), tt.want)
		})
	}
}

func TestRun_Critique(t *testing.T) {
	client := &mockLLM{response: "## Resume Score\nResume Score: 82/100\n\n## ATS Optimization Assessment\nATS Score: 74/100"}
	p := newTestPipeline(t, Options{LLM: client})
	require.True(t, p.AIEnabled())

	report, err := p.Run(context.Background(), Request{
		ResumeText: sampleResume,
		JobRole:    "Backend Developer",
		UseAI:      true,
	})
	require.NoError(t, err)

	require.NotNil(t, report.Critique)
	assert.Equal(t, 82, *report.Critique.ResumeScore)
	assert.Equal(t, 74, *report.Critique.ATSScore)
	assert.Empty(t, report.AIError)
	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0], "targeting a role as: Backend Developer")
}

func TestRun_CritiqueFailureDegrades(t *testing.T) {
	tests := []struct {
		name    string
		client  llm.Client
		wantErr string
	}{
		{name: "client error", client: &mockLLM{err: errors.New("quota exceeded")}, wantErr: "quota exceeded"},
		{name: "no client", client: nil, wantErr: "not configured"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestPipeline(t, Options{LLM: tt.client})

			report, err := p.Run(context.Background(), Request{ResumeText: sampleResume, UseAI: true})
			require.NoError(t, err)
			assert.Nil(t, report.Critique)
			assert.Contains(t, report.AIError, tt.wantErr)
			assert.True(t, report.IsResume)
		})
	}
}

func TestRun_Persist(t *testing.T) {
	store := &mockStore{}
	client := &mockLLM{response: "Resume Score: 80/100"}
	p := newTestPipeline(t, Options{Store: store, LLM: client})

	report, err := p.Run(context.Background(), Request{
		ResumeText: sampleResume,
		JobRole:    "Backend Developer",
		UseAI:      true,
		Persist:    true,
	})
	require.NoError(t, err)
	require.NotNil(t, report.ResumeID)
	assert.Empty(t, report.StoreError)

	require.Len(t, store.resumes, 1)
	resume := store.resumes[0]
	assert.Equal(t, *report.ResumeID, resume.ID)
	assert.Equal(t, "JANE DOE", resume.Name)
	assert.Equal(t, "Backend Developer", resume.TargetRole)
	assert.Equal(t, "Software Development", resume.TargetCategory)
	assert.Equal(t, db.SourceUpload, resume.Source)
	assert.Len(t, resume.Experience, 1)
	assert.NoError(t, schemas.ValidateDocument(schemas.ResumeData, resume))

	assert.Len(t, store.skills, 4)
	for _, s := range store.skills {
		assert.Equal(t, SkillCategoryMatched, s.Category)
	}

	require.Len(t, store.analyses, 1)
	analysis := store.analyses[0]
	assert.Equal(t, resume.ID, analysis.ResumeID)
	assert.Equal(t, report.ATSScore, analysis.ATSScore)
	assert.Equal(t, 80, *analysis.AIResumeScore)
	assert.Nil(t, analysis.AIATSScore)
	assert.NoError(t, schemas.ValidateDocument(schemas.ResumeAnalysis, analysis))
}

func TestRun_PersistSkippedWithoutFlag(t *testing.T) {
	store := &mockStore{}
	p := newTestPipeline(t, Options{Store: store})

	report, err := p.Run(context.Background(), Request{ResumeText: sampleResume})
	require.NoError(t, err)
	assert.Nil(t, report.ResumeID)
	assert.Empty(t, store.resumes)
}

func TestRun_StoreFailureDegrades(t *testing.T) {
	store := &mockStore{createErr: errors.New("connection refused")}
	p := newTestPipeline(t, Options{Store: store})

	report, err := p.Run(context.Background(), Request{ResumeText: sampleResume, Persist: true})
	require.NoError(t, err)
	assert.Nil(t, report.ResumeID)
	assert.Contains(t, report.StoreError, "connection refused")
}

func TestRun_AnalysisWriteFailureStoresNothing(t *testing.T) {
	store := &mockStore{analyzeErr: errors.New("analysis insert failed")}
	p := newTestPipeline(t, Options{Store: store})

	report, err := p.Run(context.Background(), Request{ResumeText: sampleResume, JobRole: "Backend Developer", Persist: true})
	require.NoError(t, err)
	assert.Nil(t, report.ResumeID)
	assert.Contains(t, report.StoreError, "analysis insert failed")
	assert.Empty(t, store.resumes)
	assert.Empty(t, store.skills)
}

func TestRun_Progress(t *testing.T) {
	var mu sync.Mutex
	var steps []string
	p := newTestPipeline(t, Options{OnProgress: func(e ProgressEvent) {
		mu.Lock()
		steps = append(steps, e.Step)
		mu.Unlock()
	}})

	_, err := p.Run(context.Background(), Request{ResumeText: sampleResume, JobRole: "Backend Developer"})
	require.NoError(t, err)
	assert.Equal(t, []string{StepSkills, StepAnalysis}, steps)
}

func TestRun_RequestProgress(t *testing.T) {
	var global, local []string
	p := newTestPipeline(t, Options{OnProgress: func(e ProgressEvent) { global = append(global, e.Step) }})

	_, err := p.Run(context.Background(), Request{
		ResumeText:     sampleResume,
		RequiredSkills: []string{"Go"},
		OnProgress:     func(e ProgressEvent) { local = append(local, e.Step) },
	})
	require.NoError(t, err)
	assert.Equal(t, []string{StepSkills, StepAnalysis}, local)
	assert.Equal(t, local, global)
}
