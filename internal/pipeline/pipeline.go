// Package pipeline orchestrates a full resume analysis: job description
// resolution, required skill selection, the heuristic analyzer and the AI
// critique run side by side, then scoring and optional persistence.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/skillmatch/internal/analyzer"
	"github.com/jonathan/skillmatch/internal/critique"
	"github.com/jonathan/skillmatch/internal/ingestion"
	"github.com/jonathan/skillmatch/internal/llm"
	"github.com/jonathan/skillmatch/internal/roles"
)

// ErrEmptyResume is returned when there is no resume text to analyze.
var ErrEmptyResume = errors.New("resume text is empty")

// Progress step names.
const (
	StepJobDescription = "job_description"
	StepSkills         = "skills"
	StepAnalysis       = "analysis"
	StepCritique       = "critique"
	StepStore          = "store"
)

// ProgressEvent represents a progress update during a run
type ProgressEvent struct {
	Step    string `json:"step"`
	Message string `json:"message"`
	Content any    `json:"content,omitempty"`
}

// ProgressCallback is called when run progress occurs
type ProgressCallback func(event ProgressEvent)

// Options configures a Pipeline. Only Analyzer and Roles have defaults; a
// nil LLM disables critiques and a nil Store disables persistence.
type Options struct {
	Analyzer   *analyzer.Analyzer
	Roles      *roles.Catalog
	LLM        llm.Client
	Store      Store
	URLOptions *ingestion.URLOptions
	OnProgress ProgressCallback
	Verbose    bool
}

// Request is one analysis to run.
type Request struct {
	ResumeText string
	// RequiredSkills takes precedence over JobRole when non-empty.
	RequiredSkills []string
	JobRole        string
	JobDescription string
	// JobURL is fetched only when JobDescription is empty.
	JobURL string
	UseAI  bool
	// Persist stores resume documents when the pipeline has a Store.
	Persist bool
	// OnProgress receives this run's events in addition to Options.OnProgress.
	OnProgress ProgressCallback
}

// Pipeline runs analyses. It is safe for concurrent use.
type Pipeline struct {
	analyzer   *analyzer.Analyzer
	roles      *roles.Catalog
	llm        llm.Client
	store      Store
	urlOptions *ingestion.URLOptions
	onProgress ProgressCallback
	verbose    bool
}

// New builds a Pipeline from opts.
func New(opts Options) (*Pipeline, error) {
	a := opts.Analyzer
	if a == nil {
		var err error
		if a, err = analyzer.New(nil); err != nil {
			return nil, err
		}
	}
	catalog := opts.Roles
	if catalog == nil {
		catalog = roles.Default()
	}

	return &Pipeline{
		analyzer:   a,
		roles:      catalog,
		llm:        opts.LLM,
		store:      opts.Store,
		urlOptions: opts.URLOptions,
		onProgress: opts.OnProgress,
		verbose:    opts.Verbose,
	}, nil
}

// Roles returns the role catalog used to resolve required skills.
func (p *Pipeline) Roles() *roles.Catalog {
	return p.roles
}

// AIEnabled reports whether the pipeline can run critiques.
func (p *Pipeline) AIEnabled() bool {
	return p.llm != nil
}

// Run analyzes req.ResumeText. Heuristic failures (a blank required skill,
// an unreachable job URL) fail the run; critique and store failures are
// recorded on the report instead.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Report, error) {
	if strings.TrimSpace(req.ResumeText) == "" {
		return nil, ErrEmptyResume
	}

	report := &Report{GeneratedAt: time.Now().UTC()}

	jobText, err := p.resolveJobDescription(ctx, req, report)
	if err != nil {
		return nil, err
	}

	p.resolveSkills(req, jobText, report)
	p.emit(req, StepSkills, fmt.Sprintf("Using %d required skills (%s)", len(report.RequiredSkills), report.SkillSource), report.RequiredSkills)

	var (
		analysis *analyzer.Analysis
		review   *critique.Result
		aiErr    error
		mu       sync.Mutex
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		result, err := p.analyzer.Analyze(req.ResumeText, report.RequiredSkills)
		if err != nil {
			return fmt.Errorf("analysis failed: %w", err)
		}
		mu.Lock()
		analysis = result
		mu.Unlock()
		p.emit(req, StepAnalysis, fmt.Sprintf("Classified document as %s", result.Classification.Label), nil)
		return nil
	})

	if req.UseAI {
		g.Go(func() error {
			result, err := p.runCritique(gCtx, req, report.JobRole, jobText)
			mu.Lock()
			review, aiErr = result, err
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	p.aggregate(req.ResumeText, analysis, report)

	if review != nil {
		report.Critique = review
	}
	if aiErr != nil {
		report.AIError = aiErr.Error()
		log.Printf("[analyze] AI critique failed: %v", aiErr)
	}

	if req.Persist && p.store != nil && report.IsResume {
		id, err := persist(ctx, p.store, report)
		if err != nil {
			report.StoreError = err.Error()
			log.Printf("[analyze] failed to store analysis: %v", err)
		} else {
			report.ResumeID = &id
			p.emit(req, StepStore, fmt.Sprintf("Stored resume %s", id), nil)
		}
	}

	return report, nil
}

func (p *Pipeline) resolveJobDescription(ctx context.Context, req Request, report *Report) (string, error) {
	if text := strings.TrimSpace(req.JobDescription); text != "" {
		posting, err := ingestion.FromText(text)
		if err != nil {
			return "", fmt.Errorf("invalid job description: %w", err)
		}
		report.JobPosting = posting.Metadata
		return posting.Text, nil
	}
	if strings.TrimSpace(req.JobURL) == "" {
		return "", nil
	}

	p.emit(req, StepJobDescription, "Fetching job description from "+req.JobURL, nil)
	opts := p.urlOptions
	if opts == nil {
		opts = &ingestion.URLOptions{Verbose: p.verbose}
	}
	posting, err := ingestion.FromURL(ctx, req.JobURL, opts)
	if err != nil {
		return "", fmt.Errorf("failed to fetch job description: %w", err)
	}
	report.JobPosting = posting.Metadata
	return posting.Text, nil
}

// resolveSkills picks the required skills: an explicit list, else the
// catalog entry for the role, else catalog skills named in the job
// description. A role missing from the catalog is kept for the critique.
func (p *Pipeline) resolveSkills(req Request, jobText string, report *Report) {
	report.JobRole = strings.TrimSpace(req.JobRole)
	report.RequiredSkills = []string{}
	report.SkillSource = SkillSourceNone

	var role *roles.Role
	if report.JobRole != "" {
		if r, err := p.roles.Lookup(report.JobRole); err == nil {
			role = &r
			report.JobRole = r.Name
			report.JobCategory = r.Category
		} else if p.verbose {
			log.Printf("[analyze] role %q is not in the catalog", report.JobRole)
		}
	}

	switch {
	case len(req.RequiredSkills) > 0:
		report.RequiredSkills = append(report.RequiredSkills, req.RequiredSkills...)
		report.SkillSource = SkillSourceExplicit
	case role != nil:
		report.RequiredSkills = append(report.RequiredSkills, role.RequiredSkills...)
		report.SkillSource = SkillSourceRole
	case jobText != "":
		if found := p.roles.SkillsInText(jobText); len(found) > 0 {
			report.RequiredSkills = found
			report.SkillSource = SkillSourceJobDescription
		}
	}
}

func (p *Pipeline) runCritique(ctx context.Context, req Request, jobRole, jobText string) (*critique.Result, error) {
	if p.llm == nil {
		return nil, errors.New("AI critique is not configured")
	}
	p.emit(req, StepCritique, "Requesting AI critique", nil)
	return critique.Analyze(ctx, p.llm, critique.Request{
		ResumeText:     req.ResumeText,
		JobRole:        jobRole,
		JobDescription: jobText,
	})
}

func (p *Pipeline) aggregate(text string, analysis *analyzer.Analysis, report *Report) {
	report.Classification = analysis.Classification
	report.DocumentType = analysis.Classification.Label
	report.IsResume = analysis.IsResume
	report.Contact = analyzer.ExtractContact(text)

	if !analysis.IsResume {
		report.FoundSections = []analyzer.Section{}
		report.MissingSections = []analyzer.Section{}
		report.Recommendations = []string{nonResumeAdvice(report.DocumentType)}
		return
	}

	report.Sections = sectionTexts(analysis.Sections)
	report.FoundSections, report.MissingSections = sectionCoverage(analysis.Sections)
	report.SkillMatch = analysis.SkillMatch
	report.Formatting = analysis.Formatting
	report.SectionScore = SectionScore(analysis.Sections)
	report.ATSScore = ATSScore(analysis.SkillMatch.MatchScore, analysis.Formatting.Score, report.SectionScore, len(report.RequiredSkills) > 0)
	report.Recommendations = Recommendations(analysis.Formatting, report.MissingSections, analysis.SkillMatch.MissingSkills)
}

func nonResumeAdvice(dt analyzer.DocumentType) string {
	if dt == analyzer.DocumentUnknown {
		return "This document could not be recognized as a resume; upload a resume to get a full analysis"
	}
	label := strings.ReplaceAll(string(dt), "_", " ")
	article := "a"
	if strings.ContainsRune("aeiou", rune(label[0])) {
		article = "an"
	}
	return fmt.Sprintf("This document looks like %s %s rather than a resume; upload a resume to get a full analysis", article, label)
}

func (p *Pipeline) emit(req Request, step, message string, content any) {
	if p.verbose {
		log.Printf("[analyze] %s: %s", step, message)
	}
	event := ProgressEvent{Step: step, Message: message, Content: content}
	if p.onProgress != nil {
		p.onProgress(event)
	}
	if req.OnProgress != nil {
		req.OnProgress(event)
	}
}
