package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/skillmatch/internal/schemas"
)

const resumeColumns = `id, name, email, phone, linkedin, github, portfolio, summary,
	target_role, target_category, education, experience, projects, skills,
	template, source, created_at`

// SkillInput is one skill to attach to a resume.
type SkillInput struct {
	Name             string
	Category         string
	ProficiencyScore *float64
}

// querier is the subset of pgxpool.Pool and pgx.Tx the resume writes use.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// CreateResume validates r against the resume_data schema and inserts it.
// ID and CreatedAt are assigned by the database and written back to r.
func (db *DB) CreateResume(ctx context.Context, r *Resume) (uuid.UUID, error) {
	return insertResume(ctx, db.pool, r)
}

// SaveResume inserts r, its skills and, when a is non-nil, its analysis in
// one transaction. Nothing is stored if any write fails.
func (db *DB) SaveResume(ctx context.Context, r *Resume, skills []SkillInput, a *ResumeAnalysis) (uuid.UUID, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	id, err := insertResume(ctx, tx, r)
	if err != nil {
		return uuid.Nil, err
	}
	if err := insertSkills(ctx, tx, id, skills); err != nil {
		return uuid.Nil, err
	}
	if a != nil {
		a.ResumeID = id
		if err := upsertAnalysis(ctx, tx, a); err != nil {
			return uuid.Nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("failed to commit resume: %w", err)
	}
	return id, nil
}

func insertResume(ctx context.Context, q querier, r *Resume) (uuid.UUID, error) {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	if err := schemas.ValidateDocument(schemas.ResumeData, r); err != nil {
		return uuid.Nil, err
	}

	err := q.QueryRow(ctx,
		`INSERT INTO resume_data (name, email, phone, linkedin, github, portfolio, summary,
			target_role, target_category, education, experience, projects, skills, template, source, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		 RETURNING id, created_at`,
		r.Name, r.Email, r.Phone, r.LinkedIn, r.GitHub, r.Portfolio, r.Summary,
		r.TargetRole, r.TargetCategory, r.Education, r.Experience, r.Projects, r.Skills,
		r.Template, r.Source, r.CreatedAt,
	).Scan(&r.ID, &r.CreatedAt)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create resume: %w", err)
	}
	return r.ID, nil
}

// GetResume returns a resume by ID, or nil if it does not exist.
func (db *DB) GetResume(ctx context.Context, id uuid.UUID) (*Resume, error) {
	row := db.pool.QueryRow(ctx, `SELECT `+resumeColumns+` FROM resume_data WHERE id = $1`, id)
	r, err := scanResume(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get resume: %w", err)
	}
	return r, nil
}

// GetResumeDetail returns a resume with its skills and analysis, or nil if
// the resume does not exist.
func (db *DB) GetResumeDetail(ctx context.Context, id uuid.UUID) (*ResumeDetail, error) {
	resume, err := db.GetResume(ctx, id)
	if err != nil || resume == nil {
		return nil, err
	}

	skills, err := db.ListResumeSkills(ctx, id)
	if err != nil {
		return nil, err
	}
	analysis, err := db.GetAnalysis(ctx, id)
	if err != nil {
		return nil, err
	}

	return &ResumeDetail{Resume: *resume, Skills: skills, Analysis: analysis}, nil
}

// ResumeFilters holds optional filters for listing resumes
type ResumeFilters struct {
	Source         string
	TargetCategory string
	Search         string
	Limit          int
	Offset         int
}

// ListResumes returns resumes newest first.
func (db *DB) ListResumes(ctx context.Context, filters ResumeFilters) ([]Resume, error) {
	if filters.Limit <= 0 {
		filters.Limit = 50
	}

	query := `SELECT ` + resumeColumns + ` FROM resume_data WHERE 1=1`
	args := []any{}
	argNum := 1

	if filters.Source != "" {
		query += fmt.Sprintf(" AND source = $%d", argNum)
		args = append(args, filters.Source)
		argNum++
	}
	if filters.TargetCategory != "" {
		query += fmt.Sprintf(" AND target_category = $%d", argNum)
		args = append(args, filters.TargetCategory)
		argNum++
	}
	if s := strings.TrimSpace(filters.Search); s != "" {
		query += fmt.Sprintf(" AND (name ILIKE $%d OR email ILIKE $%d OR target_role ILIKE $%d)", argNum, argNum, argNum)
		args = append(args, "%"+s+"%")
		argNum++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argNum, argNum+1)
	args = append(args, filters.Limit, filters.Offset)

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	defer rows.Close()

	resumes := []Resume{}
	for rows.Next() {
		r, err := scanResume(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan resume: %w", err)
		}
		resumes = append(resumes, *r)
	}
	return resumes, rows.Err()
}

// DeleteResume removes a resume along with its skills and analysis.
func (db *DB) DeleteResume(ctx context.Context, id uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM resume_data WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete resume: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrResumeNotFound, id)
	}
	return nil
}

// AddResumeSkills attaches skills to a resume in one transaction. A skill the
// resume already has is left unchanged.
func (db *DB) AddResumeSkills(ctx context.Context, resumeID uuid.UUID, skills []SkillInput) error {
	if len(skills) == 0 {
		return nil
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := insertSkills(ctx, tx, resumeID, skills); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit skills: %w", err)
	}
	return nil
}

func insertSkills(ctx context.Context, q querier, resumeID uuid.UUID, skills []SkillInput) error {
	if len(skills) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, s := range skills {
		batch.Queue(
			`INSERT INTO resume_skills (resume_id, skill_name, skill_category, proficiency_score)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (resume_id, skill_name) DO NOTHING`,
			resumeID, s.Name, s.Category, s.ProficiencyScore,
		)
	}
	if err := q.SendBatch(ctx, batch).Close(); err != nil {
		if isPgError(err, pgForeignKeyViolation) {
			return fmt.Errorf("%w: %s", ErrResumeNotFound, resumeID)
		}
		return fmt.Errorf("failed to insert skills: %w", err)
	}
	return nil
}

// ListResumeSkills returns the skills of one resume in insertion order.
func (db *DB) ListResumeSkills(ctx context.Context, resumeID uuid.UUID) ([]ResumeSkill, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, resume_id, skill_name, skill_category, proficiency_score, created_at
		 FROM resume_skills WHERE resume_id = $1 ORDER BY created_at, skill_name`,
		resumeID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list skills: %w", err)
	}
	defer rows.Close()

	skills := []ResumeSkill{}
	for rows.Next() {
		var s ResumeSkill
		if err := rows.Scan(&s.ID, &s.ResumeID, &s.SkillName, &s.SkillCategory, &s.ProficiencyScore, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan skill: %w", err)
		}
		skills = append(skills, s)
	}
	return skills, rows.Err()
}

// SaveAnalysis validates a against the resume_analysis schema and stores it
// as the analysis of its resume, replacing any earlier one.
func (db *DB) SaveAnalysis(ctx context.Context, a *ResumeAnalysis) error {
	return upsertAnalysis(ctx, db.pool, a)
}

func upsertAnalysis(ctx context.Context, q querier, a *ResumeAnalysis) error {
	if err := schemas.ValidateDocument(schemas.ResumeAnalysis, a); err != nil {
		return err
	}

	err := q.QueryRow(ctx,
		`INSERT INTO resume_analysis (resume_id, document_type, ats_score, keyword_match_score,
			format_score, section_score, ai_resume_score, ai_ats_score, missing_skills, recommendations)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (resume_id) DO UPDATE SET
			document_type = $2, ats_score = $3, keyword_match_score = $4, format_score = $5,
			section_score = $6, ai_resume_score = $7, ai_ats_score = $8,
			missing_skills = $9, recommendations = $10, created_at = NOW()
		 RETURNING id, created_at`,
		a.ResumeID, a.DocumentType, a.ATSScore, a.KeywordMatchScore,
		a.FormatScore, a.SectionScore, a.AIResumeScore, a.AIATSScore, a.MissingSkills, a.Recommendations,
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		if isPgError(err, pgForeignKeyViolation) {
			return fmt.Errorf("%w: %s", ErrResumeNotFound, a.ResumeID)
		}
		return fmt.Errorf("failed to save analysis: %w", err)
	}
	return nil
}

// GetAnalysis returns the analysis of a resume, or nil if there is none.
func (db *DB) GetAnalysis(ctx context.Context, resumeID uuid.UUID) (*ResumeAnalysis, error) {
	var a ResumeAnalysis
	err := db.pool.QueryRow(ctx,
		`SELECT id, resume_id, document_type, ats_score, keyword_match_score, format_score,
			section_score, ai_resume_score, ai_ats_score, missing_skills, recommendations, created_at
		 FROM resume_analysis WHERE resume_id = $1`,
		resumeID,
	).Scan(&a.ID, &a.ResumeID, &a.DocumentType, &a.ATSScore, &a.KeywordMatchScore, &a.FormatScore,
		&a.SectionScore, &a.AIResumeScore, &a.AIATSScore, &a.MissingSkills, &a.Recommendations, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}
	return &a, nil
}

func scanResume(row pgx.Row) (*Resume, error) {
	var r Resume
	err := row.Scan(&r.ID, &r.Name, &r.Email, &r.Phone, &r.LinkedIn, &r.GitHub, &r.Portfolio, &r.Summary,
		&r.TargetRole, &r.TargetCategory, &r.Education, &r.Experience, &r.Projects, &r.Skills,
		&r.Template, &r.Source, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}
