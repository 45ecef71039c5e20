package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DashboardStats summarizes stored resumes and analyses for the admin dashboard.
type DashboardStats struct {
	TotalResumes           int              `json:"total_resumes"`
	TotalAnalyses          int              `json:"total_analyses"`
	ResumesToday           int              `json:"resumes_today"`
	AverageATSScore        float64          `json:"average_ats_score"`
	AverageKeywordScore    float64          `json:"average_keyword_score"`
	AverageFormatScore     float64          `json:"average_format_score"`
	AverageSectionScore    float64          `json:"average_section_score"`
	ResumesBySource        map[string]int   `json:"resumes_by_source"`
	ResumesByCategory      map[string]int   `json:"resumes_by_category"`
	AnalysesByDocumentType map[string]int   `json:"analyses_by_document_type"`
	TopSkills              []SkillCount     `json:"top_skills"`
	RecentAnalyses         []RecentAnalysis `json:"recent_analyses"`
	FeedbackCount          int              `json:"feedback_count"`
	AverageRating          float64          `json:"average_rating"`
}

// SkillCount is how many resumes list a skill.
type SkillCount struct {
	Skill string `json:"skill"`
	Count int    `json:"count"`
}

// RecentAnalysis is a dashboard row for one analyzed resume.
type RecentAnalysis struct {
	ResumeID     uuid.UUID `json:"resume_id"`
	Name         string    `json:"name"`
	TargetRole   string    `json:"target_role,omitempty"`
	DocumentType string    `json:"document_type"`
	ATSScore     int       `json:"ats_score"`
	CreatedAt    time.Time `json:"created_at"`
}

// GetDashboardStats computes totals, averages and breakdowns. recent bounds
// the number of recent analyses and top skills returned.
func (db *DB) GetDashboardStats(ctx context.Context, recent int) (*DashboardStats, error) {
	if recent <= 0 {
		recent = 10
	}

	stats := &DashboardStats{
		ResumesBySource:        map[string]int{},
		ResumesByCategory:      map[string]int{},
		AnalysesByDocumentType: map[string]int{},
		TopSkills:              []SkillCount{},
		RecentAnalyses:         []RecentAnalysis{},
	}

	err := db.pool.QueryRow(ctx,
		`SELECT
			(SELECT COUNT(*) FROM resume_data),
			(SELECT COUNT(*) FROM resume_data WHERE created_at >= date_trunc('day', NOW())),
			(SELECT COUNT(*) FROM resume_analysis),
			COALESCE((SELECT AVG(ats_score) FROM resume_analysis), 0),
			COALESCE((SELECT AVG(keyword_match_score) FROM resume_analysis), 0),
			COALESCE((SELECT AVG(format_score) FROM resume_analysis), 0),
			COALESCE((SELECT AVG(section_score) FROM resume_analysis), 0),
			(SELECT COUNT(*) FROM feedback),
			COALESCE((SELECT AVG(rating) FROM feedback), 0)`,
	).Scan(&stats.TotalResumes, &stats.ResumesToday, &stats.TotalAnalyses,
		&stats.AverageATSScore, &stats.AverageKeywordScore, &stats.AverageFormatScore, &stats.AverageSectionScore,
		&stats.FeedbackCount, &stats.AverageRating)
	if err != nil {
		return nil, fmt.Errorf("failed to compute totals: %w", err)
	}

	breakdowns := []struct {
		query string
		into  map[string]int
	}{
		{`SELECT source, COUNT(*) FROM resume_data GROUP BY source`, stats.ResumesBySource},
		{`SELECT COALESCE(NULLIF(target_category, ''), 'Uncategorized'), COUNT(*) FROM resume_data GROUP BY 1`, stats.ResumesByCategory},
		{`SELECT document_type, COUNT(*) FROM resume_analysis GROUP BY document_type`, stats.AnalysesByDocumentType},
	}
	for _, b := range breakdowns {
		if err := db.countBy(ctx, b.query, b.into); err != nil {
			return nil, err
		}
	}

	rows, err := db.pool.Query(ctx,
		`SELECT skill_name, COUNT(*) FROM resume_skills
		 GROUP BY skill_name ORDER BY COUNT(*) DESC, skill_name LIMIT $1`,
		recent,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to count skills: %w", err)
	}
	for rows.Next() {
		var sc SkillCount
		if err := rows.Scan(&sc.Skill, &sc.Count); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan skill count: %w", err)
		}
		stats.TopSkills = append(stats.TopSkills, sc)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to count skills: %w", err)
	}

	rows, err = db.pool.Query(ctx,
		`SELECT r.id, r.name, r.target_role, a.document_type, a.ats_score, a.created_at
		 FROM resume_analysis a JOIN resume_data r ON r.id = a.resume_id
		 ORDER BY a.created_at DESC LIMIT $1`,
		recent,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent analyses: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var ra RecentAnalysis
		if err := rows.Scan(&ra.ResumeID, &ra.Name, &ra.TargetRole, &ra.DocumentType, &ra.ATSScore, &ra.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan recent analysis: %w", err)
		}
		stats.RecentAnalyses = append(stats.RecentAnalyses, ra)
	}
	return stats, rows.Err()
}

func (db *DB) countBy(ctx context.Context, query string, into map[string]int) error {
	rows, err := db.pool.Query(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to compute breakdown: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return fmt.Errorf("failed to scan breakdown: %w", err)
		}
		into[key] = count
	}
	return rows.Err()
}
