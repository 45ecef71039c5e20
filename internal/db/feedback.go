package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// CreateFeedback stores a feedback submission.
func (db *DB) CreateFeedback(ctx context.Context, f *Feedback) (uuid.UUID, error) {
	err := db.pool.QueryRow(ctx,
		`INSERT INTO feedback (name, email, rating, comment) VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		f.Name, f.Email, f.Rating, f.Comment,
	).Scan(&f.ID, &f.CreatedAt)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create feedback: %w", err)
	}
	return f.ID, nil
}

// ListFeedback returns the most recent feedback first.
func (db *DB) ListFeedback(ctx context.Context, limit int) ([]Feedback, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := db.pool.Query(ctx,
		`SELECT id, name, email, rating, comment, created_at FROM feedback ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	defer rows.Close()

	items := []Feedback{}
	for rows.Next() {
		var f Feedback
		if err := rows.Scan(&f.ID, &f.Name, &f.Email, &f.Rating, &f.Comment, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan feedback: %w", err)
		}
		items = append(items, f)
	}
	return items, rows.Err()
}
