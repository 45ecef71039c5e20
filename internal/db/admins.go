package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CreateAdmin registers an administrator with an already hashed password.
func (db *DB) CreateAdmin(ctx context.Context, email, passwordHash string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO admins (email, password_hash) VALUES ($1, $2) RETURNING id`,
		normalizeEmail(email), passwordHash,
	).Scan(&id)
	if err != nil {
		if isPgError(err, pgUniqueViolation) {
			return uuid.Nil, fmt.Errorf("%w: %s", ErrAdminExists, email)
		}
		return uuid.Nil, fmt.Errorf("failed to create admin: %w", err)
	}
	return id, nil
}

// GetAdminByEmail returns the admin with email, or nil if there is none.
func (db *DB) GetAdminByEmail(ctx context.Context, email string) (*Admin, error) {
	var a Admin
	err := db.pool.QueryRow(ctx,
		`SELECT id, email, password_hash, last_login_at, created_at FROM admins WHERE email = $1`,
		normalizeEmail(email),
	).Scan(&a.ID, &a.Email, &a.PasswordHash, &a.LastLoginAt, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}
	return &a, nil
}

// RecordAdminLogin stamps the admin's last login time.
func (db *DB) RecordAdminLogin(ctx context.Context, adminID uuid.UUID) error {
	_, err := db.pool.Exec(ctx, `UPDATE admins SET last_login_at = NOW() WHERE id = $1`, adminID)
	if err != nil {
		return fmt.Errorf("failed to record admin login: %w", err)
	}
	return nil
}

// LogAdminAction appends to the admin audit log.
func (db *DB) LogAdminAction(ctx context.Context, adminEmail, action string) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO admin_logs (admin_email, action) VALUES ($1, $2)`,
		normalizeEmail(adminEmail), action,
	)
	if err != nil {
		return fmt.Errorf("failed to log admin action: %w", err)
	}
	return nil
}

// ListAdminLogs returns the most recent audit entries first.
func (db *DB) ListAdminLogs(ctx context.Context, limit int) ([]AdminLog, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := db.pool.Query(ctx,
		`SELECT id, admin_email, action, created_at FROM admin_logs ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list admin logs: %w", err)
	}
	defer rows.Close()

	logs := []AdminLog{}
	for rows.Next() {
		var l AdminLog
		if err := rows.Scan(&l.ID, &l.AdminEmail, &l.Action, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan admin log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
