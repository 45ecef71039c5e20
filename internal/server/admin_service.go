package server

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/skillmatch/internal/config"
	"github.com/jonathan/skillmatch/internal/db"
	"github.com/jonathan/skillmatch/internal/types"
)

// AdminStore is the persistence AdminService needs. *db.DB implements it.
type AdminStore interface {
	CreateAdmin(ctx context.Context, email, passwordHash string) (uuid.UUID, error)
	GetAdminByEmail(ctx context.Context, email string) (*db.Admin, error)
	RecordAdminLogin(ctx context.Context, adminID uuid.UUID) error
	LogAdminAction(ctx context.Context, adminEmail, action string) error
}

var _ AdminStore = (*db.DB)(nil)

// AdminService provides business logic for dashboard administrators
type AdminService struct {
	store     AdminStore
	passwords *config.PasswordConfig
	jwt       *JWTService
}

// NewAdminService creates a new AdminService. jwt may be nil when the service
// is only used to create accounts.
func NewAdminService(store AdminStore, passwords *config.PasswordConfig, jwt *JWTService) *AdminService {
	return &AdminService{store: store, passwords: passwords, jwt: jwt}
}

// Create registers an administrator.
func (s *AdminService) Create(ctx context.Context, req *types.CreateAdminRequest) (uuid.UUID, error) {
	req.Email = normalizeEmail(req.Email)
	if err := req.Validate(); err != nil {
		return uuid.Nil, err
	}
	if err := s.passwords.CheckPassword(req.Password); err != nil {
		return uuid.Nil, &ErrValidation{Field: "password", Message: err.Error()}
	}

	hash, err := s.passwords.HashPassword(req.Password)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to hash password: %w", err)
	}

	id, err := s.store.CreateAdmin(ctx, req.Email, hash)
	if err != nil {
		return uuid.Nil, err
	}
	s.audit(ctx, req.Email, "account created")
	return id, nil
}

// Login verifies credentials and issues a session token. Unknown emails and
// wrong passwords fail identically.
func (s *AdminService) Login(ctx context.Context, req *types.AdminLoginRequest) (*types.LoginResponse, error) {
	req.Email = normalizeEmail(req.Email)
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if s.jwt == nil {
		return nil, fmt.Errorf("admin sessions are not configured")
	}

	admin, err := s.store.GetAdminByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to get admin by email: %w", err)
	}
	if admin == nil || !s.passwords.VerifyPassword(req.Password, admin.PasswordHash) {
		return nil, &ErrInvalidCredentials{}
	}

	token, expiresAt, err := s.jwt.GenerateToken(admin.ID, admin.Email)
	if err != nil {
		return nil, err
	}

	if err := s.store.RecordAdminLogin(ctx, admin.ID); err != nil {
		log.Printf("[admin] %v", err)
	}
	s.audit(ctx, admin.Email, "login")

	return &types.LoginResponse{Token: token, ExpiresAt: expiresAt, Email: admin.Email}, nil
}

// audit records an action in the admin log. Failures are logged, not returned.
func (s *AdminService) audit(ctx context.Context, email, action string) {
	if err := s.store.LogAdminAction(ctx, email, action); err != nil {
		log.Printf("[admin] failed to record %q for %s: %v", action, email, err)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
