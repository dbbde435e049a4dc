package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/auth"
	"github.com/spec-kit/support-desk/internal/repository"
	apperrors "github.com/spec-kit/support-desk/pkg/util"
)

// AdminService authenticates dashboard operators.
type AdminService struct {
	admins repository.AdminRepository
	tokens *auth.TokenManager
	logger *zap.Logger
}

// LoginResult carries the issued token plus the operator identity.
type LoginResult struct {
	Token       string    `json:"token"`
	ExpiresAt   time.Time `json:"expires_at"`
	AdminID     string    `json:"admin_id"`
	Name        string    `json:"name"`
	AccessLevel string    `json:"access_level"`
}

// NewAdminService creates the service.
func NewAdminService(admins repository.AdminRepository, tokens *auth.TokenManager, logger *zap.Logger) *AdminService {
	return &AdminService{admins: admins, tokens: tokens, logger: logger}
}

// Login verifies credentials and issues a JWT. Unknown names and wrong
// passwords return the same error so the endpoint leaks nothing about
// which admins exist.
func (s *AdminService) Login(ctx context.Context, name, password string) (*LoginResult, error) {
	admin, err := s.admins.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, apperrors.MapError(err)
	}
	if !admin.IsActive {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	if err := auth.ComparePassword(admin.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}

	token, expiresAt, err := s.tokens.GenerateToken(admin.ID, admin.AccessLevel)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	s.logger.Info("admin logged in", zap.String("admin_id", admin.ID))
	return &LoginResult{
		Token:       token,
		ExpiresAt:   expiresAt,
		AdminID:     admin.ID,
		Name:        admin.Name,
		AccessLevel: admin.AccessLevel,
	}, nil
}
