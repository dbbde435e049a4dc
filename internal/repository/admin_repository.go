package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/support-desk/internal/domain"
)

// AdminRepository handles persistence for dashboard operators.
type AdminRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Admin, error)
	GetByName(ctx context.Context, name string) (*domain.Admin, error)
}

type adminRepository struct {
	pool *pgxpool.Pool
}

// NewAdminRepository instantiates the repository.
func NewAdminRepository(pool *pgxpool.Pool) AdminRepository {
	return &adminRepository{pool: pool}
}

func (r *adminRepository) GetByID(ctx context.Context, id string) (*domain.Admin, error) {
	const query = `
        SELECT id, name, password_hash, access_level, is_active, created_at
        FROM admins WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *adminRepository) GetByName(ctx context.Context, name string) (*domain.Admin, error) {
	const query = `
        SELECT id, name, password_hash, access_level, is_active, created_at
        FROM admins WHERE name=$1`
	return r.fetchSingle(ctx, query, name)
}

func (r *adminRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Admin, error) {
	var admin domain.Admin
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&admin.ID,
		&admin.Name,
		&admin.PasswordHash,
		&admin.AccessLevel,
		&admin.IsActive,
		&admin.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &admin, nil
}
