package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/support-desk/internal/domain"
)

// AssigneeRepository reads the assignee roster. Assignees are curated
// outside this service, so the repository is read-only.
type AssigneeRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Assignee, error)
	// ListActive returns active assignees ordered by created_at so callers
	// get a deterministic seniority order.
	ListActive(ctx context.Context) ([]domain.Assignee, error)
	ListAll(ctx context.Context) ([]domain.Assignee, error)
}

type assigneeRepository struct {
	pool *pgxpool.Pool
}

// NewAssigneeRepository instantiates the repository.
func NewAssigneeRepository(pool *pgxpool.Pool) AssigneeRepository {
	return &assigneeRepository{pool: pool}
}

func (r *assigneeRepository) GetByID(ctx context.Context, id string) (*domain.Assignee, error) {
	const query = `
        SELECT id, name, department, phone, is_active, created_at
        FROM assignees WHERE id=$1`
	var assignee domain.Assignee
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&assignee.ID,
		&assignee.Name,
		&assignee.Department,
		&assignee.Phone,
		&assignee.IsActive,
		&assignee.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &assignee, nil
}

func (r *assigneeRepository) ListActive(ctx context.Context) ([]domain.Assignee, error) {
	const query = `
        SELECT id, name, department, phone, is_active, created_at
        FROM assignees WHERE is_active = TRUE
        ORDER BY created_at`
	return r.list(ctx, query)
}

func (r *assigneeRepository) ListAll(ctx context.Context) ([]domain.Assignee, error) {
	const query = `
        SELECT id, name, department, phone, is_active, created_at
        FROM assignees
        ORDER BY created_at`
	return r.list(ctx, query)
}

func (r *assigneeRepository) list(ctx context.Context, query string) ([]domain.Assignee, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAssignees(rows)
}

func scanAssignees(rows pgx.Rows) ([]domain.Assignee, error) {
	var result []domain.Assignee
	for rows.Next() {
		var assignee domain.Assignee
		if err := rows.Scan(
			&assignee.ID,
			&assignee.Name,
			&assignee.Department,
			&assignee.Phone,
			&assignee.IsActive,
			&assignee.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, assignee)
	}
	return result, rows.Err()
}
