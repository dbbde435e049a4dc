package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/support-desk/internal/domain"
)

// DropdownRepository persists the two-level option taxonomy. Options are
// soft-deactivated, never deleted, so values referenced by existing tickets
// keep resolving.
type DropdownRepository interface {
	Create(ctx context.Context, option *domain.DropdownOption) error
	Update(ctx context.Context, option *domain.DropdownOption) error
	Deactivate(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.DropdownOption, error)
	FindOption(ctx context.Context, dropdownType domain.DropdownType, value string) (*domain.DropdownOption, error)
	ListByType(ctx context.Context, dropdownType domain.DropdownType) ([]domain.DropdownOption, error)
	// ListAll returns every option, active and inactive, for snapshot builds.
	ListAll(ctx context.Context) ([]domain.DropdownOption, error)
}

type dropdownRepository struct {
	pool *pgxpool.Pool
}

// NewDropdownRepository instantiates the repository.
func NewDropdownRepository(pool *pgxpool.Pool) DropdownRepository {
	return &dropdownRepository{pool: pool}
}

func (r *dropdownRepository) Create(ctx context.Context, option *domain.DropdownOption) error {
	const query = `
        INSERT INTO dropdown_options (dropdown_type, value, parent_id, is_active, sort_order)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		option.DropdownType,
		option.Value,
		option.ParentID,
		option.IsActive,
		option.SortOrder,
	).Scan(&option.ID, &option.CreatedAt)
}

func (r *dropdownRepository) Update(ctx context.Context, option *domain.DropdownOption) error {
	const query = `
        UPDATE dropdown_options
        SET value=$1, parent_id=$2, is_active=$3, sort_order=$4
        WHERE id=$5`
	cmd, err := r.pool.Exec(ctx, query,
		option.Value,
		option.ParentID,
		option.IsActive,
		option.SortOrder,
		option.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *dropdownRepository) Deactivate(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE dropdown_options SET is_active=FALSE WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *dropdownRepository) GetByID(ctx context.Context, id string) (*domain.DropdownOption, error) {
	const query = `
        SELECT id, dropdown_type, value, parent_id, is_active, sort_order, created_at
        FROM dropdown_options WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *dropdownRepository) FindOption(ctx context.Context, dropdownType domain.DropdownType, value string) (*domain.DropdownOption, error) {
	const query = `
        SELECT id, dropdown_type, value, parent_id, is_active, sort_order, created_at
        FROM dropdown_options WHERE dropdown_type=$1 AND value=$2 AND is_active=TRUE`
	return r.fetchSingle(ctx, query, dropdownType, value)
}

func (r *dropdownRepository) ListByType(ctx context.Context, dropdownType domain.DropdownType) ([]domain.DropdownOption, error) {
	const query = `
        SELECT id, dropdown_type, value, parent_id, is_active, sort_order, created_at
        FROM dropdown_options WHERE dropdown_type=$1 AND is_active=TRUE
        ORDER BY sort_order, value`
	rows, err := r.pool.Query(ctx, query, dropdownType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOptions(rows)
}

func (r *dropdownRepository) ListAll(ctx context.Context) ([]domain.DropdownOption, error) {
	const query = `
        SELECT id, dropdown_type, value, parent_id, is_active, sort_order, created_at
        FROM dropdown_options
        ORDER BY dropdown_type, sort_order, value`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanOptions(rows)
}

func (r *dropdownRepository) fetchSingle(ctx context.Context, query string, args ...any) (*domain.DropdownOption, error) {
	var option domain.DropdownOption
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&option.ID,
		&option.DropdownType,
		&option.Value,
		&option.ParentID,
		&option.IsActive,
		&option.SortOrder,
		&option.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &option, nil
}

func scanOptions(rows pgx.Rows) ([]domain.DropdownOption, error) {
	var result []domain.DropdownOption
	for rows.Next() {
		var option domain.DropdownOption
		if err := rows.Scan(
			&option.ID,
			&option.DropdownType,
			&option.Value,
			&option.ParentID,
			&option.IsActive,
			&option.SortOrder,
			&option.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, option)
	}
	return result, rows.Err()
}
