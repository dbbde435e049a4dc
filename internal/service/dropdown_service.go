package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/repository"
	"github.com/spec-kit/support-desk/internal/taxonomy"
	apperrors "github.com/spec-kit/support-desk/pkg/util"
)

// DropdownService manages the option taxonomy behind every dropdown in
// the product. Options are soft-deactivated so historical tickets keep
// resolving; every mutation invalidates the cached snapshot.
type DropdownService struct {
	options  repository.DropdownRepository
	taxonomy *TaxonomyService
	logger   *zap.Logger
}

// CreateOptionInput describes a new dropdown option.
type CreateOptionInput struct {
	DropdownType string
	Value        string
	ParentID     *string
	SortOrder    int
}

// UpdateOptionInput describes an option edit.
type UpdateOptionInput struct {
	Value     string
	ParentID  *string
	IsActive  bool
	SortOrder int
}

// NewDropdownService creates the service.
func NewDropdownService(options repository.DropdownRepository, taxonomySvc *TaxonomyService, logger *zap.Logger) *DropdownService {
	return &DropdownService{options: options, taxonomy: taxonomySvc, logger: logger}
}

// ListByType returns the active options for one dropdown (public form and
// dashboard selects).
func (s *DropdownService) ListByType(ctx context.Context, dropdownType string) ([]domain.DropdownOption, error) {
	dt := domain.DropdownType(dropdownType)
	if !domain.KnownDropdownType(dt) {
		return nil, apperrors.NewValidationError("unknown dropdown type",
			map[string]any{"dropdown_type": dropdownType})
	}
	options, err := s.options.ListByType(ctx, dt)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return options, nil
}

// ListGrouped returns every option, inactive included, grouped by dropdown
// type for the admin settings page.
func (s *DropdownService) ListGrouped(ctx context.Context) (map[string][]domain.DropdownOption, error) {
	options, err := s.options.ListAll(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	grouped := make(map[string][]domain.DropdownOption)
	for _, option := range options {
		key := string(option.DropdownType)
		grouped[key] = append(grouped[key], option)
	}
	return grouped, nil
}

// Create adds a new option. Child types require a parent of the matching
// parent type; top-level types must not carry one.
func (s *DropdownService) Create(ctx context.Context, input CreateOptionInput) (*domain.DropdownOption, error) {
	dt := domain.DropdownType(input.DropdownType)
	value := strings.TrimSpace(input.Value)
	if !domain.KnownDropdownType(dt) {
		return nil, apperrors.NewValidationError("unknown dropdown type",
			map[string]any{"dropdown_type": input.DropdownType})
	}
	if value == "" {
		return nil, apperrors.NewValidationError("value required", nil)
	}
	if err := s.validateParent(ctx, dt, input.ParentID); err != nil {
		return nil, err
	}
	if existing, err := s.options.FindOption(ctx, dt, value); err == nil && existing != nil {
		return nil, apperrors.NewConflict("option already exists",
			map[string]any{"dropdown_type": input.DropdownType, "value": value})
	} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	option := &domain.DropdownOption{
		DropdownType: dt,
		Value:        value,
		ParentID:     input.ParentID,
		IsActive:     true,
		SortOrder:    input.SortOrder,
	}
	if err := s.options.Create(ctx, option); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.taxonomy.Invalidate(ctx)
	s.logger.Info("dropdown option created",
		zap.String("dropdown_type", input.DropdownType),
		zap.String("value", value))
	return option, nil
}

// Update edits an existing option in place.
func (s *DropdownService) Update(ctx context.Context, id string, input UpdateOptionInput) (*domain.DropdownOption, error) {
	option, err := s.options.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("dropdown option", map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}

	value := strings.TrimSpace(input.Value)
	if value == "" {
		return nil, apperrors.NewValidationError("value required", nil)
	}
	if err := s.validateParent(ctx, option.DropdownType, input.ParentID); err != nil {
		return nil, err
	}

	option.Value = value
	option.ParentID = input.ParentID
	option.IsActive = input.IsActive
	option.SortOrder = input.SortOrder
	if err := s.options.Update(ctx, option); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.taxonomy.Invalidate(ctx)
	return option, nil
}

// Deactivate soft-removes an option from the pick lists.
func (s *DropdownService) Deactivate(ctx context.Context, id string) error {
	if err := s.options.Deactivate(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("dropdown option", map[string]any{"id": id})
		}
		return apperrors.MapError(err)
	}
	s.taxonomy.Invalidate(ctx)
	return nil
}

func (s *DropdownService) validateParent(ctx context.Context, dt domain.DropdownType, parentID *string) error {
	parentType, needsParent := taxonomy.ParentTypeFor(dt)
	if !needsParent {
		if parentID != nil {
			return apperrors.NewValidationError("dropdown type does not take a parent",
				map[string]any{"dropdown_type": string(dt)})
		}
		return nil
	}
	if parentID == nil {
		return apperrors.NewValidationError("parent required",
			map[string]any{"dropdown_type": string(dt), "parent_type": string(parentType)})
	}

	parent, err := s.options.GetByID(ctx, *parentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("parent option", map[string]any{"parent_id": *parentID})
		}
		return apperrors.MapError(err)
	}
	if parent.DropdownType != parentType {
		return apperrors.NewValidationError("parent has wrong dropdown type",
			map[string]any{"expected": string(parentType), "got": string(parent.DropdownType)})
	}
	return nil
}
