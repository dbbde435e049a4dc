package service

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/repository"
	apperrors "github.com/spec-kit/support-desk/pkg/util"
)

type fakeDropdownRepo struct {
	options []domain.DropdownOption
	nextID  int
}

var _ repository.DropdownRepository = (*fakeDropdownRepo)(nil)

func (f *fakeDropdownRepo) Create(_ context.Context, option *domain.DropdownOption) error {
	f.nextID++
	option.ID = "opt-" + strconv.Itoa(f.nextID)
	f.options = append(f.options, *option)
	return nil
}

func (f *fakeDropdownRepo) Update(_ context.Context, option *domain.DropdownOption) error {
	for i := range f.options {
		if f.options[i].ID == option.ID {
			f.options[i] = *option
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *fakeDropdownRepo) Deactivate(_ context.Context, id string) error {
	for i := range f.options {
		if f.options[i].ID == id {
			f.options[i].IsActive = false
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *fakeDropdownRepo) GetByID(_ context.Context, id string) (*domain.DropdownOption, error) {
	for i := range f.options {
		if f.options[i].ID == id {
			opt := f.options[i]
			return &opt, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeDropdownRepo) FindOption(_ context.Context, dropdownType domain.DropdownType, value string) (*domain.DropdownOption, error) {
	for i := range f.options {
		o := f.options[i]
		if o.DropdownType == dropdownType && o.Value == value && o.IsActive {
			return &o, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeDropdownRepo) ListByType(_ context.Context, dropdownType domain.DropdownType) ([]domain.DropdownOption, error) {
	var result []domain.DropdownOption
	for _, o := range f.options {
		if o.DropdownType == dropdownType && o.IsActive {
			result = append(result, o)
		}
	}
	return result, nil
}

func (f *fakeDropdownRepo) ListAll(_ context.Context) ([]domain.DropdownOption, error) {
	return f.options, nil
}

func newDropdownService(repo *fakeDropdownRepo) *DropdownService {
	taxonomySvc := NewTaxonomyService(repo, nil, 0, testLogger())
	return NewDropdownService(repo, taxonomySvc, testLogger())
}

func TestCreateOptionRequiresParentForChildTypes(t *testing.T) {
	repo := &fakeDropdownRepo{options: []domain.DropdownOption{
		{ID: "st-open", DropdownType: domain.DropdownStatus, Value: "Open", IsActive: true},
		{ID: "pr-high", DropdownType: domain.DropdownPriority, Value: "High", IsActive: true},
	}}
	svc := newDropdownService(repo)
	ctx := context.Background()

	// Child type without a parent.
	_, err := svc.Create(ctx, CreateOptionInput{DropdownType: "disposition", Value: "New"})
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != "VALIDATION_FAILED" {
		t.Fatalf("missing parent: expected VALIDATION_FAILED, got %v", err)
	}

	// Child type with a parent of the wrong type.
	parentID := "pr-high"
	_, err = svc.Create(ctx, CreateOptionInput{DropdownType: "disposition", Value: "New", ParentID: &parentID})
	if !errors.As(err, &domainErr) || domainErr.Code != "VALIDATION_FAILED" {
		t.Fatalf("wrong parent type: expected VALIDATION_FAILED, got %v", err)
	}

	// Correct parent.
	parentID = "st-open"
	option, err := svc.Create(ctx, CreateOptionInput{DropdownType: "disposition", Value: "New", ParentID: &parentID})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !option.IsActive || option.ID == "" {
		t.Fatalf("unexpected option %+v", option)
	}

	// Top-level type must not carry a parent.
	_, err = svc.Create(ctx, CreateOptionInput{DropdownType: "panel", Value: "Care", ParentID: &parentID})
	if !errors.As(err, &domainErr) || domainErr.Code != "VALIDATION_FAILED" {
		t.Fatalf("parent on top-level: expected VALIDATION_FAILED, got %v", err)
	}
}

func TestCreateOptionRejectsDuplicateAndUnknownType(t *testing.T) {
	repo := &fakeDropdownRepo{options: []domain.DropdownOption{
		{ID: "p1", DropdownType: domain.DropdownPanel, Value: "Care", IsActive: true},
	}}
	svc := newDropdownService(repo)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateOptionInput{DropdownType: "panel", Value: "Care"})
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != "CONFLICT" {
		t.Fatalf("duplicate: expected CONFLICT, got %v", err)
	}

	_, err = svc.Create(ctx, CreateOptionInput{DropdownType: "flavour", Value: "Mint"})
	if !errors.As(err, &domainErr) || domainErr.Code != "VALIDATION_FAILED" {
		t.Fatalf("unknown type: expected VALIDATION_FAILED, got %v", err)
	}
}

func TestDeactivateIsSoft(t *testing.T) {
	repo := &fakeDropdownRepo{options: []domain.DropdownOption{
		{ID: "p1", DropdownType: domain.DropdownPanel, Value: "Care", IsActive: true},
	}}
	svc := newDropdownService(repo)

	if err := svc.Deactivate(context.Background(), "p1"); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}
	if len(repo.options) != 1 {
		t.Fatal("option row must survive deactivation")
	}
	if repo.options[0].IsActive {
		t.Fatal("option should be inactive")
	}

	active, err := svc.ListByType(context.Background(), "panel")
	if err != nil {
		t.Fatalf("ListByType: %v", err)
	}
	if len(active) != 0 {
		t.Fatalf("active options = %d, want 0", len(active))
	}
}
