package dto

import (
	"time"

	"github.com/spec-kit/support-desk/internal/domain"
)

// DropdownOptionResponse is the wire form of one option.
type DropdownOptionResponse struct {
	ID           string    `json:"id"`
	DropdownType string    `json:"dropdown_type"`
	Value        string    `json:"value"`
	ParentID     *string   `json:"parent_id,omitempty"`
	IsActive     bool      `json:"is_active"`
	SortOrder    int       `json:"sort_order"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreateDropdownOptionRequest adds an option.
type CreateDropdownOptionRequest struct {
	DropdownType string  `json:"dropdown_type"`
	Value        string  `json:"value"`
	ParentID     *string `json:"parent_id,omitempty"`
	SortOrder    int     `json:"sort_order"`
}

// UpdateDropdownOptionRequest edits an option.
type UpdateDropdownOptionRequest struct {
	Value     string  `json:"value"`
	ParentID  *string `json:"parent_id,omitempty"`
	IsActive  bool    `json:"is_active"`
	SortOrder int     `json:"sort_order"`
}

// OptionFromDomain maps an option to its wire form.
func OptionFromDomain(option *domain.DropdownOption) DropdownOptionResponse {
	return DropdownOptionResponse{
		ID:           option.ID,
		DropdownType: string(option.DropdownType),
		Value:        option.Value,
		ParentID:     option.ParentID,
		IsActive:     option.IsActive,
		SortOrder:    option.SortOrder,
		CreatedAt:    option.CreatedAt,
	}
}

// OptionsFromDomain maps a slice of options.
func OptionsFromDomain(options []domain.DropdownOption) []DropdownOptionResponse {
	result := make([]DropdownOptionResponse, 0, len(options))
	for i := range options {
		result = append(result, OptionFromDomain(&options[i]))
	}
	return result
}
