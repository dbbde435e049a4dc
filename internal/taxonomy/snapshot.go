// Package taxonomy implements parent resolution over the two-level
// dropdown-option hierarchies (issue_type_l2 -> issue_type_l1 and
// disposition -> status). Resolution runs against an immutable snapshot of
// the option table so it stays pure and unit-testable.
package taxonomy

import (
	"github.com/spec-kit/support-desk/internal/domain"
)

// parentTypeFor fixes the child-to-parent type mapping. It is intentionally
// not configurable at runtime.
var parentTypeFor = map[domain.DropdownType]domain.DropdownType{
	domain.DropdownIssueTypeL2: domain.DropdownIssueTypeL1,
	domain.DropdownDisposition: domain.DropdownStatus,
}

// ParentTypeFor returns the expected parent dropdown type for a child type.
func ParentTypeFor(child domain.DropdownType) (domain.DropdownType, bool) {
	parent, ok := parentTypeFor[child]
	return parent, ok
}

type optionKey struct {
	dropdownType domain.DropdownType
	value        string
}

// Snapshot is a point-in-time index of dropdown options keyed by
// (dropdown_type, value) and by id.
type Snapshot struct {
	byTypeValue map[optionKey]domain.DropdownOption
	byID        map[string]domain.DropdownOption
}

// NewSnapshot indexes the given options. Inactive options are indexed too:
// lookups check IsActive explicitly so an inactive parent is reported as
// unresolvable rather than invisible.
func NewSnapshot(options []domain.DropdownOption) *Snapshot {
	s := &Snapshot{
		byTypeValue: make(map[optionKey]domain.DropdownOption, len(options)),
		byID:        make(map[string]domain.DropdownOption, len(options)),
	}
	for _, opt := range options {
		s.byTypeValue[optionKey{opt.DropdownType, opt.Value}] = opt
		s.byID[opt.ID] = opt
	}
	return s
}

// Option returns the option with the given type and value.
func (s *Snapshot) Option(dropdownType domain.DropdownType, value string) (domain.DropdownOption, bool) {
	opt, ok := s.byTypeValue[optionKey{dropdownType, value}]
	return opt, ok
}

// OptionByID returns the option with the given id.
func (s *Snapshot) OptionByID(id string) (domain.DropdownOption, bool) {
	opt, ok := s.byID[id]
	return opt, ok
}

// ResolveParent resolves the parent value for a child option. It returns
// ok=false when the child is missing or inactive, has no parent reference,
// or the parent is missing, inactive, or of the wrong dropdown type.
// Callers must treat that as "no parent", never invent one.
//
// Resolution is idempotent: the same (childType, childValue) pair always
// maps to the same parent value for a given snapshot.
func (s *Snapshot) ResolveParent(childType domain.DropdownType, childValue string) (string, bool) {
	wantParentType, ok := parentTypeFor[childType]
	if !ok {
		return "", false
	}
	child, ok := s.byTypeValue[optionKey{childType, childValue}]
	if !ok || !child.IsActive || child.ParentID == nil {
		return "", false
	}
	parent, ok := s.byID[*child.ParentID]
	if !ok || !parent.IsActive || parent.DropdownType != wantParentType {
		return "", false
	}
	return parent.Value, true
}
