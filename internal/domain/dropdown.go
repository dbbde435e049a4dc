package domain

import "time"

// DropdownType identifies which form field an option belongs to.
type DropdownType string

const (
	DropdownStatus      DropdownType = "status"
	DropdownPriority    DropdownType = "priority"
	DropdownPanel       DropdownType = "panel"
	DropdownIssueTypeL1 DropdownType = "issue_type_l1"
	DropdownIssueTypeL2 DropdownType = "issue_type_l2"
	DropdownDesignation DropdownType = "designation"
	DropdownDisposition DropdownType = "disposition"
)

// DropdownOption is one node in the two-level option taxonomy. Child-level
// options (issue_type_l2, disposition) reference their parent through
// ParentID. Options are soft-deactivated, never deleted, so values on
// existing tickets keep resolving.
type DropdownOption struct {
	ID           string
	DropdownType DropdownType
	Value        string
	ParentID     *string
	IsActive     bool
	SortOrder    int
	CreatedAt    time.Time
}

// KnownDropdownType reports whether the given type is one of the managed
// dropdown categories.
func KnownDropdownType(t DropdownType) bool {
	switch t {
	case DropdownStatus, DropdownPriority, DropdownPanel,
		DropdownIssueTypeL1, DropdownIssueTypeL2,
		DropdownDesignation, DropdownDisposition:
		return true
	}
	return false
}
