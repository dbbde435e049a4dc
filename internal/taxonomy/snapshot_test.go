package taxonomy

import (
	"testing"

	"github.com/spec-kit/support-desk/internal/domain"
)

func strPtr(s string) *string { return &s }

func testOptions() []domain.DropdownOption {
	return []domain.DropdownOption{
		{ID: "st-open", DropdownType: domain.DropdownStatus, Value: "Open", IsActive: true},
		{ID: "st-ongoing", DropdownType: domain.DropdownStatus, Value: "Ongoing", IsActive: true},
		{ID: "st-closed", DropdownType: domain.DropdownStatus, Value: "Closed", IsActive: true},
		{ID: "st-retired", DropdownType: domain.DropdownStatus, Value: "Retired", IsActive: false},

		{ID: "di-new", DropdownType: domain.DropdownDisposition, Value: "New", ParentID: strPtr("st-open"), IsActive: true},
		{ID: "di-progress", DropdownType: domain.DropdownDisposition, Value: "In Progress", ParentID: strPtr("st-ongoing"), IsActive: true},
		{ID: "di-resolved", DropdownType: domain.DropdownDisposition, Value: "Resolved", ParentID: strPtr("st-closed"), IsActive: true},
		{ID: "di-orphan", DropdownType: domain.DropdownDisposition, Value: "Orphan", IsActive: true},
		{ID: "di-dead-parent", DropdownType: domain.DropdownDisposition, Value: "Dead Parent", ParentID: strPtr("st-retired"), IsActive: true},
		{ID: "di-wrong-parent", DropdownType: domain.DropdownDisposition, Value: "Wrong Parent", ParentID: strPtr("l1-tech"), IsActive: true},
		{ID: "di-inactive", DropdownType: domain.DropdownDisposition, Value: "Shelved", ParentID: strPtr("st-closed"), IsActive: false},

		{ID: "l1-tech", DropdownType: domain.DropdownIssueTypeL1, Value: "Tech", IsActive: true},
		{ID: "l2-login", DropdownType: domain.DropdownIssueTypeL2, Value: "Login Failure", ParentID: strPtr("l1-tech"), IsActive: true},
		{ID: "l2-missing-parent", DropdownType: domain.DropdownIssueTypeL2, Value: "Ghost", ParentID: strPtr("nope"), IsActive: true},
	}
}

func TestResolveParent(t *testing.T) {
	snap := NewSnapshot(testOptions())

	tests := []struct {
		name       string
		childType  domain.DropdownType
		childValue string
		want       string
		wantOK     bool
	}{
		{name: "disposition to status", childType: domain.DropdownDisposition, childValue: "New", want: "Open", wantOK: true},
		{name: "disposition to ongoing", childType: domain.DropdownDisposition, childValue: "In Progress", want: "Ongoing", wantOK: true},
		{name: "disposition to closed", childType: domain.DropdownDisposition, childValue: "Resolved", want: "Closed", wantOK: true},
		{name: "l2 to l1", childType: domain.DropdownIssueTypeL2, childValue: "Login Failure", want: "Tech", wantOK: true},
		{name: "unknown child value", childType: domain.DropdownDisposition, childValue: "Nope", wantOK: false},
		{name: "child without parent", childType: domain.DropdownDisposition, childValue: "Orphan", wantOK: false},
		{name: "inactive parent", childType: domain.DropdownDisposition, childValue: "Dead Parent", wantOK: false},
		{name: "parent of wrong type", childType: domain.DropdownDisposition, childValue: "Wrong Parent", wantOK: false},
		{name: "inactive child", childType: domain.DropdownDisposition, childValue: "Shelved", wantOK: false},
		{name: "dangling parent id", childType: domain.DropdownIssueTypeL2, childValue: "Ghost", wantOK: false},
		{name: "non-child type", childType: domain.DropdownPanel, childValue: "Goal App", wantOK: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := snap.ResolveParent(tc.childType, tc.childValue)
			if ok != tc.wantOK {
				t.Fatalf("ResolveParent(%q, %q) ok = %v, want %v", tc.childType, tc.childValue, ok, tc.wantOK)
			}
			if got != tc.want {
				t.Fatalf("ResolveParent(%q, %q) = %q, want %q", tc.childType, tc.childValue, got, tc.want)
			}
		})
	}
}

func TestResolveParentIdempotent(t *testing.T) {
	snap := NewSnapshot(testOptions())

	first, ok1 := snap.ResolveParent(domain.DropdownDisposition, "Resolved")
	second, ok2 := snap.ResolveParent(domain.DropdownDisposition, "Resolved")
	if !ok1 || !ok2 || first != second {
		t.Fatalf("resolution not stable: (%q,%v) then (%q,%v)", first, ok1, second, ok2)
	}
}

func TestParentTypeFor(t *testing.T) {
	if parent, ok := ParentTypeFor(domain.DropdownIssueTypeL2); !ok || parent != domain.DropdownIssueTypeL1 {
		t.Fatalf("ParentTypeFor(issue_type_l2) = %q, %v", parent, ok)
	}
	if parent, ok := ParentTypeFor(domain.DropdownDisposition); !ok || parent != domain.DropdownStatus {
		t.Fatalf("ParentTypeFor(disposition) = %q, %v", parent, ok)
	}
	if _, ok := ParentTypeFor(domain.DropdownStatus); ok {
		t.Fatal("status must not have a parent type")
	}
}
