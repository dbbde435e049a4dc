package service

import (
	"context"
	"testing"

	"github.com/spec-kit/support-desk/internal/domain"
)

func TestAnalyticsSummary(t *testing.T) {
	tickets := &fakeTicketRepo{tickets: []domain.Ticket{
		{Status: "Open", Panel: "Care", Designation: "Agent", Disposition: strPtr("New"),
			Priority: strPtr("High"), IssueTypeL1: strPtr("Tech"), IssueTypeL2: strPtr("Login Failure"),
			AssignedToID: strPtr("a1")},
		{Status: "Open", Panel: "Care", Designation: "Distributor", Disposition: strPtr("New"),
			AssignedToID: strPtr("a1")},
		{Status: "Closed", Panel: "Sales", Designation: "Agent", Disposition: strPtr("Resolved"),
			IssueTypeL1: strPtr("Tech")},
	}}
	svc := NewAnalyticsService(tickets, &fakeAssigneeRepo{}, []string{"Closed"}, testLogger())

	summary, err := svc.Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if summary.Total != 3 {
		t.Fatalf("total = %d, want 3", summary.Total)
	}
	if summary.ByStatus["Open"] != 2 || summary.ByStatus["Closed"] != 1 {
		t.Errorf("by_status = %v", summary.ByStatus)
	}
	if summary.ByDisposition["New"] != 2 || summary.ByDisposition["Resolved"] != 1 {
		t.Errorf("by_disposition = %v", summary.ByDisposition)
	}
	if summary.ByIssueTypeL1["Tech"] != 2 {
		t.Errorf("by_issue_type_l1 = %v", summary.ByIssueTypeL1)
	}
	if summary.ByAssignee["a1"] != 2 {
		t.Errorf("by_assignee = %v", summary.ByAssignee)
	}
	if summary.Unassigned != 1 {
		t.Errorf("unassigned = %d, want 1", summary.Unassigned)
	}
	if summary.Unclassified != 1 {
		t.Errorf("unclassified = %d, want 1", summary.Unclassified)
	}
}

func TestAssignmentStatistics(t *testing.T) {
	assignees := &fakeAssigneeRepo{assignees: []domain.Assignee{
		{ID: "a1", Name: "Meera", IsActive: true},
		{ID: "a2", Name: "Vikram", IsActive: false},
	}}
	tickets := &fakeTicketRepo{tickets: []domain.Ticket{
		ticketFor("t1", "a1", "Open"),
		ticketFor("t2", "a1", "Closed"),
		ticketFor("t3", "a2", "Open"),
	}}
	svc := NewAnalyticsService(tickets, assignees, []string{"Closed"}, testLogger())

	stats, err := svc.AssignmentStatistics(context.Background())
	if err != nil {
		t.Fatalf("AssignmentStatistics: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("stats entries = %d, want 2", len(stats))
	}
	if stats[0].ActiveTickets != 1 || stats[0].TotalTickets != 2 {
		t.Errorf("a1 load = %+v", stats[0])
	}
	if stats[1].IsActive || stats[1].ActiveTickets != 1 {
		t.Errorf("a2 load = %+v", stats[1])
	}
}
