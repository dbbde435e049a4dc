package service

import (
	"context"
	"testing"
	"time"

	"github.com/spec-kit/support-desk/internal/domain"
)

func strPtr(s string) *string { return &s }

func newAssignmentService(tickets *fakeTicketRepo, assignees *fakeAssigneeRepo) *AssignmentService {
	return NewAssignmentService(AssignmentDependencies{
		TicketRepo:       tickets,
		AssigneeRepo:     assignees,
		TerminalStatuses: []string{"Closed"},
		Logger:           testLogger(),
	})
}

func rosterOf(ids ...string) *fakeAssigneeRepo {
	repo := &fakeAssigneeRepo{}
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range ids {
		repo.assignees = append(repo.assignees, domain.Assignee{
			ID:        id,
			Name:      id,
			IsActive:  true,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
	}
	return repo
}

func ticketFor(id, assigneeID, status string) domain.Ticket {
	return domain.Ticket{ID: id, Status: status, AssignedToID: strPtr(assigneeID)}
}

func TestSelectAssigneeLeastLoaded(t *testing.T) {
	tests := []struct {
		name    string
		tickets []domain.Ticket
		want    string
	}{
		{
			name: "picks lightest load",
			tickets: []domain.Ticket{
				ticketFor("t1", "a1", "Open"),
				ticketFor("t2", "a1", "Ongoing"),
				ticketFor("t3", "a2", "Open"),
			},
			want: "a3",
		},
		{
			name: "terminal tickets do not count",
			tickets: []domain.Ticket{
				ticketFor("t1", "a1", "Closed"),
				ticketFor("t2", "a2", "Open"),
				ticketFor("t3", "a3", "Open"),
			},
			want: "a1",
		},
		{
			name: "tie goes to earliest registered",
			tickets: []domain.Ticket{
				ticketFor("t1", "a1", "Open"),
				ticketFor("t2", "a2", "Open"),
				ticketFor("t3", "a3", "Open"),
			},
			want: "a1",
		},
		{
			name:    "empty board ties to first",
			tickets: nil,
			want:    "a1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newAssignmentService(&fakeTicketRepo{tickets: tt.tickets}, rosterOf("a1", "a2", "a3"))
			got, err := svc.SelectAssignee(context.Background())
			if err != nil {
				t.Fatalf("SelectAssignee: %v", err)
			}
			if got == nil || got.ID != tt.want {
				t.Fatalf("selected %v, want %s", got, tt.want)
			}
		})
	}
}

func TestSelectAssigneeNoActiveRoster(t *testing.T) {
	svc := newAssignmentService(&fakeTicketRepo{}, &fakeAssigneeRepo{
		assignees: []domain.Assignee{{ID: "a1", IsActive: false}},
	})
	got, err := svc.SelectAssignee(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil assignee, got %s", got.ID)
	}
}

func TestReassignFromInactiveAssignees(t *testing.T) {
	tickets := &fakeTicketRepo{tickets: []domain.Ticket{
		ticketFor("t1", "inactive-x", "Open"),
		ticketFor("t2", "inactive-x", "Ongoing"),
		ticketFor("t3", "a1", "Open"),
	}}
	svc := newAssignmentService(tickets, rosterOf("a1", "a2"))

	reassigned, err := svc.ReassignFromInactiveAssignees(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reassigned != 2 {
		t.Fatalf("reassigned = %d, want 2", reassigned)
	}
	for _, call := range tickets.updateAssigneeCalls {
		if call.assigneeID == nil {
			t.Fatalf("ticket %s reassigned to nil", call.ticketID)
		}
	}
	// First orphan goes to a2 (a1 already holds t3), second back to a1.
	if got := *tickets.updateAssigneeCalls[0].assigneeID; got != "a2" {
		t.Errorf("first reassignment to %s, want a2", got)
	}
}

func TestReassignContinuesPastFailures(t *testing.T) {
	tickets := &fakeTicketRepo{
		tickets: []domain.Ticket{
			ticketFor("t1", "inactive-x", "Open"),
			ticketFor("t2", "inactive-x", "Open"),
			ticketFor("t3", "inactive-x", "Open"),
		},
		countErrFor: map[string]error{"update:t2": context.DeadlineExceeded},
	}
	svc := newAssignmentService(tickets, rosterOf("a1"))

	reassigned, err := svc.ReassignFromInactiveAssignees(context.Background())
	if reassigned != 2 {
		t.Fatalf("reassigned = %d, want 2", reassigned)
	}
	if err == nil {
		t.Fatal("expected accumulated error for the failed ticket")
	}
}

func TestReassignSkipsWhenNoActiveAssignees(t *testing.T) {
	tickets := &fakeTicketRepo{tickets: []domain.Ticket{
		ticketFor("t1", "inactive-x", "Open"),
	}}
	svc := newAssignmentService(tickets, &fakeAssigneeRepo{})

	reassigned, err := svc.ReassignFromInactiveAssignees(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reassigned != 0 {
		t.Fatalf("reassigned = %d, want 0", reassigned)
	}
	if len(tickets.updateAssigneeCalls) != 0 {
		t.Fatal("no assignment should have been written")
	}
}
