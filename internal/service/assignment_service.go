package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/events"
	"github.com/spec-kit/support-desk/internal/repository"
	apperrors "github.com/spec-kit/support-desk/pkg/util"
)

// AssignmentService balances ticket load across the active assignee roster.
type AssignmentService struct {
	tickets          repository.TicketRepository
	assignees        repository.AssigneeRepository
	terminalStatuses []string
	dispatcher       events.Dispatcher
	logger           *zap.Logger
}

// AssignmentDependencies bundles collaborators.
type AssignmentDependencies struct {
	TicketRepo       repository.TicketRepository
	AssigneeRepo     repository.AssigneeRepository
	TerminalStatuses []string
	Dispatcher       events.Dispatcher
	Logger           *zap.Logger
}

// NewAssignmentService creates the service.
func NewAssignmentService(deps AssignmentDependencies) *AssignmentService {
	return &AssignmentService{
		tickets:          deps.TicketRepo,
		assignees:        deps.AssigneeRepo,
		terminalStatuses: deps.TerminalStatuses,
		dispatcher:       deps.Dispatcher,
		logger:           deps.Logger,
	}
}

// SelectAssignee picks the active assignee with the fewest non-terminal
// tickets; ties go to the earliest-registered assignee. A nil result with a
// nil error means no active assignee exists, which is an expected outcome:
// the caller leaves the ticket unassigned.
func (s *AssignmentService) SelectAssignee(ctx context.Context) (*domain.Assignee, error) {
	roster, err := s.assignees.ListActive(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if len(roster) == 0 {
		s.logger.Warn("no active assignees; ticket will stay unassigned")
		return nil, nil
	}

	// The roster arrives ordered by created_at, so keeping the first
	// strict minimum implements the seniority tie-break.
	var selected *domain.Assignee
	selectedLoad := 0
	for i := range roster {
		count, err := s.tickets.CountActiveForAssignee(ctx, roster[i].ID, s.terminalStatuses)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		if selected == nil || count < selectedLoad {
			selected = &roster[i]
			selectedLoad = count
		}
	}

	s.logger.Debug("assignee selected",
		zap.String("assignee_id", selected.ID),
		zap.String("assignee", selected.Name),
		zap.Int("active_tickets", selectedLoad))
	return selected, nil
}

// ReassignFromInactiveAssignees moves every non-terminal ticket off
// deactivated assignees. Each ticket is handled independently: one failed
// update never aborts the batch, and re-running the operation picks up
// whatever was left behind. Returns the number of successful reassignments
// together with the accumulated per-ticket errors.
func (s *AssignmentService) ReassignFromInactiveAssignees(ctx context.Context) (int, error) {
	tickets, err := s.tickets.ListAssignedToInactiveAssignees(ctx, s.terminalStatuses)
	if err != nil {
		return 0, apperrors.MapError(err)
	}

	reassigned := 0
	var errs []error
	for i := range tickets {
		ticket := &tickets[i]

		// Re-select per ticket so the load counts reflect assignments made
		// earlier in this batch.
		assignee, err := s.SelectAssignee(ctx)
		if err != nil {
			errs = append(errs, fmt.Errorf("select assignee for ticket %s: %w", ticket.ID, err))
			continue
		}
		if assignee == nil {
			s.logger.Warn("reassignment skipped; no active assignees",
				zap.String("ticket_id", ticket.ID))
			continue
		}

		if err := s.tickets.UpdateAssignee(ctx, ticket.ID, &assignee.ID); err != nil {
			errs = append(errs, fmt.Errorf("reassign ticket %s: %w", ticket.ID, err))
			continue
		}
		reassigned++

		s.logger.Info("ticket reassigned from inactive assignee",
			zap.String("ticket_id", ticket.ID),
			zap.String("assignee_id", assignee.ID))
		s.publishAssigned(ctx, ticket, &assignee.ID)
	}

	return reassigned, errors.Join(errs...)
}

func (s *AssignmentService) publishAssigned(ctx context.Context, ticket *domain.Ticket, assigneeID *string) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventTicketAssigned,
		TicketID:  ticket.ID,
		Timestamp: time.Now(),
		Payload: events.TicketAssignedPayload{
			TicketRef:     ticket.TicketID,
			AssigneeID:    assigneeID,
			OldAssigneeID: ticket.AssignedToID,
		},
	})
}
