package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/events"
	"github.com/spec-kit/support-desk/internal/repository"
	"github.com/spec-kit/support-desk/internal/storage"
	apperrors "github.com/spec-kit/support-desk/pkg/util"
)

// AttachmentStore abstracts the object-storage collaborator.
type AttachmentStore interface {
	Upload(ctx context.Context, up storage.Upload) (domain.S3Attachment, error)
	SignedDownloadURL(ctx context.Context, key string) (string, error)
	SignedViewURL(ctx context.Context, key string) (string, error)
}

// TicketService coordinates ticket workflows.
type TicketService struct {
	tickets          repository.TicketRepository
	assignees        repository.AssigneeRepository
	taxonomy         TaxonomyProvider
	assignment       *AssignmentService
	attachments      AttachmentStore
	dispatcher       events.Dispatcher
	terminalStatuses []string
	logger           *zap.Logger
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo       repository.TicketRepository
	AssigneeRepo     repository.AssigneeRepository
	Taxonomy         TaxonomyProvider
	Assignment       *AssignmentService
	Attachments      AttachmentStore
	Dispatcher       events.Dispatcher
	TerminalStatuses []string
	Logger           *zap.Logger
}

// SubmitTicketInput describes the public submission form payload.
type SubmitTicketInput struct {
	Name        string
	Phone       string
	Email       *string
	Designation string
	Panel       string
	IssueTypeL2 *string
	Description string
	Source      *string
	Attachments []storage.Upload
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:          deps.TicketRepo,
		assignees:        deps.AssigneeRepo,
		taxonomy:         deps.Taxonomy,
		assignment:       deps.Assignment,
		attachments:      deps.Attachments,
		dispatcher:       deps.Dispatcher,
		terminalStatuses: deps.TerminalStatuses,
		logger:           deps.Logger,
	}
}

// Submit creates a ticket from the public form. Attachments upload
// sequentially and all-or-nothing: any upload failure aborts the submission
// before a ticket row is written. The issue-type L1 is derived from the
// chosen L2; auto-assignment picks the least-loaded active assignee. The
// new-ticket notification is fire-and-forget.
func (s *TicketService) Submit(ctx context.Context, input SubmitTicketInput) (*domain.Ticket, error) {
	if err := validateSubmission(input); err != nil {
		return nil, err
	}

	snap, err := s.taxonomy.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	var issueTypeL1 *string
	if input.IssueTypeL2 != nil && strings.TrimSpace(*input.IssueTypeL2) != "" {
		if parent, ok := snap.ResolveParent(domain.DropdownIssueTypeL2, *input.IssueTypeL2); ok {
			issueTypeL1 = &parent
		} else {
			// Unresolvable L2 leaves L1 unset for an admin to classify.
			s.logger.Warn("issue type L2 has no active parent L1",
				zap.String("issue_type_l2", *input.IssueTypeL2))
		}
	}

	uploaded := make([]domain.S3Attachment, 0, len(input.Attachments))
	for _, up := range input.Attachments {
		attachment, err := s.attachments.Upload(ctx, up)
		if err != nil {
			return nil, apperrors.NewDomainError("ATTACHMENT_UPLOAD_FAILED",
				"file upload failed; ticket not created", 502,
				map[string]any{"file": up.FileName, "cause": err.Error()})
		}
		uploaded = append(uploaded, attachment)
	}

	var assignedTo *string
	assignee, err := s.assignment.SelectAssignee(ctx)
	if err != nil {
		return nil, err
	}
	if assignee != nil {
		assignedTo = &assignee.ID
	}

	disposition := domain.DispositionNew
	ticket := &domain.Ticket{
		Name:         strings.TrimSpace(input.Name),
		Phone:        strings.TrimSpace(input.Phone),
		Email:        input.Email,
		Designation:  input.Designation,
		Panel:        input.Panel,
		IssueTypeL1:  issueTypeL1,
		IssueTypeL2:  input.IssueTypeL2,
		Description:  strings.TrimSpace(input.Description),
		Status:       domain.StatusOpen,
		Disposition:  &disposition,
		AssignedToID: assignedTo,
		Source:       input.Source,
		Attachments:  uploaded,
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Payload: events.TicketCreatedPayload{
			TicketRef:     ticket.TicketID,
			SubmitterName: ticket.Name,
			Phone:         ticket.Phone,
			Panel:         ticket.Panel,
			Description:   ticket.Description,
		},
	})
	return ticket, nil
}

// GetByID returns a ticket with freshly presigned attachment URLs.
func (s *TicketService) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}
	s.signAttachmentURLs(ctx, ticket)
	return ticket, nil
}

// GetByTicketID looks a ticket up by its human-readable id (status page).
func (s *TicketService) GetByTicketID(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByTicketID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	s.signAttachmentURLs(ctx, ticket)
	return ticket, nil
}

// List returns tickets matching the dashboard filter.
func (s *TicketService) List(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	tickets, err := s.tickets.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// UpdateDisposition sets a new disposition and derives the status from the
// taxonomy. The pair is written in one statement. A disposition that
// resolves to no active parent status is rejected outright: guessing a
// status would break the invariant every reader relies on. Terminal
// dispositions stamp closed_time; leaving a terminal disposition clears it.
func (s *TicketService) UpdateDisposition(ctx context.Context, id, disposition string) (*domain.Ticket, error) {
	ticket, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	snap, err := s.taxonomy.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	status, ok := snap.ResolveParent(domain.DropdownDisposition, disposition)
	if !ok {
		return nil, apperrors.NewValidationError("disposition has no active parent status",
			map[string]any{"disposition": disposition})
	}

	var closedTime *time.Time
	if s.isTerminal(status) {
		if ticket.ClosedTime != nil && ticket.IsTerminal(s.terminalStatuses) {
			closedTime = ticket.ClosedTime
		} else {
			now := time.Now().UTC()
			closedTime = &now
		}
	}

	if err := s.tickets.UpdateDispositionStatus(ctx, id, disposition, status, closedTime); err != nil {
		return nil, apperrors.MapError(err)
	}

	oldStatus := ticket.Status
	oldDisposition := ticket.Disposition
	ticket.Disposition = &disposition
	ticket.Status = status
	ticket.ClosedTime = closedTime

	s.publish(ctx, events.Event{
		Type:     events.EventDispositionChanged,
		TicketID: ticket.ID,
		Payload: events.DispositionChangedPayload{
			TicketRef:      ticket.TicketID,
			SubmitterName:  ticket.Name,
			Phone:          ticket.Phone,
			OldDisposition: oldDisposition,
			NewDisposition: disposition,
			OldStatus:      oldStatus,
			NewStatus:      status,
			Description:    ticket.Description,
		},
	})
	return ticket, nil
}

// UpdateIssueTypeL2 sets a new L2 classification and re-derives L1 in the
// same statement. An L2 with no active parent clears L1 rather than
// keeping a stale value.
func (s *TicketService) UpdateIssueTypeL2(ctx context.Context, id, issueTypeL2 string) (*domain.Ticket, error) {
	ticket, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	snap, err := s.taxonomy.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	var issueTypeL1 *string
	if parent, ok := snap.ResolveParent(domain.DropdownIssueTypeL2, issueTypeL2); ok {
		issueTypeL1 = &parent
	}

	if err := s.tickets.UpdateIssueType(ctx, id, issueTypeL2, issueTypeL1); err != nil {
		return nil, apperrors.MapError(err)
	}
	ticket.IssueTypeL2 = &issueTypeL2
	ticket.IssueTypeL1 = issueTypeL1
	return ticket, nil
}

// UpdatePriority sets the SLA priority.
func (s *TicketService) UpdatePriority(ctx context.Context, id, priority string) error {
	return s.simpleUpdate(func() error { return s.tickets.UpdatePriority(ctx, id, priority) }, id)
}

// UpdateRemarks sets the internal admin notes.
func (s *TicketService) UpdateRemarks(ctx context.Context, id, remarks string) error {
	return s.simpleUpdate(func() error { return s.tickets.UpdateRemarks(ctx, id, remarks) }, id)
}

// UpdateExtRemarks sets the submitter-visible remarks and notifies the
// submitter.
func (s *TicketService) UpdateExtRemarks(ctx context.Context, id, extRemarks string) error {
	ticket, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.tickets.UpdateExtRemarks(ctx, id, extRemarks); err != nil {
		return apperrors.MapError(err)
	}
	s.publish(ctx, events.Event{
		Type:     events.EventExternalRemarksUpdate,
		TicketID: ticket.ID,
		Payload: events.ExternalRemarksPayload{
			TicketRef:     ticket.TicketID,
			SubmitterName: ticket.Name,
			Phone:         ticket.Phone,
			Remarks:       extRemarks,
		},
	})
	return nil
}

// UpdateDescription rewrites the issue description.
func (s *TicketService) UpdateDescription(ctx context.Context, id, description string) error {
	return s.simpleUpdate(func() error { return s.tickets.UpdateDescription(ctx, id, description) }, id)
}

// UpdatePanel moves the ticket to another panel.
func (s *TicketService) UpdatePanel(ctx context.Context, id, panel string) error {
	return s.simpleUpdate(func() error { return s.tickets.UpdatePanel(ctx, id, panel) }, id)
}

// UpdateSubmitter edits the submitter contact block.
func (s *TicketService) UpdateSubmitter(ctx context.Context, id string, update repository.SubmitterUpdate) error {
	if strings.TrimSpace(update.Name) == "" || strings.TrimSpace(update.Phone) == "" {
		return apperrors.NewValidationError("name and phone required", nil)
	}
	return s.simpleUpdate(func() error { return s.tickets.UpdateSubmitter(ctx, id, update) }, id)
}

// UpdateResolutionEstimate sets or clears the estimated resolution date.
func (s *TicketService) UpdateResolutionEstimate(ctx context.Context, id string, estimate *time.Time) error {
	return s.simpleUpdate(func() error { return s.tickets.UpdateResolutionEstimate(ctx, id, estimate) }, id)
}

// Assign points the ticket at a specific active assignee.
func (s *TicketService) Assign(ctx context.Context, id, assigneeID string) error {
	assignee, err := s.assignees.GetByID(ctx, assigneeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("assignee", map[string]any{"assignee_id": assigneeID})
		}
		return apperrors.MapError(err)
	}
	if !assignee.IsActive {
		return apperrors.NewConflict("assignee inactive", map[string]any{"assignee_id": assigneeID})
	}

	ticket, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.tickets.UpdateAssignee(ctx, id, &assignee.ID); err != nil {
		return apperrors.MapError(err)
	}
	s.publish(ctx, events.Event{
		Type:     events.EventTicketAssigned,
		TicketID: ticket.ID,
		Payload: events.TicketAssignedPayload{
			TicketRef:     ticket.TicketID,
			AssigneeID:    &assignee.ID,
			OldAssigneeID: ticket.AssignedToID,
		},
	})
	return nil
}

func (s *TicketService) simpleUpdate(update func() error, id string) error {
	if err := update(); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("ticket", map[string]any{"id": id})
		}
		return apperrors.MapError(err)
	}
	return nil
}

func (s *TicketService) isTerminal(status string) bool {
	for _, terminal := range s.terminalStatuses {
		if status == terminal {
			return true
		}
	}
	return false
}

// signAttachmentURLs fills ephemeral download/view URLs. Presign failures
// are logged and leave the URL empty; they never fail the read.
func (s *TicketService) signAttachmentURLs(ctx context.Context, ticket *domain.Ticket) {
	if s.attachments == nil {
		return
	}
	for i := range ticket.Attachments {
		att := &ticket.Attachments[i]
		if url, err := s.attachments.SignedDownloadURL(ctx, att.S3Key); err == nil {
			att.DownloadURL = url
		} else {
			s.logger.Warn("presign download failed", zap.String("key", att.S3Key), zap.Error(err))
		}
		if url, err := s.attachments.SignedViewURL(ctx, att.S3Key); err == nil {
			att.ViewURL = url
		} else {
			s.logger.Warn("presign view failed", zap.String("key", att.S3Key), zap.Error(err))
		}
	}
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now()
	_ = s.dispatcher.Publish(ctx, event)
}

func validateSubmission(input SubmitTicketInput) error {
	missing := []string{}
	if strings.TrimSpace(input.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(input.Phone) == "" {
		missing = append(missing, "phone")
	}
	if input.Designation == "" {
		missing = append(missing, "designation")
	}
	if input.Panel == "" {
		missing = append(missing, "panel")
	}
	if strings.TrimSpace(input.Description) == "" {
		missing = append(missing, "description")
	}
	if len(missing) > 0 {
		return apperrors.NewValidationError("missing required fields",
			map[string]any{"fields": missing})
	}
	return nil
}
