package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/repository"
	"github.com/spec-kit/support-desk/internal/storage"
	"github.com/spec-kit/support-desk/internal/taxonomy"
)

// fakeTicketRepo keeps tickets in a slice and records mutations.
type fakeTicketRepo struct {
	tickets []domain.Ticket

	createErr   error
	updateErr   error
	countErrFor map[string]error

	updateAssigneeCalls []assigneeCall
	dispositionCalls    []dispositionCall
}

type assigneeCall struct {
	ticketID   string
	assigneeID *string
}

type dispositionCall struct {
	ticketID    string
	disposition string
	status      string
	closedTime  *time.Time
}

func (f *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	if f.createErr != nil {
		return f.createErr
	}
	ticket.ID = "id-" + ticket.Name
	ticket.TicketID = "A-010125-1"
	ticket.CreatedTime = time.Now()
	f.tickets = append(f.tickets, *ticket)
	return nil
}

func (f *fakeTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	for i := range f.tickets {
		if f.tickets[i].ID == id {
			t := f.tickets[i]
			return &t, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeTicketRepo) GetByTicketID(_ context.Context, ticketID string) (*domain.Ticket, error) {
	for i := range f.tickets {
		if f.tickets[i].TicketID == ticketID {
			t := f.tickets[i]
			return &t, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeTicketRepo) ListWithFilter(_ context.Context, _ repository.TicketFilter) ([]domain.Ticket, error) {
	return f.tickets, nil
}

func (f *fakeTicketRepo) ListClassifications(_ context.Context) ([]repository.TicketClassification, error) {
	rows := make([]repository.TicketClassification, 0, len(f.tickets))
	for i := range f.tickets {
		t := &f.tickets[i]
		rows = append(rows, repository.TicketClassification{
			Status:       t.Status,
			Disposition:  t.Disposition,
			Priority:     t.Priority,
			Panel:        t.Panel,
			IssueTypeL1:  t.IssueTypeL1,
			IssueTypeL2:  t.IssueTypeL2,
			Designation:  t.Designation,
			AssignedToID: t.AssignedToID,
		})
	}
	return rows, nil
}

func (f *fakeTicketRepo) UpdateDispositionStatus(_ context.Context, id, disposition, status string, closedTime *time.Time) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.dispositionCalls = append(f.dispositionCalls, dispositionCall{id, disposition, status, closedTime})
	for i := range f.tickets {
		if f.tickets[i].ID == id {
			d := disposition
			f.tickets[i].Disposition = &d
			f.tickets[i].Status = status
			f.tickets[i].ClosedTime = closedTime
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *fakeTicketRepo) UpdateIssueType(_ context.Context, id, issueTypeL2 string, issueTypeL1 *string) error {
	for i := range f.tickets {
		if f.tickets[i].ID == id {
			l2 := issueTypeL2
			f.tickets[i].IssueTypeL2 = &l2
			f.tickets[i].IssueTypeL1 = issueTypeL1
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *fakeTicketRepo) setField(id string, set func(*domain.Ticket)) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	for i := range f.tickets {
		if f.tickets[i].ID == id {
			set(&f.tickets[i])
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *fakeTicketRepo) UpdatePriority(_ context.Context, id, priority string) error {
	return f.setField(id, func(t *domain.Ticket) { t.Priority = &priority })
}

func (f *fakeTicketRepo) UpdateRemarks(_ context.Context, id, remarks string) error {
	return f.setField(id, func(t *domain.Ticket) { t.Remarks = &remarks })
}

func (f *fakeTicketRepo) UpdateExtRemarks(_ context.Context, id, extRemarks string) error {
	return f.setField(id, func(t *domain.Ticket) { t.ExtRemarks = &extRemarks })
}

func (f *fakeTicketRepo) UpdateDescription(_ context.Context, id, description string) error {
	return f.setField(id, func(t *domain.Ticket) { t.Description = description })
}

func (f *fakeTicketRepo) UpdatePanel(_ context.Context, id, panel string) error {
	return f.setField(id, func(t *domain.Ticket) { t.Panel = panel })
}

func (f *fakeTicketRepo) UpdateSubmitter(_ context.Context, id string, update repository.SubmitterUpdate) error {
	return f.setField(id, func(t *domain.Ticket) {
		t.Name = update.Name
		t.Phone = update.Phone
		t.Email = update.Email
		t.Designation = update.Designation
	})
}

func (f *fakeTicketRepo) UpdateResolutionEstimate(_ context.Context, id string, estimate *time.Time) error {
	return f.setField(id, func(t *domain.Ticket) { t.ResolutionEstimate = estimate })
}

func (f *fakeTicketRepo) UpdateAssignee(_ context.Context, id string, assigneeID *string) error {
	if err, ok := f.countErrFor["update:"+id]; ok {
		return err
	}
	f.updateAssigneeCalls = append(f.updateAssigneeCalls, assigneeCall{id, assigneeID})
	return f.setField(id, func(t *domain.Ticket) { t.AssignedToID = assigneeID })
}

func (f *fakeTicketRepo) CountActiveForAssignee(_ context.Context, assigneeID string, terminalStatuses []string) (int, error) {
	if err, ok := f.countErrFor[assigneeID]; ok {
		return 0, err
	}
	count := 0
	for i := range f.tickets {
		t := &f.tickets[i]
		if t.AssignedToID == nil || *t.AssignedToID != assigneeID {
			continue
		}
		if t.IsTerminal(terminalStatuses) {
			continue
		}
		count++
	}
	return count, nil
}

func (f *fakeTicketRepo) CountTotalForAssignee(_ context.Context, assigneeID string) (int, error) {
	count := 0
	for i := range f.tickets {
		if f.tickets[i].AssignedToID != nil && *f.tickets[i].AssignedToID == assigneeID {
			count++
		}
	}
	return count, nil
}

func (f *fakeTicketRepo) ListAssignedToInactiveAssignees(_ context.Context, _ []string) ([]domain.Ticket, error) {
	// Tests mark orphaned tickets by assigning them to ids with an
	// "inactive-" prefix.
	var result []domain.Ticket
	for i := range f.tickets {
		t := f.tickets[i]
		if t.AssignedToID != nil && strings.HasPrefix(*t.AssignedToID, "inactive-") {
			result = append(result, t)
		}
	}
	return result, nil
}

// fakeAssigneeRepo serves a fixed roster.
type fakeAssigneeRepo struct {
	assignees []domain.Assignee
	listErr   error
}

func (f *fakeAssigneeRepo) GetByID(_ context.Context, id string) (*domain.Assignee, error) {
	for i := range f.assignees {
		if f.assignees[i].ID == id {
			a := f.assignees[i]
			return &a, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeAssigneeRepo) ListActive(_ context.Context) ([]domain.Assignee, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var active []domain.Assignee
	for _, a := range f.assignees {
		if a.IsActive {
			active = append(active, a)
		}
	}
	return active, nil
}

func (f *fakeAssigneeRepo) ListAll(_ context.Context) ([]domain.Assignee, error) {
	return f.assignees, nil
}

// fakeTaxonomy serves a fixed snapshot.
type fakeTaxonomy struct {
	snapshot *taxonomy.Snapshot
}

func (f *fakeTaxonomy) Snapshot(_ context.Context) (*taxonomy.Snapshot, error) {
	return f.snapshot, nil
}

// fakeAttachmentStore records uploads and can fail on a given file name.
type fakeAttachmentStore struct {
	uploads  []string
	failOn   string
	signFail bool
}

func (f *fakeAttachmentStore) Upload(_ context.Context, up storage.Upload) (domain.S3Attachment, error) {
	if f.failOn != "" && up.FileName == f.failOn {
		return domain.S3Attachment{}, errors.New("upload rejected")
	}
	f.uploads = append(f.uploads, up.FileName)
	return domain.S3Attachment{
		UUID:         "uuid-" + up.FileName,
		OriginalName: up.FileName,
		S3Key:        "tickets/2025/01/" + up.FileName,
		Size:         int64(len(up.Data)),
		Type:         up.ContentType,
		UploadedAt:   time.Now(),
	}, nil
}

func (f *fakeAttachmentStore) SignedDownloadURL(_ context.Context, key string) (string, error) {
	if f.signFail {
		return "", errors.New("presign failed")
	}
	return "https://signed.example/" + key + "?dl=1", nil
}

func (f *fakeAttachmentStore) SignedViewURL(_ context.Context, key string) (string, error) {
	if f.signFail {
		return "", errors.New("presign failed")
	}
	return "https://signed.example/" + key, nil
}

// fakeGateway records sent templates.
type fakeGateway struct {
	sent    []sentMessage
	sendErr error
}

type sentMessage struct {
	phone    string
	template string
	vars     map[string]string
}

func (f *fakeGateway) SendTemplated(_ context.Context, _ string, phone, templateName string, variables map[string]string) error {
	f.sent = append(f.sent, sentMessage{phone: phone, template: templateName, vars: variables})
	return f.sendErr
}

func testTaxonomySnapshot() *taxonomy.Snapshot {
	techID := "l1-tech"
	openID := "st-open"
	ongoingID := "st-ongoing"
	closedID := "st-closed"
	options := []domain.DropdownOption{
		{ID: openID, DropdownType: domain.DropdownStatus, Value: "Open", IsActive: true},
		{ID: ongoingID, DropdownType: domain.DropdownStatus, Value: "Ongoing", IsActive: true},
		{ID: closedID, DropdownType: domain.DropdownStatus, Value: "Closed", IsActive: true},
		{ID: techID, DropdownType: domain.DropdownIssueTypeL1, Value: "Tech", IsActive: true},
		{ID: "d-new", DropdownType: domain.DropdownDisposition, Value: "New", ParentID: &openID, IsActive: true},
		{ID: "d-prog", DropdownType: domain.DropdownDisposition, Value: "In Progress", ParentID: &ongoingID, IsActive: true},
		{ID: "d-res", DropdownType: domain.DropdownDisposition, Value: "Resolved", ParentID: &closedID, IsActive: true},
		{ID: "d-orphan", DropdownType: domain.DropdownDisposition, Value: "Orphaned", IsActive: true},
		{ID: "l2-login", DropdownType: domain.DropdownIssueTypeL2, Value: "Login Failure", ParentID: &techID, IsActive: true},
	}
	return taxonomy.NewSnapshot(options)
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}
