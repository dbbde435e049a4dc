package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/support-desk/internal/domain"
)

const ticketColumns = `id, ticket_id, name, phone, email, designation, panel,
               issue_type_l1, issue_type_l2, description, remarks, ext_remarks,
               status, disposition, priority, assigned_to_id, source, attachments,
               created_time, closed_time, resolution_estimate`

// TicketFilter captures dashboard search parameters.
type TicketFilter struct {
	Statuses     []string
	Dispositions []string
	Priorities   []string
	Panels       []string
	AssignedToID *string
	SearchTerm   *string
	CreatedFrom  *time.Time
	CreatedTo    *time.Time
	Limit        int
	Offset       int
}

// TicketClassification is the slim projection used by analytics.
type TicketClassification struct {
	Status       string
	Disposition  *string
	Priority     *string
	Panel        string
	IssueTypeL1  *string
	IssueTypeL2  *string
	Designation  string
	AssignedToID *string
}

// SubmitterUpdate carries the editable submitter fields.
type SubmitterUpdate struct {
	Name        string
	Phone       string
	Email       *string
	Designation string
}

// TicketRepository encapsulates ticket persistence. Tickets are never
// deleted; lifecycle changes go through targeted updates so disposition and
// status land in a single write.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	GetByTicketID(ctx context.Context, ticketID string) (*domain.Ticket, error)
	ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	ListClassifications(ctx context.Context) ([]TicketClassification, error)

	UpdateDispositionStatus(ctx context.Context, id, disposition, status string, closedTime *time.Time) error
	UpdateIssueType(ctx context.Context, id, issueTypeL2 string, issueTypeL1 *string) error
	UpdatePriority(ctx context.Context, id, priority string) error
	UpdateRemarks(ctx context.Context, id, remarks string) error
	UpdateExtRemarks(ctx context.Context, id, extRemarks string) error
	UpdateDescription(ctx context.Context, id, description string) error
	UpdatePanel(ctx context.Context, id, panel string) error
	UpdateSubmitter(ctx context.Context, id string, update SubmitterUpdate) error
	UpdateResolutionEstimate(ctx context.Context, id string, estimate *time.Time) error
	UpdateAssignee(ctx context.Context, id string, assigneeID *string) error

	CountActiveForAssignee(ctx context.Context, assigneeID string, terminalStatuses []string) (int, error)
	CountTotalForAssignee(ctx context.Context, assigneeID string) (int, error)
	ListAssignedToInactiveAssignees(ctx context.Context, terminalStatuses []string) ([]domain.Ticket, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	attachments, err := marshalAttachments(ticket.Attachments)
	if err != nil {
		return err
	}
	// ticket_id is assigned by a database trigger.
	const query = `
        INSERT INTO tickets (name, phone, email, designation, panel, issue_type_l1, issue_type_l2,
            description, status, disposition, priority, assigned_to_id, source, attachments)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
        RETURNING id, ticket_id, created_time`
	return r.pool.QueryRow(ctx, query,
		ticket.Name,
		ticket.Phone,
		ticket.Email,
		ticket.Designation,
		ticket.Panel,
		ticket.IssueTypeL1,
		ticket.IssueTypeL2,
		ticket.Description,
		ticket.Status,
		ticket.Disposition,
		ticket.Priority,
		ticket.AssignedToID,
		ticket.Source,
		attachments,
	).Scan(&ticket.ID, &ticket.TicketID, &ticket.CreatedTime)
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE id=$1`, ticketColumns)
	return r.fetchSingle(ctx, query, id)
}

func (r *ticketRepository) GetByTicketID(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE ticket_id=$1`, ticketColumns)
	return r.fetchSingle(ctx, query, ticketID)
}

func (r *ticketRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Ticket, error) {
	row := r.pool.QueryRow(ctx, query, arg)
	return scanTicket(row)
}

func (r *ticketRepository) ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	base := fmt.Sprintf(`SELECT %s FROM tickets`, ticketColumns)
	clauses := []string{"1=1"}
	args := []any{}

	appendIn := func(column string, values []string) {
		if len(values) == 0 {
			return
		}
		placeholders := make([]string, len(values))
		for i, v := range values {
			args = append(args, v)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("%s IN (%s)", column, strings.Join(placeholders, ",")))
	}

	appendIn("status", filter.Statuses)
	appendIn("disposition", filter.Dispositions)
	appendIn("priority", filter.Priorities)
	appendIn("panel", filter.Panels)

	if filter.AssignedToID != nil {
		args = append(args, *filter.AssignedToID)
		clauses = append(clauses, fmt.Sprintf("assigned_to_id=$%d", len(args)))
	}
	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		clauses = append(clauses, fmt.Sprintf("created_time >= $%d", len(args)))
	}
	if filter.CreatedTo != nil {
		args = append(args, *filter.CreatedTo)
		clauses = append(clauses, fmt.Sprintf("created_time <= $%d", len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf(
			"(LOWER(name) LIKE %s OR LOWER(description) LIKE %s OR LOWER(ticket_id) LIKE %s OR phone LIKE %s)",
			placeholder, placeholder, placeholder, placeholder))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY created_time DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) ListClassifications(ctx context.Context) ([]TicketClassification, error) {
	const query = `
        SELECT status, disposition, priority, panel, issue_type_l1, issue_type_l2, designation, assigned_to_id
        FROM tickets`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []TicketClassification
	for rows.Next() {
		var row TicketClassification
		if err := rows.Scan(
			&row.Status,
			&row.Disposition,
			&row.Priority,
			&row.Panel,
			&row.IssueTypeL1,
			&row.IssueTypeL2,
			&row.Designation,
			&row.AssignedToID,
		); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// UpdateDispositionStatus writes disposition, status and closed_time in one
// statement so no observer can see the pair out of sync.
func (r *ticketRepository) UpdateDispositionStatus(ctx context.Context, id, disposition, status string, closedTime *time.Time) error {
	const query = `UPDATE tickets SET disposition=$1, status=$2, closed_time=$3 WHERE id=$4`
	return r.execOne(ctx, query, disposition, status, closedTime, id)
}

func (r *ticketRepository) UpdateIssueType(ctx context.Context, id, issueTypeL2 string, issueTypeL1 *string) error {
	const query = `UPDATE tickets SET issue_type_l2=$1, issue_type_l1=$2 WHERE id=$3`
	return r.execOne(ctx, query, issueTypeL2, issueTypeL1, id)
}

func (r *ticketRepository) UpdatePriority(ctx context.Context, id, priority string) error {
	return r.execOne(ctx, `UPDATE tickets SET priority=$1 WHERE id=$2`, priority, id)
}

func (r *ticketRepository) UpdateRemarks(ctx context.Context, id, remarks string) error {
	return r.execOne(ctx, `UPDATE tickets SET remarks=$1 WHERE id=$2`, remarks, id)
}

func (r *ticketRepository) UpdateExtRemarks(ctx context.Context, id, extRemarks string) error {
	return r.execOne(ctx, `UPDATE tickets SET ext_remarks=$1 WHERE id=$2`, extRemarks, id)
}

func (r *ticketRepository) UpdateDescription(ctx context.Context, id, description string) error {
	return r.execOne(ctx, `UPDATE tickets SET description=$1 WHERE id=$2`, description, id)
}

func (r *ticketRepository) UpdatePanel(ctx context.Context, id, panel string) error {
	return r.execOne(ctx, `UPDATE tickets SET panel=$1 WHERE id=$2`, panel, id)
}

func (r *ticketRepository) UpdateSubmitter(ctx context.Context, id string, update SubmitterUpdate) error {
	const query = `UPDATE tickets SET name=$1, phone=$2, email=$3, designation=$4 WHERE id=$5`
	return r.execOne(ctx, query, update.Name, update.Phone, update.Email, update.Designation, id)
}

func (r *ticketRepository) UpdateResolutionEstimate(ctx context.Context, id string, estimate *time.Time) error {
	return r.execOne(ctx, `UPDATE tickets SET resolution_estimate=$1 WHERE id=$2`, estimate, id)
}

func (r *ticketRepository) UpdateAssignee(ctx context.Context, id string, assigneeID *string) error {
	return r.execOne(ctx, `UPDATE tickets SET assigned_to_id=$1 WHERE id=$2`, assigneeID, id)
}

func (r *ticketRepository) CountActiveForAssignee(ctx context.Context, assigneeID string, terminalStatuses []string) (int, error) {
	args := []any{assigneeID}
	query := `SELECT COUNT(*) FROM tickets WHERE assigned_to_id=$1`
	if len(terminalStatuses) > 0 {
		placeholders := make([]string, len(terminalStatuses))
		for i, s := range terminalStatuses {
			args = append(args, s)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		query += fmt.Sprintf(" AND status NOT IN (%s)", strings.Join(placeholders, ","))
	}
	var count int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ticketRepository) CountTotalForAssignee(ctx context.Context, assigneeID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tickets WHERE assigned_to_id=$1`, assigneeID).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ticketRepository) ListAssignedToInactiveAssignees(ctx context.Context, terminalStatuses []string) ([]domain.Ticket, error) {
	args := []any{}
	query := fmt.Sprintf(`
        SELECT %s FROM tickets t
        WHERE t.assigned_to_id IS NOT NULL
          AND EXISTS (
            SELECT 1 FROM assignees a
            WHERE a.id = t.assigned_to_id AND a.is_active = FALSE
          )`, prefixColumns("t", ticketColumns))
	if len(terminalStatuses) > 0 {
		placeholders := make([]string, len(terminalStatuses))
		for i, s := range terminalStatuses {
			args = append(args, s)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		query += fmt.Sprintf(" AND t.status NOT IN (%s)", strings.Join(placeholders, ","))
	}
	query += " ORDER BY t.created_time"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) execOne(ctx context.Context, query string, args ...any) error {
	cmd, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func prefixColumns(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, part := range parts {
		parts[i] = alias + "." + strings.TrimSpace(part)
	}
	return strings.Join(parts, ", ")
}

func marshalAttachments(attachments []domain.S3Attachment) ([]byte, error) {
	if attachments == nil {
		attachments = []domain.S3Attachment{}
	}
	// Presigned URLs are ephemeral and never persisted.
	stored := make([]domain.S3Attachment, len(attachments))
	copy(stored, attachments)
	for i := range stored {
		stored[i].DownloadURL = ""
		stored[i].ViewURL = ""
	}
	return json.Marshal(stored)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTicket(row rowScanner) (*domain.Ticket, error) {
	var ticket domain.Ticket
	var attachments []byte
	if err := row.Scan(
		&ticket.ID,
		&ticket.TicketID,
		&ticket.Name,
		&ticket.Phone,
		&ticket.Email,
		&ticket.Designation,
		&ticket.Panel,
		&ticket.IssueTypeL1,
		&ticket.IssueTypeL2,
		&ticket.Description,
		&ticket.Remarks,
		&ticket.ExtRemarks,
		&ticket.Status,
		&ticket.Disposition,
		&ticket.Priority,
		&ticket.AssignedToID,
		&ticket.Source,
		&attachments,
		&ticket.CreatedTime,
		&ticket.ClosedTime,
		&ticket.ResolutionEstimate,
	); err != nil {
		return nil, err
	}
	if len(attachments) > 0 {
		if err := json.Unmarshal(attachments, &ticket.Attachments); err != nil {
			return nil, fmt.Errorf("decode attachments: %w", err)
		}
	}
	return &ticket, nil
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, rows.Err()
}
