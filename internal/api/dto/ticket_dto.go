package dto

import (
	"time"

	"github.com/spec-kit/support-desk/internal/domain"
)

// SubmitTicketResponse is the public submission receipt.
type SubmitTicketResponse struct {
	ID        string    `json:"id"`
	TicketID  string    `json:"ticket_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// TicketStatusResponse is the public status-page view: only what the
// submitter is supposed to see.
type TicketStatusResponse struct {
	TicketID           string                `json:"ticket_id"`
	Status             string                `json:"status"`
	Panel              string                `json:"panel"`
	Description        string                `json:"description"`
	ExtRemarks         *string               `json:"ext_remarks,omitempty"`
	CreatedTime        time.Time             `json:"created_time"`
	ClosedTime         *time.Time            `json:"closed_time,omitempty"`
	ResolutionEstimate *time.Time            `json:"resolution_estimate,omitempty"`
	Attachments        []domain.S3Attachment `json:"attachments"`
}

// TicketResponse is the full admin view of a ticket.
type TicketResponse struct {
	ID                 string                `json:"id"`
	TicketID           string                `json:"ticket_id"`
	Name               string                `json:"name"`
	Phone              string                `json:"phone"`
	Email              *string               `json:"email,omitempty"`
	Designation        string                `json:"designation"`
	Panel              string                `json:"panel"`
	IssueTypeL1        *string               `json:"issue_type_l1,omitempty"`
	IssueTypeL2        *string               `json:"issue_type_l2,omitempty"`
	Description        string                `json:"description"`
	Remarks            *string               `json:"remarks,omitempty"`
	ExtRemarks         *string               `json:"ext_remarks,omitempty"`
	Status             string                `json:"status"`
	Disposition        *string               `json:"disposition,omitempty"`
	Priority           *string               `json:"priority,omitempty"`
	AssignedToID       *string               `json:"assigned_to_id,omitempty"`
	Source             *string               `json:"source,omitempty"`
	Attachments        []domain.S3Attachment `json:"attachments"`
	CreatedTime        time.Time             `json:"created_time"`
	ClosedTime         *time.Time            `json:"closed_time,omitempty"`
	ResolutionEstimate *time.Time            `json:"resolution_estimate,omitempty"`
}

// UpdateFieldRequest carries a single-field ticket update.
type UpdateFieldRequest struct {
	Value string `json:"value"`
}

// UpdateSubmitterRequest edits the submitter contact block.
type UpdateSubmitterRequest struct {
	Name        string  `json:"name"`
	Phone       string  `json:"phone"`
	Email       *string `json:"email,omitempty"`
	Designation string  `json:"designation"`
}

// UpdateResolutionEstimateRequest sets or clears the estimate.
type UpdateResolutionEstimateRequest struct {
	Estimate *time.Time `json:"estimate"`
}

// AssignRequest points a ticket at an assignee.
type AssignRequest struct {
	AssigneeID string `json:"assignee_id"`
}

// ReassignResponse reports a bulk-reassignment outcome.
type ReassignResponse struct {
	Reassigned int    `json:"reassigned"`
	Error      string `json:"error,omitempty"`
}

// TicketFromDomain maps a ticket to its admin representation.
func TicketFromDomain(ticket *domain.Ticket) TicketResponse {
	attachments := ticket.Attachments
	if attachments == nil {
		attachments = []domain.S3Attachment{}
	}
	return TicketResponse{
		ID:                 ticket.ID,
		TicketID:           ticket.TicketID,
		Name:               ticket.Name,
		Phone:              ticket.Phone,
		Email:              ticket.Email,
		Designation:        ticket.Designation,
		Panel:              ticket.Panel,
		IssueTypeL1:        ticket.IssueTypeL1,
		IssueTypeL2:        ticket.IssueTypeL2,
		Description:        ticket.Description,
		Remarks:            ticket.Remarks,
		ExtRemarks:         ticket.ExtRemarks,
		Status:             ticket.Status,
		Disposition:        ticket.Disposition,
		Priority:           ticket.Priority,
		AssignedToID:       ticket.AssignedToID,
		Source:             ticket.Source,
		Attachments:        attachments,
		CreatedTime:        ticket.CreatedTime,
		ClosedTime:         ticket.ClosedTime,
		ResolutionEstimate: ticket.ResolutionEstimate,
	}
}

// TicketStatusFromDomain maps a ticket to its submitter-facing view.
func TicketStatusFromDomain(ticket *domain.Ticket) TicketStatusResponse {
	attachments := ticket.Attachments
	if attachments == nil {
		attachments = []domain.S3Attachment{}
	}
	return TicketStatusResponse{
		TicketID:           ticket.TicketID,
		Status:             ticket.Status,
		Panel:              ticket.Panel,
		Description:        ticket.Description,
		ExtRemarks:         ticket.ExtRemarks,
		CreatedTime:        ticket.CreatedTime,
		ClosedTime:         ticket.ClosedTime,
		ResolutionEstimate: ticket.ResolutionEstimate,
		Attachments:        attachments,
	}
}
