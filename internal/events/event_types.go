package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated         EventType = "ticket_created"
	EventDispositionChanged    EventType = "ticket_disposition_changed"
	EventTicketAssigned        EventType = "ticket_assigned"
	EventExternalRemarksUpdate EventType = "ticket_ext_remarks_updated"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload carries the fields notification handlers need for a
// new-ticket message.
type TicketCreatedPayload struct {
	TicketRef     string `json:"ticket_ref"`
	SubmitterName string `json:"submitter_name"`
	Phone         string `json:"phone"`
	Panel         string `json:"panel"`
	Description   string `json:"description"`
}

// DispositionChangedPayload carries old/new disposition plus the derived
// status pair.
type DispositionChangedPayload struct {
	TicketRef      string  `json:"ticket_ref"`
	SubmitterName  string  `json:"submitter_name"`
	Phone          string  `json:"phone"`
	OldDisposition *string `json:"old_disposition,omitempty"`
	NewDisposition string  `json:"new_disposition"`
	OldStatus      string  `json:"old_status"`
	NewStatus      string  `json:"new_status"`
	Description    string  `json:"description"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	TicketRef     string  `json:"ticket_ref"`
	AssigneeID    *string `json:"assignee_id,omitempty"`
	OldAssigneeID *string `json:"old_assignee_id,omitempty"`
}

// ExternalRemarksPayload carries an updated external remark for submitter
// notification.
type ExternalRemarksPayload struct {
	TicketRef     string `json:"ticket_ref"`
	SubmitterName string `json:"submitter_name"`
	Phone         string `json:"phone"`
	Remarks       string `json:"remarks"`
}
