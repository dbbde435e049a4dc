package domain

import "time"

// Well-known taxonomy values. The authoritative set lives in the
// dropdown_options table; these constants cover the values the service
// itself writes during ticket submission.
const (
	StatusOpen    = "Open"
	StatusOngoing = "Ongoing"
	StatusClosed  = "Closed"

	DispositionNew = "New"
)

// Ticket is the aggregate for support requests submitted through the form.
type Ticket struct {
	ID                 string
	TicketID           string
	Name               string
	Phone              string
	Email              *string
	Designation        string
	Panel              string
	IssueTypeL1        *string
	IssueTypeL2        *string
	Description        string
	Remarks            *string
	ExtRemarks         *string
	Status             string
	Disposition        *string
	Priority           *string
	AssignedToID       *string
	Source             *string
	Attachments        []S3Attachment
	CreatedTime        time.Time
	ClosedTime         *time.Time
	ResolutionEstimate *time.Time
}

// IsTerminal reports whether the ticket's status is in the given
// terminal-status set.
func (t *Ticket) IsTerminal(terminalStatuses []string) bool {
	for _, s := range terminalStatuses {
		if t.Status == s {
			return true
		}
	}
	return false
}
