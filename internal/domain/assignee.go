package domain

import "time"

// Assignee models a support agent tickets can be routed to. Assignees are
// curated administratively; the service treats them as read-only and uses
// CreatedAt as the deterministic tie-break for auto-assignment.
type Assignee struct {
	ID         string
	Name       string
	Department string
	Phone      string
	IsActive   bool
	CreatedAt  time.Time
}
