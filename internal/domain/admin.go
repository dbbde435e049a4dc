package domain

import "time"

// Admin is a dashboard operator account.
type Admin struct {
	ID           string
	Name         string
	PasswordHash string
	AccessLevel  string
	IsActive     bool
	CreatedAt    time.Time
}
