package domain

import "time"

// S3Attachment stores metadata for a file uploaded alongside a ticket.
// The record is immutable once written; DownloadURL and ViewURL are
// presigned on read and never persisted.
type S3Attachment struct {
	UUID         string    `json:"uuid"`
	OriginalName string    `json:"originalName"`
	S3Key        string    `json:"s3Key"`
	S3URL        string    `json:"s3Url"`
	Size         int64     `json:"size"`
	Type         string    `json:"type"`
	UploadedAt   time.Time `json:"uploadedAt"`
	DownloadURL  string    `json:"downloadUrl,omitempty"`
	ViewURL      string    `json:"viewUrl,omitempty"`
}
