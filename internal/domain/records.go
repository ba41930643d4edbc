package domain

import (
	"context"
	"io"
	"time"
)

// ContactRecord is a row of contact_requests.
type ContactRecord struct {
	ID          int64     `json:"id"`
	Company     string    `json:"company"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	RequestType string    `json:"request_type"`
	Details     string    `json:"details"`
	Urgency     string    `json:"urgency"`
	FileURL     *string   `json:"file_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// JobApplicationRecord is a row of job_applications.
type JobApplicationRecord struct {
	ID           int64     `json:"id"`
	FullName     string    `json:"full_name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Status       string    `json:"status"`
	Positions    []string  `json:"positions"`
	Skills       []string  `json:"skills"`
	Software     []string  `json:"software"`
	Experience   []string  `json:"experience"`
	Availability string    `json:"availability"`
	Message      *string   `json:"message,omitempty"`
	CVURL        *string   `json:"cv_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// ContactRepository persists contact requests. Records are insert-only.
type ContactRepository interface {
	Create(ctx context.Context, rec *ContactRecord) error
	ListSince(ctx context.Context, since time.Time) ([]ContactRecord, error)
}

// JobApplicationRepository persists job applications. Records are insert-only.
type JobApplicationRepository interface {
	Create(ctx context.Context, rec *JobApplicationRecord) error
	ListSince(ctx context.Context, since time.Time) ([]JobApplicationRecord, error)
}

// Export tables
const (
	TableContactRequests = "contact_requests"
	TableJobApplications = "job_applications"
)

// ExportUsecase writes persisted leads to a spreadsheet.
type ExportUsecase interface {
	Export(ctx context.Context, table string, since time.Time, w io.Writer) (int, error)
}
