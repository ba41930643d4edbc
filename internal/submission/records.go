package submission

import (
	"context"
	"fmt"

	"mecahub-backend/internal/domain"
)

// NopStore discards submissions. It is used when no database is configured.
type NopStore struct{}

func (NopStore) Save(context.Context, *domain.FormSubmission, string) error { return nil }

// RepositoryStore writes submissions to the lead tables.
type RepositoryStore struct {
	Contacts domain.ContactRepository
	Jobs     domain.JobApplicationRepository
}

func NewRepositoryStore(contacts domain.ContactRepository, jobs domain.JobApplicationRepository) *RepositoryStore {
	return &RepositoryStore{Contacts: contacts, Jobs: jobs}
}

// Save inserts the field values as entered, plus the attachment URL when set.
func (s *RepositoryStore) Save(ctx context.Context, form *domain.FormSubmission, fileURL string) error {
	switch form.Type {
	case domain.FormContact:
		return s.Contacts.Create(ctx, ContactRecord(form, fileURL))
	case domain.FormJob:
		return s.Jobs.Create(ctx, JobApplicationRecord(form, fileURL))
	default:
		return fmt.Errorf("unknown form type %q", form.Type)
	}
}

func ContactRecord(form *domain.FormSubmission, fileURL string) *domain.ContactRecord {
	return &domain.ContactRecord{
		Company:     form.Fields["company"],
		Name:        form.Fields["name"],
		Email:       form.Fields["email"],
		Phone:       form.Fields["phone"],
		RequestType: form.Fields["requestType"],
		Details:     form.Fields["details"],
		Urgency:     form.Fields["urgency"],
		FileURL:     optional(fileURL),
	}
}

func JobApplicationRecord(form *domain.FormSubmission, fileURL string) *domain.JobApplicationRecord {
	return &domain.JobApplicationRecord{
		FullName:     form.Fields["fullName"],
		Email:        form.Fields["email"],
		Phone:        form.Fields["phone"],
		Status:       form.Fields["status"],
		Positions:    listOrText(form, "position"),
		Skills:       listOrText(form, "skills"),
		Software:     listOrText(form, "software"),
		Experience:   listOrText(form, "experience"),
		Availability: form.Fields["availability"],
		Message:      optional(form.Fields["message"]),
		CVURL:        optional(fileURL),
	}
}

// listOrText accepts a list field set either with SetList or as a single text value.
func listOrText(form *domain.FormSubmission, name string) []string {
	if list, ok := form.Lists[name]; ok {
		return append([]string(nil), list...)
	}
	if v := form.Fields[name]; v != "" {
		return []string{v}
	}
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
