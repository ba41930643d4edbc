package domain

import (
	"slices"
	"strings"

	"mecahub-backend/pkg/validation"
)

// FormType names one of the two lead forms.
type FormType string

const (
	FormContact FormType = "contact"
	FormJob     FormType = "job"
)

// ParseFormType accepts "contact" or "job".
func ParseFormType(s string) (FormType, bool) {
	switch FormType(s) {
	case FormContact, FormJob:
		return FormType(s), true
	default:
		return "", false
	}
}

// StoragePrefix is the bucket sub-path for attachments of this form.
func (t FormType) StoragePrefix() string {
	if t == FormJob {
		return "cv_uploads"
	}
	return "contact_uploads"
}

// AttachmentField is the form field holding the attachment.
func (t FormType) AttachmentField() string {
	if t == FormJob {
		return "cv"
	}
	return "file"
}

// FileDataKey is the formData key that carries the uploaded file link.
func (t FormType) FileDataKey() string {
	if t == FormJob {
		return "cvData"
	}
	return "fileData"
}

// ConfigMissingMarker appears in the details of a notify response when the
// email provider is not configured. Clients match on it.
const ConfigMissingMarker = "administrator must configure"

// Contact request field values
var (
	RequestTypes = []string{"reinforcement", "plans", "study", "other"}
	Urgencies    = []string{"immediate", "oneWeek", "notUrgent"}
)

// Job application field values
var Statuses = []string{"freelance", "employee", "internship"}

// ListFields are the job application fields that hold several values.
var ListFields = []string{"position", "skills", "software", "experience"}

// IsOneOf reports whether v is one of allowed.
func IsOneOf(v string, allowed []string) bool {
	return slices.Contains(allowed, v)
}

// Attachment is a file picked on the client before upload.
type Attachment struct {
	Name        string
	ContentType string
	Data        []byte
}

func (a *Attachment) Size() int64 {
	return int64(len(a.Data))
}

// FormSubmission is the client-held state of one form being filled in.
type FormSubmission struct {
	Type       FormType
	Fields     map[string]string
	Lists      map[string][]string
	Attachment *Attachment
}

func NewFormSubmission(t FormType) *FormSubmission {
	return &FormSubmission{
		Type:   t,
		Fields: make(map[string]string),
		Lists:  make(map[string][]string),
	}
}

// Set stores a sanitized text value.
func (f *FormSubmission) Set(name, value string) {
	f.Fields[name] = validation.SanitizeInput(value)
}

// SetList stores sanitized values of a multi-value field; empty entries are dropped.
func (f *FormSubmission) SetList(name string, values []string) {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(validation.SanitizeInput(v)); v != "" {
			out = append(out, v)
		}
	}
	f.Lists[name] = out
}

// Attach replaces the attachment. A nil attachment removes it.
func (f *FormSubmission) Attach(a *Attachment) {
	f.Attachment = a
}

// Value returns a text field, or a list field joined with ", ".
func (f *FormSubmission) Value(name string) string {
	if list, ok := f.Lists[name]; ok {
		return strings.Join(list, ", ")
	}
	return f.Fields[name]
}

// Clear empties every field and drops the attachment.
func (f *FormSubmission) Clear() {
	clear(f.Fields)
	clear(f.Lists)
	f.Attachment = nil
}

// IsEmpty reports whether nothing has been entered.
func (f *FormSubmission) IsEmpty() bool {
	return len(f.Fields) == 0 && len(f.Lists) == 0 && f.Attachment == nil
}
