package submission

import (
	"mecahub-backend/internal/domain"
	"mecahub-backend/pkg/security"
	"mecahub-backend/pkg/validation"
)

// Messages for fields outside the rule table
const (
	MsgChooseOption = "Veuillez sélectionner une option"
	MsgCVRequired   = "Veuillez joindre votre CV"
)

var (
	contactFields = []string{"company", "name", "email", "phone", "details"}
	jobFields     = []string{"fullName", "email", "phone", "position", "skills", "software", "experience", "availability", "message"}
)

// ValidateForm returns the first error of every invalid field, keyed by
// field name. List fields are validated as their ", " joined value.
func ValidateForm(form *domain.FormSubmission) map[string]string {
	fields := contactFields
	if form.Type == domain.FormJob {
		fields = jobFields
	}

	values := make(map[string]string, len(fields))
	for _, name := range fields {
		values[name] = form.Value(name)
	}

	errs := make(map[string]string)
	for name, res := range validation.ValidateFormData(values) {
		if !res.Valid {
			errs[name] = res.FirstError()
		}
	}

	choice := func(name string, allowed []string) {
		if !domain.IsOneOf(form.Fields[name], allowed) {
			errs[name] = MsgChooseOption
		}
	}

	policy, _ := security.PolicyFor(string(form.Type))
	attachment := form.Type.AttachmentField()

	switch form.Type {
	case domain.FormContact:
		choice("requestType", domain.RequestTypes)
		choice("urgency", domain.Urgencies)
	case domain.FormJob:
		choice("status", domain.Statuses)
		if form.Attachment == nil {
			errs[attachment] = MsgCVRequired
		}
	default:
		errs["formType"] = "Type de formulaire invalide"
		return errs
	}

	if form.Attachment != nil {
		meta := security.FileMeta{
			Name:        form.Attachment.Name,
			Size:        form.Attachment.Size(),
			ContentType: form.Attachment.ContentType,
		}
		if res := security.ValidateFile(meta, policy); !res.Valid {
			errs[attachment] = res.Error
		}
	}

	return errs
}
