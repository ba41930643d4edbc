package usecase

import (
	"context"
	"fmt"

	"mecahub-backend/internal/domain"
	"mecahub-backend/pkg/apperror"
	"mecahub-backend/pkg/email"
	"mecahub-backend/pkg/logger"
	"mecahub-backend/pkg/metrics"
	"mecahub-backend/pkg/validation"
)

const (
	msgMissingData     = "Données manquantes"
	msgInvalidEmail    = "Adresse email invalide"
	msgEmailConfig     = "Configuration d'envoi d'emails incomplète"
	msgEmailSendFailed = "Erreur lors de l'envoi de l'email"
	detailEmailConfig  = "L'administrateur doit configurer les paramètres d'envoi d'emails (" + domain.ConfigMissingMarker + " email delivery)."
)

// Mailer is the part of email.Mailer the notify use case depends on.
type Mailer interface {
	IsConfigured() bool
	Send(ctx context.Context, content email.Content, replyTo string) (string, error)
}

type notifyUsecase struct {
	mailer Mailer
}

// NewNotifyUsecase creates the lead notification use case
func NewNotifyUsecase(mailer Mailer) domain.NotifyUsecase {
	return &notifyUsecase{mailer: mailer}
}

// Notify sanitizes the submitted fields, renders the email for the form type
// and hands it to the provider. It returns the provider's message id.
func (uc *notifyUsecase) Notify(ctx context.Context, req *domain.NotifyRequest) (string, error) {
	if req == nil || req.FormType == "" || req.FormData == nil {
		return "", apperror.BadRequest(msgMissingData)
	}

	// the address is checked as sent, before any sanitizing
	rawEmail, _ := req.FormData["email"].(string)
	if !validation.ValidEmail(rawEmail) {
		return "", apperror.BadRequest(msgInvalidEmail)
	}
	fd := domain.ParseFormData(req.FormData)
	submitter := fd.Text["email"]

	formType, knownType := domain.ParseFormType(req.FormType)

	if !uc.mailer.IsConfigured() {
		logger.Log.Error("Email provider not configured")
		metrics.RecordNotification(formTypeLabel(formType, knownType), metrics.OutcomeUnconfigured)
		return "", apperror.Configuration(msgEmailConfig, detailEmailConfig)
	}

	if !knownType {
		return "", apperror.BadRequest(msgInvalidFormType)
	}

	content, err := render(formType, fd)
	if err != nil {
		return "", apperror.Internal(err)
	}

	id, err := uc.mailer.Send(ctx, content, submitter)
	if err != nil {
		logger.Log.Error("Notification email failed", "formType", formType, "error", err)
		metrics.RecordNotification(string(formType), metrics.OutcomeError)
		return "", apperror.Provider(msgEmailSendFailed, err)
	}

	metrics.RecordNotification(string(formType), metrics.OutcomeSuccess)
	logger.Log.Info("Notification email sent", "formType", formType, "emailId", id)
	return id, nil
}

// formTypeLabel keeps metric labels to the known form types.
func formTypeLabel(t domain.FormType, known bool) string {
	if !known {
		return metrics.LabelUnknown
	}
	return string(t)
}

func render(formType domain.FormType, fd domain.FormData) (email.Content, error) {
	switch formType {
	case domain.FormContact:
		data := email.ContactEmail{
			Company:     fd.Value("company"),
			Name:        fd.Value("name"),
			Email:       fd.Value("email"),
			Phone:       fd.Value("phone"),
			RequestType: fd.Value("requestType"),
			Urgency:     fd.Value("urgency"),
			Details:     fd.Value("details"),
		}
		if link, ok := fd.File(formType.FileDataKey()); ok {
			data.File = &email.Link{Name: link.FileName, URL: link.FileURL}
		}
		return email.RenderContact(data)
	case domain.FormJob:
		data := email.JobEmail{
			FullName:     fd.Value("fullName"),
			Email:        fd.Value("email"),
			Phone:        fd.Value("phone"),
			Status:       fd.Value("status"),
			Position:     fd.Value("position"),
			Skills:       fd.Value("skills"),
			Software:     fd.Value("software"),
			Experience:   fd.Value("experience"),
			Availability: fd.Value("availability"),
			Message:      fd.Value("message"),
		}
		if link, ok := fd.File(formType.FileDataKey()); ok {
			data.CV = &email.Link{Name: link.FileName, URL: link.FileURL}
		}
		return email.RenderJob(data)
	default:
		return email.Content{}, fmt.Errorf("no template for form type %q", formType)
	}
}
