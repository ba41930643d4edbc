package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mecahub-backend/internal/domain"
	"mecahub-backend/internal/usecase"
	"mecahub-backend/pkg/apperror"
	"mecahub-backend/pkg/email"
	"mecahub-backend/pkg/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func contactFormData() map[string]any {
	return map[string]any{
		"company":     "Acme <Industries>",
		"name":        "Jean Dupont",
		"email":       "jean@acme.fr",
		"phone":       "0123456789",
		"requestType": "plans",
		"urgency":     "oneWeek",
		"details":     "Nous avons besoin de plans d'ensemble.",
		"fileData":    map[string]any{"fileName": "plan.pdf", "fileUrl": "https://cdn.example.com/contact_uploads/1_plan.pdf"},
	}
}

func withEmail(v any) map[string]any {
	data := contactFormData()
	data["email"] = v
	return data
}

func TestNotify_ContactSuccess(t *testing.T) {
	mailer := new(MockMailer)
	uc := usecase.NewNotifyUsecase(mailer)

	mailer.On("IsConfigured").Return(true)
	mailer.On("Send", mock.Anything, mock.MatchedBy(func(c email.Content) bool {
		return c.Subject == "[MecaHUB Pro] Nouvelle demande de contact - Acme Industries" &&
			strings.Contains(c.HTML, "contact_uploads/1_plan.pdf")
	}), "jean@acme.fr").Return("email-123", nil)

	id, err := uc.Notify(context.Background(), &domain.NotifyRequest{FormType: "contact", FormData: contactFormData()})
	require.NoError(t, err)
	assert.Equal(t, "email-123", id)
	mailer.AssertExpectations(t)
}

func TestNotify_JobJoinsListFields(t *testing.T) {
	mailer := new(MockMailer)
	uc := usecase.NewNotifyUsecase(mailer)

	mailer.On("IsConfigured").Return(true)
	mailer.On("Send", mock.Anything, mock.MatchedBy(func(c email.Content) bool {
		return c.Subject == "[MecaHUB Pro] Nouvelle candidature - Projeteur, Calcul" &&
			strings.Contains(c.HTML, "cv_uploads/1_cv.pdf")
	}), "marie@example.com").Return("email-9", nil)

	_, err := uc.Notify(context.Background(), &domain.NotifyRequest{FormType: "job", FormData: map[string]any{
		"fullName": "Marie Curie",
		"email":    "marie@example.com",
		"position": []any{"Projeteur", "Calcul"},
		"cvData":   map[string]any{"fileName": "cv.pdf", "fileUrl": "https://cdn.example.com/cv_uploads/1_cv.pdf"},
	}})
	require.NoError(t, err)
	mailer.AssertExpectations(t)
}

func TestNotify_Errors(t *testing.T) {
	tests := []struct {
		name       string
		req        *domain.NotifyRequest
		configured bool
		wantCode   int
		wantMsg    string
	}{
		{
			name:     "missing form data",
			req:      &domain.NotifyRequest{FormType: "contact"},
			wantCode: http.StatusBadRequest,
			wantMsg:  "Données manquantes",
		},
		{
			name:     "invalid email",
			req:      &domain.NotifyRequest{FormType: "contact", FormData: map[string]any{"email": "not-an-email"}},
			wantCode: http.StatusBadRequest,
			wantMsg:  "Adresse email invalide",
		},
		{
			name:     "email with surrounding spaces",
			req:      &domain.NotifyRequest{FormType: "contact", FormData: withEmail("  jean@acme.fr  ")},
			wantCode: http.StatusBadRequest,
			wantMsg:  "Adresse email invalide",
		},
		{
			name:     "email in angle brackets",
			req:      &domain.NotifyRequest{FormType: "contact", FormData: withEmail("<jean@acme.fr>")},
			wantCode: http.StatusBadRequest,
			wantMsg:  "Adresse email invalide",
		},
		{
			name:     "email with brackets inside",
			req:      &domain.NotifyRequest{FormType: "contact", FormData: withEmail("jean<@>acme.fr")},
			wantCode: http.StatusBadRequest,
			wantMsg:  "Adresse email invalide",
		},
		{
			name:     "email not a string",
			req:      &domain.NotifyRequest{FormType: "contact", FormData: withEmail([]any{"jean@acme.fr"})},
			wantCode: http.StatusBadRequest,
			wantMsg:  "Adresse email invalide",
		},
		{
			name:     "provider not configured",
			req:      &domain.NotifyRequest{FormType: "contact", FormData: contactFormData()},
			wantCode: http.StatusInternalServerError,
			wantMsg:  "Configuration d'envoi d'emails incomplète",
		},
		{
			name:       "unknown form type",
			req:        &domain.NotifyRequest{FormType: "newsletter", FormData: contactFormData()},
			configured: true,
			wantCode:   http.StatusBadRequest,
			wantMsg:    "Type de formulaire invalide",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mailer := new(MockMailer)
			mailer.On("IsConfigured").Return(tt.configured)
			uc := usecase.NewNotifyUsecase(mailer)

			_, err := uc.Notify(context.Background(), tt.req)
			appErr, ok := apperror.As(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantCode, appErr.Code)
			assert.Equal(t, tt.wantMsg, appErr.Message)
			mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestNotify_ConfigErrorCarriesMarker(t *testing.T) {
	mailer := new(MockMailer)
	mailer.On("IsConfigured").Return(false)

	_, err := usecase.NewNotifyUsecase(mailer).Notify(context.Background(), &domain.NotifyRequest{FormType: "job", FormData: map[string]any{"email": "a@b.fr"}})
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Contains(t, appErr.Details, domain.ConfigMissingMarker)
}

func TestNotify_ProviderFailure(t *testing.T) {
	mailer := new(MockMailer)
	mailer.On("IsConfigured").Return(true)
	mailer.On("Send", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("resend: status 403: domain not verified"))

	_, err := usecase.NewNotifyUsecase(mailer).Notify(context.Background(), &domain.NotifyRequest{FormType: "contact", FormData: contactFormData()})
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.KindProvider, appErr.Kind)
	assert.Equal(t, "resend: status 403: domain not verified", appErr.Details)
}

func TestNotify_UnconfiguredMetricIgnoresUnknownFormType(t *testing.T) {
	mailer := new(MockMailer)
	mailer.On("IsConfigured").Return(false)
	uc := usecase.NewNotifyUsecase(mailer)

	_, err := uc.Notify(context.Background(), &domain.NotifyRequest{FormType: "x-attacker-chosen", FormData: contactFormData()})
	require.Error(t, err)

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	assert.Contains(t, body, `mecahub_forms_notifications_total{form_type="unknown",outcome="unconfigured"}`)
	assert.NotContains(t, body, "x-attacker-chosen")
}
