package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mecahub-backend/internal/domain"
	"mecahub-backend/pkg/validation"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
)

// contactInput is the JSON file accepted by "submit contact".
type contactInput struct {
	Company     string `json:"company" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone" validate:"required"`
	RequestType string `json:"requestType" validate:"required,oneof=reinforcement plans study other"`
	Details     string `json:"details" validate:"required"`
	Urgency     string `json:"urgency" validate:"required,oneof=immediate oneWeek notUrgent"`
}

// jobInput is the JSON file accepted by "submit job".
type jobInput struct {
	FullName     string   `json:"fullName" validate:"required"`
	Email        string   `json:"email" validate:"required,email"`
	Phone        string   `json:"phone" validate:"required"`
	Status       string   `json:"status" validate:"required,oneof=freelance employee internship"`
	Position     []string `json:"position" validate:"required,min=1"`
	Skills       []string `json:"skills" validate:"required,min=1"`
	Software     []string `json:"software" validate:"required,min=1"`
	Experience   []string `json:"experience" validate:"required,min=1"`
	Availability string   `json:"availability" validate:"required"`
	Message      string   `json:"message" validate:"max=1000"`
}

var validate = validator.New()

// loadForm reads and checks the JSON file for formType, then builds the submission.
func loadForm(formType domain.FormType, path string) (*domain.FormSubmission, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading form: %w", err)
	}
	return parseForm(formType, raw)
}

func parseForm(formType domain.FormType, raw []byte) (*domain.FormSubmission, error) {
	form := domain.NewFormSubmission(formType)

	switch formType {
	case domain.FormContact:
		var in contactInput
		if err := decode(raw, &in); err != nil {
			return nil, err
		}
		form.Set("company", in.Company)
		form.Set("name", in.Name)
		form.Set("email", in.Email)
		form.Set("phone", in.Phone)
		form.Set("requestType", in.RequestType)
		form.Set("details", in.Details)
		form.Set("urgency", in.Urgency)
	case domain.FormJob:
		var in jobInput
		if err := decode(raw, &in); err != nil {
			return nil, err
		}
		form.Set("fullName", in.FullName)
		form.Set("email", in.Email)
		form.Set("phone", in.Phone)
		form.Set("status", in.Status)
		form.SetList("position", in.Position)
		form.SetList("skills", in.Skills)
		form.SetList("software", in.Software)
		form.SetList("experience", in.Experience)
		form.Set("availability", in.Availability)
		if in.Message != "" {
			form.Set("message", in.Message)
		}
	default:
		return nil, fmt.Errorf("unknown form type %q", formType)
	}
	return form, nil
}

func decode(raw []byte, v any) error {
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("parsing form: %w", err)
	}
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("invalid form: %s", strings.Join(validation.FormatValidationErrors(err), "; "))
	}
	return nil
}

// loadAttachment reads path and detects its content type from the bytes.
func loadAttachment(path string) (*domain.Attachment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading attachment: %w", err)
	}
	contentType := mimetype.Detect(data).String()
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	return &domain.Attachment{
		Name:        filepath.Base(path),
		ContentType: contentType,
		Data:        data,
	}, nil
}
