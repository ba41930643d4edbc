package domain

import (
	"context"
	"fmt"
	"strings"

	"mecahub-backend/pkg/validation"
)

// NotifyRequest is the body of POST /send-form-email.
type NotifyRequest struct {
	FormType string         `json:"formType" binding:"required"`
	FormData map[string]any `json:"formData" binding:"required"`
}

// NotifyResponse is returned once the provider accepted the email.
type NotifyResponse struct {
	Success bool   `json:"success"`
	EmailID string `json:"emailId"`
}

// FileLink references an uploaded attachment inside formData.
type FileLink struct {
	FileName string `json:"fileName"`
	FileURL  string `json:"fileUrl"`
}

// FormData is the normalized, sanitized content of a notify request.
type FormData struct {
	Text  map[string]string
	Lists map[string][]string
	Files map[string]FileLink
}

// ParseFormData sanitizes every string value of raw. Arrays become list
// fields and objects carrying fileUrl become file links; other values are
// rendered with their default format.
func ParseFormData(raw map[string]any) FormData {
	fd := FormData{
		Text:  make(map[string]string),
		Lists: make(map[string][]string),
		Files: make(map[string]FileLink),
	}
	for key, value := range raw {
		switch v := value.(type) {
		case nil:
		case string:
			fd.Text[key] = validation.SanitizeTrimmed(v)
		case []any:
			list := make([]string, 0, len(v))
			for _, item := range v {
				if s, ok := item.(string); ok {
					if s = validation.SanitizeTrimmed(s); s != "" {
						list = append(list, s)
					}
				}
			}
			fd.Lists[key] = list
		case []string:
			list := make([]string, 0, len(v))
			for _, s := range v {
				if s = validation.SanitizeTrimmed(s); s != "" {
					list = append(list, s)
				}
			}
			fd.Lists[key] = list
		case map[string]any:
			link := FileLink{}
			if s, ok := v["fileName"].(string); ok {
				link.FileName = validation.SanitizeTrimmed(s)
			}
			if s, ok := v["fileUrl"].(string); ok {
				link.FileURL = validation.SanitizeTrimmed(s)
			}
			if link.FileURL != "" {
				fd.Files[key] = link
			}
		default:
			fd.Text[key] = validation.SanitizeTrimmed(fmt.Sprint(v))
		}
	}
	return fd
}

// Value returns a text field, or a list field joined with ", ".
func (fd FormData) Value(name string) string {
	if list, ok := fd.Lists[name]; ok {
		return strings.Join(list, ", ")
	}
	return fd.Text[name]
}

// File returns the link stored under key, if any.
func (fd FormData) File(key string) (FileLink, bool) {
	link, ok := fd.Files[key]
	return link, ok
}

// NotifyUsecase sends the lead notification email.
type NotifyUsecase interface {
	Notify(ctx context.Context, req *NotifyRequest) (string, error)
}
