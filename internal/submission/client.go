package submission

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"mecahub-backend/internal/domain"
)

// APIError is a non-2xx answer of the form API.
type APIError struct {
	Status  int
	Message string
	Details string
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("status %d: %s: %s", e.Status, e.Message, e.Details)
	}
	return fmt.Sprintf("status %d: %s", e.Status, e.Message)
}

// IsConfigMissing reports whether err is the notify endpoint telling that
// the email provider has not been configured.
func IsConfigMissing(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return strings.Contains(apiErr.Details, domain.ConfigMissingMarker)
}

// Client calls the upload and notify endpoints.
type Client struct {
	baseURL    string
	httpClient *http.Client
	headers    http.Header
}

type ClientOption func(*Client)

// WithHeader adds a header to every request, e.g. an API gateway key.
func WithHeader(key, value string) ClientOption {
	return func(c *Client) { c.headers.Set(key, value) }
}

func NewClient(baseURL string, httpClient *http.Client, opts ...ClientOption) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		headers:    make(http.Header),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Upload posts file as multipart form data.
func (c *Client) Upload(ctx context.Context, formType domain.FormType, file *domain.Attachment) (*domain.StoredFile, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if err := w.WriteField("formType", string(formType)); err != nil {
		return nil, err
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, file.Name))
	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(file.Data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	var resp domain.UploadResponse
	if err := c.do(ctx, "/upload-file", w.FormDataContentType(), &body, &resp); err != nil {
		return nil, fmt.Errorf("upload: %w", err)
	}
	if !resp.Success {
		return nil, errors.New("upload: unsuccessful response")
	}
	return &domain.StoredFile{
		FileName:    resp.FileName,
		FilePath:    resp.FilePath,
		ContentType: file.ContentType,
		FileURL:     resp.FileURL,
	}, nil
}

// Notify posts the form data and returns the provider message id.
func (c *Client) Notify(ctx context.Context, formType domain.FormType, formData map[string]any) (string, error) {
	payload, err := json.Marshal(map[string]any{
		"formType": formType,
		"formData": formData,
	})
	if err != nil {
		return "", err
	}

	var resp domain.NotifyResponse
	if err := c.do(ctx, "/send-form-email", "application/json", bytes.NewReader(payload), &resp); err != nil {
		return "", fmt.Errorf("notify: %w", err)
	}
	return resp.EmailID, nil
}

func (c *Client) do(ctx context.Context, path, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return err
	}
	for key, values := range c.headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		var body struct {
			Error   string `json:"error"`
			Details string `json:"details"`
		}
		if json.Unmarshal(raw, &body) == nil {
			apiErr.Message = body.Error
			apiErr.Details = body.Details
		}
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	return json.Unmarshal(raw, out)
}
