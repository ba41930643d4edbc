package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const defaultResendURL = "https://api.resend.com/emails"

// ResendSender posts messages to the Resend HTTP API.
type ResendSender struct {
	apiKey string
	url    string
	client *http.Client
}

var _ Sender = (*ResendSender)(nil)

func NewResendSender(apiKey, url string, client *http.Client) *ResendSender {
	if url == "" {
		url = defaultResendURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &ResendSender{apiKey: apiKey, url: url, client: client}
}

func (r *ResendSender) Name() string { return "resend" }

type resendPayload struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	ReplyTo string   `json:"reply_to,omitempty"`
}

type resendResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
	Name    string `json:"name"`
}

// Send returns the Resend email id. Non-2xx answers become errors carrying
// the status and the API message.
func (r *ResendSender) Send(ctx context.Context, msg Message) (string, error) {
	body, err := json.Marshal(resendPayload{
		From:    msg.From,
		To:      msg.To,
		Subject: msg.Subject,
		HTML:    msg.HTML,
		ReplyTo: msg.ReplyTo,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+r.apiKey)

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var out resendResponse
	_ = json.Unmarshal(raw, &out)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := out.Message
		if detail == "" {
			detail = string(raw)
		}
		return "", fmt.Errorf("status %d: %s", resp.StatusCode, detail)
	}
	if out.ID == "" {
		return "", fmt.Errorf("response without id")
	}
	return out.ID, nil
}
