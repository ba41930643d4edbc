// Package email renders lead notifications and hands them to a delivery
// provider (Resend HTTP API or plain SMTP).
package email

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrNotConfigured is returned when provider credentials or the recipient are missing.
var ErrNotConfigured = errors.New("email: provider not configured")

const (
	ProviderResend = "resend"
	ProviderSMTP   = "smtp"

	DefaultFrom = "MecaHUB Pro <noreply@mecahubpro.com>"
)

// Message is a single outgoing HTML email.
type Message struct {
	From    string
	To      []string
	ReplyTo string
	Subject string
	HTML    string
}

// Sender delivers a message and returns the provider's message id.
type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
	Name() string
}

// Config selects and configures the delivery provider.
type Config struct {
	Provider     string
	ResendAPIKey string
	ResendAPIURL string
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	From         string
	Recipient    string
}

// Configured reports whether the selected provider has credentials and a
// recipient address is set.
func (c Config) Configured() bool {
	if c.Recipient == "" {
		return false
	}
	switch c.Provider {
	case ProviderSMTP:
		return c.SMTPHost != ""
	default:
		return c.ResendAPIKey != ""
	}
}

// Mailer sends notifications to the configured recipient.
type Mailer struct {
	sender     Sender
	from       string
	recipient  string
	configured bool
}

// NewMailer builds the provider named in cfg. An unconfigured mailer is still
// returned; Send then fails with ErrNotConfigured.
func NewMailer(cfg Config) *Mailer {
	var sender Sender
	switch cfg.Provider {
	case ProviderSMTP:
		sender = NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
	default:
		sender = NewResendSender(cfg.ResendAPIKey, cfg.ResendAPIURL, &http.Client{Timeout: 15 * time.Second})
	}
	return NewMailerWithSender(sender, cfg.From, cfg.Recipient, cfg.Configured())
}

// NewMailerWithSender wires an explicit sender, mainly for tests.
func NewMailerWithSender(sender Sender, from, recipient string, configured bool) *Mailer {
	if from == "" {
		from = DefaultFrom
	}
	return &Mailer{
		sender:     sender,
		from:       from,
		recipient:  recipient,
		configured: configured && recipient != "",
	}
}

// IsConfigured checks if email sending is properly configured
func (m *Mailer) IsConfigured() bool {
	return m.configured
}

// Send delivers rendered content to the recipient with replyTo set to the submitter.
func (m *Mailer) Send(ctx context.Context, content Content, replyTo string) (string, error) {
	if !m.configured {
		return "", ErrNotConfigured
	}

	id, err := m.sender.Send(ctx, Message{
		From:    m.from,
		To:      []string{m.recipient},
		ReplyTo: replyTo,
		Subject: content.Subject,
		HTML:    content.HTML,
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", m.sender.Name(), err)
	}
	return id, nil
}
