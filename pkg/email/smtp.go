package email

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"net"
	"net/mail"
	"strings"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/google/uuid"
)

// SMTPSender relays messages through an SMTP submission server.
type SMTPSender struct {
	host     string
	port     string
	username string
	password string
}

var _ Sender = (*SMTPSender)(nil)

func NewSMTPSender(host, port, username, password string) *SMTPSender {
	if port == "" {
		port = "587"
	}
	return &SMTPSender{host: host, port: port, username: username, password: password}
}

func (s *SMTPSender) Name() string { return "smtp" }

// Send builds a MIME message and returns its generated Message-ID.
func (s *SMTPSender) Send(ctx context.Context, msg Message) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	from, err := mail.ParseAddress(msg.From)
	if err != nil {
		return "", fmt.Errorf("invalid from address: %w", err)
	}

	messageID := fmt.Sprintf("%s@%s", uuid.New().String(), s.host)
	raw := buildMIME(msg, messageID, time.Now())

	var auth sasl.Client
	if s.username != "" {
		auth = sasl.NewPlainClient("", s.username, s.password)
	}

	addr := net.JoinHostPort(s.host, s.port)
	if s.port == "465" {
		err = smtp.SendMailTLS(addr, auth, from.Address, msg.To, bytes.NewReader(raw))
	} else {
		err = smtp.SendMail(addr, auth, from.Address, msg.To, bytes.NewReader(raw))
	}
	if err != nil {
		return "", fmt.Errorf("failed to send email: %w", err)
	}
	return messageID, nil
}

func buildMIME(msg Message, messageID string, now time.Time) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", msg.From)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(msg.To, ", "))
	if msg.ReplyTo != "" {
		fmt.Fprintf(&b, "Reply-To: %s\r\n", msg.ReplyTo)
	}
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	fmt.Fprintf(&b, "Date: %s\r\n", now.Format(time.RFC1123Z))
	fmt.Fprintf(&b, "Message-ID: <%s>\r\n", messageID)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.HTML)
	return []byte(b.String())
}
