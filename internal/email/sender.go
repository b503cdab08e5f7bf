package email

import (
	"context"
	"fmt"
	"mime"
	"net/mail"
	"net/smtp"
	"strings"

	"esportfed/internal/logger"

	"github.com/google/uuid"
	"github.com/resend/resend-go/v3"
)

type Message struct {
	From     string
	FromName string
	To       string
	ToName   string
	Subject  string
	HTML     string
}

// Sender delivers one rendered message and returns the provider message id.
type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
}

type ResendSender struct {
	client *resend.Client
}

func NewResendSender(apiKey string) *ResendSender {
	return &ResendSender{client: resend.NewClient(apiKey)}
}

func (s *ResendSender) Send(ctx context.Context, msg Message) (string, error) {
	params := &resend.SendEmailRequest{
		From:    formatAddress(msg.FromName, msg.From),
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
	}

	sent, err := s.client.Emails.Send(params)
	if err != nil {
		return "", fmt.Errorf("resend: %w", err)
	}
	return sent.Id, nil
}

type SMTPSender struct {
	host string
	port string
	user string
	pass string
}

func NewSMTPSender(host, port, user, pass string) *SMTPSender {
	return &SMTPSender{host: host, port: port, user: user, pass: pass}
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) (string, error) {
	id := uuid.NewString()

	var auth smtp.Auth
	if s.user != "" && s.pass != "" {
		auth = smtp.PlainAuth("", s.user, s.pass, s.host)
	}

	if err := smtp.SendMail(s.host+":"+s.port, auth, msg.From, []string{msg.To}, buildMessage(msg, id, s.host)); err != nil {
		return "", fmt.Errorf("smtp: %w", err)
	}
	return id, nil
}

// NewSender prefers Resend when an API key is configured.
func NewSender(resendAPIKey, smtpHost, smtpPort, smtpUser, smtpPass string) Sender {
	if resendAPIKey != "" {
		logger.Info("email delivery via Resend")
		return NewResendSender(resendAPIKey)
	}
	logger.Info("email delivery via SMTP", "host", smtpHost, "port", smtpPort)
	return NewSMTPSender(smtpHost, smtpPort, smtpUser, smtpPass)
}

// buildMessage renders the RFC 5322 message. Display names and the subject
// are RFC 2047 encoded so they always stay on their own header line.
func buildMessage(msg Message, id, host string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", formatAddress(msg.FromName, msg.From))
	fmt.Fprintf(&b, "To: %s\r\n", formatAddress(msg.ToName, msg.To))
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	fmt.Fprintf(&b, "Message-ID: <%s@%s>\r\n", id, host)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.HTML)
	return []byte(b.String())
}

func formatAddress(name, addr string) string {
	if name == "" {
		return addr
	}
	return (&mail.Address{Name: name, Address: addr}).String()
}
