package notification

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/adarshtiwaridev/Sehat-Bandhus-sub002/pkg/config"
	"github.com/adarshtiwaridev/Sehat-Bandhus-sub002/pkg/logger"
)

// Mailer delivers transactional email (OTP codes, reset links, booking
// confirmations). Delivery failures are reported but callers treat them as
// non-fatal.
type Mailer interface {
	SendEmail(to, subject, body string) error
}

// SMTPMailer sends mail through a configured SMTP relay.
type SMTPMailer struct {
	config *config.MailConfig
	logger *logger.Logger
	send   func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPMailer creates a new SMTP-backed mailer
func NewSMTPMailer(cfg *config.MailConfig, log *logger.Logger) *SMTPMailer {
	return &SMTPMailer{
		config: cfg,
		logger: log,
		send:   smtp.SendMail,
	}
}

// SendEmail sends an email notification
func (m *SMTPMailer) SendEmail(to, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", m.config.Host, m.config.Port)

	var auth smtp.Auth
	if m.config.Username != "" {
		auth = smtp.PlainAuth("", m.config.Username, m.config.Password, m.config.Host)
	}

	msg := buildMessage(m.config.From, to, subject, body)

	if err := m.send(addr, auth, m.config.From, []string{to}, msg); err != nil {
		m.logger.WithError(err).WithField("to", to).Error("Failed to send email")
		return fmt.Errorf("failed to send email: %w", err)
	}

	m.logger.WithField("to", to).WithField("subject", subject).Info("Email sent successfully")
	return nil
}

func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}

// LogMailer logs outbound mail instead of delivering it. Used when mail is
// disabled in configuration and in local development.
type LogMailer struct {
	logger *logger.Logger
}

// NewLogMailer creates a new log-only mailer
func NewLogMailer(log *logger.Logger) *LogMailer {
	return &LogMailer{logger: log}
}

// SendEmail logs the email instead of sending it
func (m *LogMailer) SendEmail(to, subject, body string) error {
	m.logger.WithFields(map[string]interface{}{
		"to":      to,
		"subject": subject,
	}).Info("Mail delivery disabled, logging email")
	return nil
}

// FromConfig returns the mailer implied by configuration.
func FromConfig(cfg *config.MailConfig, log *logger.Logger) Mailer {
	if cfg.Enabled {
		return NewSMTPMailer(cfg, log)
	}
	return NewLogMailer(log)
}
