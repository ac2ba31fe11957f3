package infra

import (
	"errors"
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"

	"github.com/DanielCanisOrtega/tienda-backend/internal/config"
)

// ErrMailerNotConfigured is returned when SMTP settings are absent, so a
// send fails fast instead of dialing an empty address.
var ErrMailerNotConfigured = errors.New("mailer: smtp host not configured")

// Mailer sends plain-text mail, optionally with a PDF receipt attached.
type Mailer struct {
	addr string
	from string
	auth smtp.Auth
}

func NewMailer(cfg *config.Config) *Mailer {
	m := &Mailer{from: cfg.SMTPUser}
	if cfg.SMTPHost != "" {
		m.addr = fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort)
		m.auth = smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPHost)
	}
	return m
}

func (m *Mailer) Send(to, subject, body, attachmentPath string) error {
	if m.addr == "" {
		return ErrMailerNotConfigured
	}

	e := email.NewEmail()
	e.From = m.from
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)

	if attachmentPath != "" {
		if _, err := e.AttachFile(attachmentPath); err != nil {
			return fmt.Errorf("mailer: attach %s: %w", attachmentPath, err)
		}
	}
	return e.Send(m.addr, m.auth)
}
