package mail

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/spec-kit/denuncia-service/internal/config"
)

// Mailer sends templated account emails. The SMTP implementation is the
// production gateway; tests substitute a fake.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

type smtpMailer struct {
	cfg config.MailConfig
}

// NewSMTPMailer builds the production mailer.
func NewSMTPMailer(cfg config.MailConfig) Mailer {
	return &smtpMailer{cfg: cfg}
}

// Send delivers one HTML email. The context deadline bounds the SMTP call so a
// slow relay cannot hang the request path.
func (m *smtpMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	if m.cfg.Host == "" || m.cfg.Username == "" || m.cfg.Password == "" {
		return fmt.Errorf("smtp not configured")
	}

	addr := m.cfg.Host + ":" + m.cfg.Port
	msg := "From: " + m.cfg.From + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/html; charset=\"utf-8\"\r\n\r\n" +
		htmlBody + "\r\n"

	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)

	done := make(chan error, 1)
	go func() {
		done <- smtp.SendMail(addr, auth, m.cfg.Username, []string{to}, []byte(msg))
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
