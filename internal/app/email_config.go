package app

import (
	"strings"

	"github.com/zenbild/backend/pkg/mail"
)

// NewMailer selects the configured delivery provider: Resend when its
// API key is set, then Postmark, then SMTP. Returns nil when no provider
// is configured; delivery attempts then fail at request time.
func (c EmailConfig) NewMailer() (mail.Mailer, error) {
	if strings.TrimSpace(c.Resend.APIKey) != "" {
		return mail.NewResendMailer(mail.ResendSettings{
			APIKey:  c.Resend.APIKey,
			From:    c.From,
			Timeout: c.Timeout,
		})
	}

	if strings.TrimSpace(c.Postmark.ServerToken) != "" {
		return mail.NewPostmarkMailer(mail.PostmarkSettings{
			ServerToken: c.Postmark.ServerToken,
			From:        c.From,
			Timeout:     c.Timeout,
		})
	}

	if c.SMTP.Enabled {
		return mail.NewSMTPMailer(mail.SMTPSettings{
			Enabled:  true,
			Host:     c.SMTP.Host,
			Port:     c.SMTP.Port,
			Username: c.SMTP.Username,
			Password: c.SMTP.Password,
			From:     c.From,
			UseTLS:   c.SMTP.UseTLS,
			Timeout:  c.Timeout,
		})
	}

	return nil, nil
}
