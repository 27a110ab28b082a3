// Package notify delivers verification and key-reset messages over SMTP.
// It implements the accounts.Notifier contract; delivery failures are
// returned to the caller, who decides whether they matter.
package notify

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/agroapi/go-accounts"
)

// Config holds the SMTP relay settings
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	// BaseURL prefixes the verification link embedded in outbound mail,
	// e.g. https://api.example.com
	BaseURL string
}

// Mailer sends lifecycle notifications through an SMTP relay
type Mailer struct {
	config Config
	dialer *gomail.Dialer
	logger accounts.Logger
}

var _ accounts.Notifier = (*Mailer)(nil)

func NewMailer(config Config) *Mailer {
	return &Mailer{
		config: config,
		dialer: gomail.NewDialer(config.Host, config.Port, config.Username, config.Password),
	}
}

func (m *Mailer) WithLogger(l accounts.Logger) *Mailer {
	m.logger = l
	return m
}

// SendVerification mails the issued API key together with the link that
// activates the account.
func (m *Mailer) SendVerification(ctx context.Context, email, apiKey string) error {
	body := fmt.Sprintf(
		"Welcome!\n\n"+
			"Your API key is:\n\n    %s\n\n"+
			"Verify your email address to activate your account:\n\n    %s/auth/verify?email=%s\n\n"+
			"The key becomes usable once your email is verified and you request a key reset.\n",
		apiKey, m.config.BaseURL, email,
	)

	return m.send(ctx, email, "Verify your account", body)
}

// SendKeyReset mails a freshly rotated API key. The raw key exists only
// in this message; the server keeps a salted hash.
func (m *Mailer) SendKeyReset(ctx context.Context, email, apiKey string) error {
	body := fmt.Sprintf(
		"Your API key was reset.\n\n"+
			"The new key is:\n\n    %s\n\n"+
			"The previous key no longer works. If you did not request this reset, "+
			"change your password immediately.\n",
		apiKey,
	)

	return m.send(ctx, email, "Your new API key", body)
}

func (m *Mailer) send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.config.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send %q to %s: %w", subject, to, err)
	}

	if m.logger != nil {
		m.logger.Debug("sent %q to %s", subject, to)
	}

	return nil
}
