// Package notify delivers outbound email for membership events.
package notify

import (
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

// Email is a single rendered message
type Email struct {
	ToEmail string
	ToName  string
	Subject string
	HTML    string
	Plain   string
}

// Mailer sends an email
type Mailer interface {
	Send(e Email) error
}

// SendGridMailer sends email through the SendGrid v3 API
type SendGridMailer struct {
	client *sendgrid.Client
	from   *mail.Email
}

// NewSendGridMailer returns a mailer using apiKey and the given sender
func NewSendGridMailer(apiKey, fromName, fromEmail string) *SendGridMailer {
	return &SendGridMailer{
		client: sendgrid.NewSendClient(apiKey),
		from:   mail.NewEmail(fromName, fromEmail),
	}
}

// Send delivers the email. A response status of 400 or above is reported as an error.
func (m *SendGridMailer) Send(e Email) error {
	to := mail.NewEmail(e.ToName, e.ToEmail)
	message := mail.NewSingleEmail(m.from, e.Subject, to, e.Plain, e.HTML)
	response, err := m.client.Send(message)
	if err != nil {
		return err
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned status %d: %s", response.StatusCode, response.Body)
	}
	return nil
}

// LogMailer logs emails instead of sending them. It is used when no SendGrid key is set.
type LogMailer struct{}

// Send logs the recipient and subject
func (LogMailer) Send(e Email) error {
	zap.S().Infow("email not sent, no mail provider configured",
		"to", e.ToEmail,
		"subject", e.Subject)
	return nil
}
