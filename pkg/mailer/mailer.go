// Package mailer provides SMTP email delivery. The default configuration
// targets Mailtrap (smtp.mailtrap.io), which is convenient for development
// and staging environments; point Host/Port at a real relay for production.
package mailer

import (
	"fmt"
	"net/smtp"
	"strings"
)

// Mailer sends email through a single SMTP relay.
type Mailer struct {
	host string
	port string
	user string
	pass string
	from string
}

// New creates a Mailer. All parameters are required.
func New(host, port, user, pass, from string) (*Mailer, error) {
	if host == "" || port == "" {
		return nil, fmt.Errorf("SMTP host and port must be provided")
	}
	if user == "" || pass == "" {
		return nil, fmt.Errorf("SMTP username and password must be provided")
	}
	if from == "" {
		return nil, fmt.Errorf("sender address must be provided")
	}
	return &Mailer{host: host, port: port, user: user, pass: pass, from: from}, nil
}

// Send delivers a single message. The Content-Type is inferred from the body:
// anything containing <html> or <p> is sent as text/html.
func (m *Mailer) Send(recipient, subject, body string) error {
	if recipient == "" {
		return fmt.Errorf("recipient email address cannot be empty")
	}
	if subject == "" {
		return fmt.Errorf("email subject cannot be empty")
	}

	contentType := "text/plain; charset=UTF-8"
	lower := strings.ToLower(body)
	if strings.Contains(lower, "<html>") || strings.Contains(lower, "<p>") {
		contentType = "text/html; charset=UTF-8"
	}

	message := []byte(fmt.Sprintf("To: %s\r\n"+
		"From: %s\r\n"+
		"Subject: %s\r\n"+
		"Content-Type: %s\r\n"+
		"\r\n"+
		"%s\r\n", recipient, m.from, subject, contentType, body))

	auth := smtp.PlainAuth("", m.user, m.pass, m.host)
	if err := smtp.SendMail(m.host+":"+m.port, auth, m.from, []string{recipient}, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
