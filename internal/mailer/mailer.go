package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// SMTPMailer is the notification gateway. It makes exactly one delivery
// attempt per Send call; retrying is the publish layer's decision.
type SMTPMailer struct {
	host     string
	port     int
	from     string
	password string
}

func NewSMTPMailer(host string, port int, from string, password string) *SMTPMailer {
	return &SMTPMailer{
		host:     host,
		port:     port,
		from:     from,
		password: password,
	}
}

// Send delivers a multipart alternative email (plain-text fallback plus HTML).
// The send key becomes the Message-ID so relays that deduplicate on it drop a
// repeated delivery of the same publication.
func (mailer *SMTPMailer) Send(subject string, htmlBody string, recipients []string, sendKey string) error {
	if mailer.host == "" || mailer.from == "" {
		return fmt.Errorf("smtp transport not configured")
	}
	if len(recipients) == 0 {
		return fmt.Errorf("no recipients configured")
	}

	message := gomail.NewMessage()
	message.SetHeader("From", mailer.from)
	message.SetHeader("To", recipients...)
	message.SetHeader("Subject", subject)
	if sendKey != "" {
		message.SetHeader("Message-ID", fmt.Sprintf("<%s@spotlight>", sendKey))
	}
	message.SetBody("text/plain", "Please view this email in HTML format.")
	message.AddAlternative("text/html", htmlBody)

	dialer := gomail.NewDialer(mailer.host, mailer.port, mailer.from, mailer.password)
	if err := dialer.DialAndSend(message); err != nil {
		return fmt.Errorf("send via %s:%d: %w", mailer.host, mailer.port, err)
	}
	return nil
}
