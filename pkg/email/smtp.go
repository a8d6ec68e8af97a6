package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

// SMTPTransport delivers through a plain SMTP relay (Mailtrap and the like in development).
type SMTPTransport struct {
	dialer   *gomail.Dialer
	from     string
	fromName string
}

func NewSMTPTransport(host string, port int, user, pass, from, fromName string) *SMTPTransport {
	return &SMTPTransport{
		dialer:   gomail.NewDialer(host, port, user, pass),
		from:     from,
		fromName: fromName,
	}
}

func (t *SMTPTransport) Send(ctx context.Context, msg *Message) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", t.from, t.fromName)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTML)

	if err := t.dialer.DialAndSend(m); err != nil {
		return "", fmt.Errorf("smtp: %w", err)
	}
	return "", nil
}
