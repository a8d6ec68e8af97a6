package email

import (
	"context"
	"fmt"

	"github.com/resendlabs/resend-go"
)

// ResendTransport delivers through the Resend HTTP API.
type ResendTransport struct {
	client   *resend.Client
	from     string
	fromName string
}

func NewResendTransport(apiKey, from, fromName string) *ResendTransport {
	return &ResendTransport{
		client:   resend.NewClient(apiKey),
		from:     from,
		fromName: fromName,
	}
}

func (t *ResendTransport) Send(ctx context.Context, msg *Message) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	params := &resend.SendEmailRequest{
		From:    t.fromName + " <" + t.from + ">",
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
	}

	resp, err := t.client.Emails.Send(params)
	if err != nil {
		return "", fmt.Errorf("resend: %w", err)
	}
	return resp.Id, nil
}
