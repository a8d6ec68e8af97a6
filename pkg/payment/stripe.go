package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/checkout/session"
	"github.com/stripe/stripe-go/v74/paymentintent"
	"github.com/stripe/stripe-go/v74/webhook"
)

var ErrDeclined = errors.New("payment declined")

// DeclineError is returned when the card issuer or Stripe refuses a charge.
type DeclineError struct {
	Code   string
	Reason string
}

func (e *DeclineError) Error() string {
	return "payment declined: " + e.Reason
}

func (e *DeclineError) Is(target error) bool {
	return target == ErrDeclined
}

type ChargeRequest struct {
	AmountCents   int64
	Currency      string
	PaymentMethod string
	Description   string
	CustomerEmail string
	Metadata      map[string]string
}

type Charge struct {
	ID     string
	Status string
	Amount int64
}

type CheckoutRequest struct {
	CustomerEmail     string
	ClientReferenceID string
	Name              string
	Description       string
	Images            []string
	AmountCents       int64
	Currency          string
	SuccessURL        string
	CancelURL         string
}

type CheckoutSession struct {
	ID  string
	URL string
}

// CheckoutCompletion is the part of a checkout.session.completed event bookings need.
type CheckoutCompletion struct {
	SessionID         string
	ClientReferenceID string
	CustomerEmail     string
	AmountTotal       int64
}

type StripeService struct {
	secretKey     string
	webhookSecret string
}

func NewStripeService(secretKey, webhookSecret string) *StripeService {
	stripe.Key = secretKey
	return &StripeService{
		secretKey:     secretKey,
		webhookSecret: webhookSecret,
	}
}

// Charge confirms a PaymentIntent for a card payment method tokenized by the client.
func (s *StripeService) Charge(ctx context.Context, req ChargeRequest) (*Charge, error) {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(req.AmountCents),
		Currency:           stripe.String(req.Currency),
		PaymentMethod:      stripe.String(req.PaymentMethod),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Confirm:            stripe.Bool(true),
	}
	params.Context = ctx
	if req.Description != "" {
		params.Description = stripe.String(req.Description)
	}
	if req.CustomerEmail != "" {
		params.ReceiptEmail = stripe.String(req.CustomerEmail)
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	pi, err := paymentintent.New(params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.Type == stripe.ErrorTypeCard {
			return nil, &DeclineError{Code: string(stripeErr.Code), Reason: stripeErr.Msg}
		}
		return nil, fmt.Errorf("stripe: create payment intent: %w", err)
	}

	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		reason := fmt.Sprintf("payment %s", pi.Status)
		if pi.LastPaymentError != nil && pi.LastPaymentError.Msg != "" {
			reason = pi.LastPaymentError.Msg
		}
		return nil, &DeclineError{Code: string(pi.Status), Reason: reason}
	}

	return &Charge{ID: pi.ID, Status: string(pi.Status), Amount: pi.Amount}, nil
}

func (s *StripeService) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	product := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
		Name: stripe.String(req.Name),
	}
	if req.Description != "" {
		product.Description = stripe.String(req.Description)
	}
	if len(req.Images) > 0 {
		product.Images = stripe.StringSlice(req.Images)
	}

	params := &stripe.CheckoutSessionParams{
		CustomerEmail:     stripe.String(req.CustomerEmail),
		ClientReferenceID: stripe.String(req.ClientReferenceID),
		PaymentMethodTypes: stripe.StringSlice([]string{
			"card",
		}),
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:    stripe.String(req.Currency),
					UnitAmount:  stripe.Int64(req.AmountCents),
					ProductData: product,
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
	}
	params.Context = ctx

	sess, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe: create checkout session: %w", err)
	}

	return &CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}

// ParseCheckoutWebhook verifies the Stripe signature and extracts a completed
// checkout. Other event types yield (nil, nil).
func (s *StripeService) ParseCheckoutWebhook(payload []byte, signature string) (*CheckoutCompletion, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, s.webhookSecret,
		webhook.ConstructEventOptions{
			IgnoreAPIVersionMismatch: true,
		})
	if err != nil {
		return nil, fmt.Errorf("webhook: %w", err)
	}

	if event.Type != "checkout.session.completed" {
		return nil, nil
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return nil, fmt.Errorf("webhook: decode checkout session: %w", err)
	}

	email := sess.CustomerEmail
	if email == "" && sess.CustomerDetails != nil {
		email = sess.CustomerDetails.Email
	}

	return &CheckoutCompletion{
		SessionID:         sess.ID,
		ClientReferenceID: sess.ClientReferenceID,
		CustomerEmail:     email,
		AmountTotal:       sess.AmountTotal,
	}, nil
}
