package models

// CheckoutRequest carries a card payment method tokenized client-side.
type CheckoutRequest struct {
	PaymentMethod string `json:"payment_method" validate:"required"`
}

type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}
