package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testWebhookSecret = "whsec_test"

func sign(t *testing.T, payload []byte, secret string) string {
	t.Helper()
	ts := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(fmt.Sprintf("%d.%s", ts, payload)))
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func TestParseCheckoutWebhookCompleted(t *testing.T) {
	payload := []byte(`{
		"id": "evt_1",
		"object": "event",
		"type": "checkout.session.completed",
		"data": {"object": {
			"id": "cs_test_1",
			"object": "checkout.session",
			"client_reference_id": "7",
			"customer_email": "laura@example.com",
			"amount_total": 49700
		}}
	}`)
	svc := NewStripeService("sk_test", testWebhookSecret)

	completion, err := svc.ParseCheckoutWebhook(payload, sign(t, payload, testWebhookSecret))
	require.NoError(t, err)
	require.NotNil(t, completion)

	assert.Equal(t, "cs_test_1", completion.SessionID)
	assert.Equal(t, "7", completion.ClientReferenceID)
	assert.Equal(t, "laura@example.com", completion.CustomerEmail)
	assert.Equal(t, int64(49700), completion.AmountTotal)
}

func TestParseCheckoutWebhookIgnoresOtherEvents(t *testing.T) {
	payload := []byte(`{"id":"evt_2","object":"event","type":"charge.refunded","data":{"object":{}}}`)
	svc := NewStripeService("sk_test", testWebhookSecret)

	completion, err := svc.ParseCheckoutWebhook(payload, sign(t, payload, testWebhookSecret))
	require.NoError(t, err)
	assert.Nil(t, completion)
}

func TestParseCheckoutWebhookRejectsBadSignature(t *testing.T) {
	payload := []byte(`{"id":"evt_3","object":"event","type":"checkout.session.completed","data":{"object":{}}}`)
	svc := NewStripeService("sk_test", testWebhookSecret)

	_, err := svc.ParseCheckoutWebhook(payload, sign(t, payload, "whsec_other"))
	assert.Error(t, err)
}

func TestDeclineErrorMatchesSentinel(t *testing.T) {
	var err error = &DeclineError{Code: "card_declined", Reason: "Your card was declined."}
	assert.ErrorIs(t, err, ErrDeclined)
	assert.Equal(t, "payment declined: Your card was declined.", err.Error())
}
