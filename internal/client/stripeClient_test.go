package client_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/4ourCEo/Kitly/internal/client"
	"github.com/4ourCEo/Kitly/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testWebhookSecret = "whsec_test_secret"

// signPayload builds a Stripe-Signature header the way Stripe does:
// HMAC-SHA256 over "<timestamp>.<payload>".
func signPayload(payload []byte, secret string, ts time.Time) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(fmt.Sprintf("%d.", ts.Unix())))
	mac.Write(payload)
	return fmt.Sprintf("t=%d,v1=%s", ts.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

func newClient() client.StripeClient {
	return client.NewStripeClient(&config.Stripe{
		SecretKey:     "sk_test_x",
		WebhookSecret: testWebhookSecret,
	})
}

func TestVerifyEventAcceptsValidSignature(t *testing.T) {
	payload := []byte(`{"id":"evt_1","type":"checkout.session.completed","data":{"object":{"id":"cs_1","metadata":{"kit_id":"k1","user_id":"u1"}}}}`)
	header := signPayload(payload, testWebhookSecret, time.Now())

	event, err := newClient().VerifyEvent(payload, header)
	require.NoError(t, err)
	assert.Equal(t, "evt_1", event.ID)
	assert.Equal(t, client.EventTypeCheckoutCompleted, string(event.Type))
}

func TestVerifyEventRejectsWrongSecret(t *testing.T) {
	payload := []byte(`{"id":"evt_1","type":"checkout.session.completed"}`)
	header := signPayload(payload, "whsec_some_other_secret", time.Now())

	_, err := newClient().VerifyEvent(payload, header)
	assert.Error(t, err)
}

func TestVerifyEventRejectsTamperedPayload(t *testing.T) {
	payload := []byte(`{"id":"evt_1","type":"checkout.session.completed"}`)
	header := signPayload(payload, testWebhookSecret, time.Now())

	tampered := []byte(`{"id":"evt_1","type":"checkout.session.completed","injected":true}`)
	_, err := newClient().VerifyEvent(tampered, header)
	assert.Error(t, err)
}

func TestVerifyEventRejectsMissingHeader(t *testing.T) {
	_, err := newClient().VerifyEvent([]byte(`{}`), "")
	assert.Error(t, err)
}

func TestVerifyEventRejectsStaleTimestamp(t *testing.T) {
	payload := []byte(`{"id":"evt_1","type":"checkout.session.completed"}`)
	header := signPayload(payload, testWebhookSecret, time.Now().Add(-time.Hour))

	_, err := newClient().VerifyEvent(payload, header)
	assert.Error(t, err)
}
