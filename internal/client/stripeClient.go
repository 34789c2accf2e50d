package client

import (
	"context"
	"fmt"

	"github.com/4ourCEo/Kitly/internal/config"

	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/checkout/session"
	"github.com/stripe/stripe-go/v80/webhook"
)

// EventTypeCheckoutCompleted is the only event type that triggers fulfillment.
const EventTypeCheckoutCompleted = "checkout.session.completed"

type CheckoutSessionRequest struct {
	PriceID  string
	Quantity int64
	// SuccessURL/CancelURL are derived from the caller's origin.
	SuccessURL string
	CancelURL  string
	// Metadata is echoed back verbatim on the completion event. It is the
	// sole link between a payment and a (user, kit) pair.
	Metadata map[string]string
}

type CheckoutSessionResult struct {
	SessionID string
	URL       string
}

type StripeClient interface {
	CreateCheckoutSession(ctx context.Context, req *CheckoutSessionRequest) (*CheckoutSessionResult, error)
	// VerifyEvent validates the Stripe-Signature header over the raw payload
	// and returns the decoded event. The payload must not be touched before
	// verification.
	VerifyEvent(payload []byte, sigHeader string) (stripe.Event, error)
}

type stripeClientImpl struct {
	webhookSecret string
}

func NewStripeClient(cfg *config.Stripe) StripeClient {
	stripe.Key = cfg.SecretKey
	return &stripeClientImpl{
		webhookSecret: cfg.WebhookSecret,
	}
}

func (c *stripeClientImpl) CreateCheckoutSession(ctx context.Context, req *CheckoutSessionRequest) (*CheckoutSessionResult, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(req.PriceID),
				Quantity: stripe.Int64(req.Quantity),
			},
		},
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
	}
	params.Context = ctx
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	sess, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe create checkout session: %w", err)
	}

	return &CheckoutSessionResult{
		SessionID: sess.ID,
		URL:       sess.URL,
	}, nil
}

func (c *stripeClientImpl) VerifyEvent(payload []byte, sigHeader string) (stripe.Event, error) {
	return webhook.ConstructEventWithOptions(payload, sigHeader, c.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
}
