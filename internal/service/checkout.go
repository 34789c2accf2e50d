package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/4ourCEo/Kitly/internal/apperror"
	"github.com/4ourCEo/Kitly/internal/client"
	"github.com/4ourCEo/Kitly/internal/dto"
	"github.com/4ourCEo/Kitly/internal/repository"

	"github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// FulfillmentResult tells the webhook endpoint what happened so it can
// pick the right acknowledgement. All three values are acknowledged 200.
type FulfillmentResult int

const (
	ResultIgnored FulfillmentResult = iota
	ResultFulfilled
	ResultAlreadyFulfilled
)

type CheckoutService interface {
	// InitiateCheckout creates a hosted checkout session for one kit.
	// No local state is written; the (kit, user) pair travels as session
	// metadata and comes back on the completion event.
	InitiateCheckout(ctx context.Context, kitID, userID, origin string) (*dto.CheckoutResponse, error)
	// HandleNotification processes a provider event. Safe to call more
	// than once for the same logical event.
	HandleNotification(ctx context.Context, payload []byte, sigHeader string) (FulfillmentResult, error)
}

type checkoutServiceImpl struct {
	db               *gorm.DB
	stripeClient     client.StripeClient
	kitRepo          repository.KitRepository
	entitlementRepo  repository.EntitlementRepository
	webhookEventRepo repository.WebhookEventRepository
	logger           *zap.Logger
}

func NewCheckoutService(
	db *gorm.DB,
	stripeClient client.StripeClient,
	kitRepo repository.KitRepository,
	entitlementRepo repository.EntitlementRepository,
	webhookEventRepo repository.WebhookEventRepository,
	logger *zap.Logger,
) CheckoutService {
	return &checkoutServiceImpl{
		db:               db,
		stripeClient:     stripeClient,
		kitRepo:          kitRepo,
		entitlementRepo:  entitlementRepo,
		webhookEventRepo: webhookEventRepo,
		logger:           logger,
	}
}

func (s *checkoutServiceImpl) InitiateCheckout(ctx context.Context, kitID, userID, origin string) (*dto.CheckoutResponse, error) {
	if kitID == "" || userID == "" {
		return nil, apperror.Newf(apperror.KindInvalidRequest, "kit_id and user_id are required")
	}

	kit, err := s.kitRepo.FindByID(ctx, kitID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Newf(apperror.KindNotFound, "kit %s not found", kitID)
		}
		return nil, apperror.New(apperror.KindStorage, "look up kit", err)
	}

	result, err := s.stripeClient.CreateCheckoutSession(ctx, &client.CheckoutSessionRequest{
		PriceID:    kit.StripePriceID,
		Quantity:   1,
		SuccessURL: origin + "/dashboard?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  origin + "/",
		Metadata: map[string]string{
			"kit_id":  kitID,
			"user_id": userID,
		},
	})
	if err != nil {
		return nil, apperror.New(apperror.KindUpstream, "create checkout session", err)
	}

	s.logger.Info("checkout session created",
		zap.String("session_id", result.SessionID),
		zap.String("kit_id", kitID),
		zap.String("user_id", userID),
	)

	return &dto.CheckoutResponse{
		SessionID: result.SessionID,
		URL:       result.URL,
	}, nil
}

func (s *checkoutServiceImpl) HandleNotification(ctx context.Context, payload []byte, sigHeader string) (FulfillmentResult, error) {
	// No entitlement is ever granted from an unverified payload.
	event, err := s.stripeClient.VerifyEvent(payload, sigHeader)
	if err != nil {
		return ResultIgnored, apperror.New(apperror.KindUnauthorized, "verify webhook signature", err)
	}

	if string(event.Type) != client.EventTypeCheckoutCompleted {
		s.logger.Debug("ignoring webhook event",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
		)
		return ResultIgnored, nil
	}

	if event.Data == nil {
		return ResultIgnored, apperror.Newf(apperror.KindInvalidPayload, "event %s has no data object", event.ID)
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return ResultIgnored, apperror.New(apperror.KindInvalidPayload, "decode checkout session", err)
	}

	kitID := sess.Metadata["kit_id"]
	userID := sess.Metadata["user_id"]
	if kitID == "" || userID == "" {
		s.logger.Warn("completion event missing metadata",
			zap.String("event_id", event.ID),
			zap.String("session_id", sess.ID),
		)
		return ResultIgnored, apperror.Newf(apperror.KindInvalidPayload, "missing kit_id or user_id in session metadata")
	}

	processed, err := s.webhookEventRepo.Exists(ctx, event.ID)
	if err != nil {
		return ResultIgnored, apperror.New(apperror.KindStorage, "check processed events", err)
	}
	if processed {
		return ResultAlreadyFulfilled, nil
	}

	created := false
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, granted, err := s.entitlementRepo.Grant(ctx, tx, userID, kitID)
		if err != nil {
			return err
		}
		created = granted

		return s.webhookEventRepo.MarkProcessed(ctx, tx, event.ID, string(event.Type))
	})
	if err != nil {
		return ResultIgnored, apperror.New(apperror.KindStorage, "grant entitlement", err)
	}

	if !created {
		s.logger.Info("entitlement already granted",
			zap.String("user_id", userID),
			zap.String("kit_id", kitID),
			zap.String("event_id", event.ID),
		)
		return ResultAlreadyFulfilled, nil
	}

	s.logger.Info("entitlement granted",
		zap.String("user_id", userID),
		zap.String("kit_id", kitID),
		zap.String("event_id", event.ID),
	)

	return ResultFulfilled, nil
}
