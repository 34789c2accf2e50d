package handler

import (
	"io"
	"net/http"

	"github.com/4ourCEo/Kitly/internal/apperror"
	"github.com/4ourCEo/Kitly/internal/dto"
	"github.com/4ourCEo/Kitly/internal/service"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type CheckoutHandler struct {
	checkoutService service.CheckoutService
	baseURL         string
	logger          *zap.Logger
}

func NewCheckoutHandler(checkoutService service.CheckoutService, baseURL string, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		baseURL:         baseURL,
		logger:          logger,
	}
}

func (h *CheckoutHandler) Checkout(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	origin := c.Request().Header.Get("Origin")
	if origin == "" {
		origin = h.baseURL
	}

	resp, err := h.checkoutService.InitiateCheckout(ctx, req.KitID, req.UserID, origin)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, resp)
}

// StripeWebhook is provider-facing: status codes drive Stripe's retry
// policy, not a user. Bad signatures and malformed metadata get a 400
// (retrying will not fix them); storage failures get a 500 so the event
// is redelivered.
func (h *CheckoutHandler) StripeWebhook(c echo.Context) error {
	ctx := c.Request().Context()

	payload, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "unreadable body"})
	}

	sigHeader := c.Request().Header.Get("Stripe-Signature")

	_, err = h.checkoutService.HandleNotification(ctx, payload, sigHeader)
	if err != nil {
		switch apperror.KindOf(err) {
		case apperror.KindUnauthorized:
			h.logger.Warn("webhook signature verification failed", zap.Error(err))
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "webhook signature verification failed"})
		case apperror.KindInvalidPayload:
			h.logger.Warn("webhook payload rejected", zap.Error(err))
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		default:
			h.logger.Error("webhook processing failed", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to process event"})
		}
	}

	return c.JSON(http.StatusOK, map[string]bool{"received": true})
}
