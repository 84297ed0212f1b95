package webhook_handlers

import (
	"context"
	"fmt"

	"qrcode-shopify-layer/internal/domain"
	"qrcode-shopify-layer/internal/ports"

	"github.com/rs/zerolog"
)

// ShopRedactHandler erases everything stored for a shop, 48 hours after uninstall
type ShopRedactHandler struct {
	logger   zerolog.Logger
	qrcodes  ports.QRCodeRepository
	sessions ports.SessionStorage
}

// NewShopRedactHandler creates a new shop redact webhook handler
func NewShopRedactHandler(
	logger zerolog.Logger,
	qrcodes ports.QRCodeRepository,
	sessions ports.SessionStorage,
) *ShopRedactHandler {
	return &ShopRedactHandler{
		logger:   logger,
		qrcodes:  qrcodes,
		sessions: sessions,
	}
}

// CanHandle returns true if this handler can process the given topic
func (h *ShopRedactHandler) CanHandle(topic string) bool {
	return topic == domain.TopicShopRedact
}

// Handle processes a shop redact webhook event
func (h *ShopRedactHandler) Handle(ctx context.Context, event *domain.WebhookEvent) error {
	shop, err := shopDomain(event)
	if err != nil {
		return err
	}

	codes, err := h.qrcodes.DeleteByShop(ctx, shop)
	if err != nil {
		return fmt.Errorf("failed to delete qr codes of %s: %w", shop, err)
	}
	sessions, err := deleteShopSessions(ctx, h.sessions, shop)
	if err != nil {
		return err
	}

	h.logger.Info().
		Str("shop", shop).
		Int64("qrCodes", codes).
		Int("sessions", sessions).
		Msg("Shop data redacted")
	return nil
}
