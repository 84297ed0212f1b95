package webhook_handlers

import (
	"context"
	"fmt"

	"qrcode-shopify-layer/internal/domain"
	"qrcode-shopify-layer/internal/ports"

	"github.com/rs/zerolog"
)

// AppUninstalledHandler removes the sessions of a shop that uninstalled the app
type AppUninstalledHandler struct {
	logger   zerolog.Logger
	sessions ports.SessionStorage
}

// NewAppUninstalledHandler creates a new app uninstalled webhook handler
func NewAppUninstalledHandler(logger zerolog.Logger, sessions ports.SessionStorage) *AppUninstalledHandler {
	return &AppUninstalledHandler{
		logger:   logger,
		sessions: sessions,
	}
}

// CanHandle returns true if this handler can process the given topic
func (h *AppUninstalledHandler) CanHandle(topic string) bool {
	return topic == domain.TopicAppUninstalled
}

// Handle processes an app uninstalled webhook event
func (h *AppUninstalledHandler) Handle(ctx context.Context, event *domain.WebhookEvent) error {
	shop, err := shopDomain(event)
	if err != nil {
		return err
	}

	removed, err := deleteShopSessions(ctx, h.sessions, shop)
	if err != nil {
		return err
	}

	// QR codes stay so a reinstall finds them; shop/redact removes them
	h.logger.Info().
		Str("shop", shop).
		Int("sessions", removed).
		Msg("App uninstalled - sessions removed")
	return nil
}

func deleteShopSessions(ctx context.Context, sessions ports.SessionStorage, shop string) (int, error) {
	found, err := sessions.FindSessionsByShop(ctx, shop)
	if err != nil {
		return 0, fmt.Errorf("failed to find sessions of %s: %w", shop, err)
	}
	if len(found) == 0 {
		return 0, nil
	}

	ids := make([]string, len(found))
	for i, s := range found {
		ids[i] = s.ID
	}
	if err := sessions.DeleteSessions(ctx, ids); err != nil {
		return 0, fmt.Errorf("failed to delete sessions of %s: %w", shop, err)
	}
	return len(ids), nil
}
