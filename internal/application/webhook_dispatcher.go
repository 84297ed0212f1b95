package application

import (
	"context"
	"errors"
	"fmt"

	"qrcode-shopify-layer/internal/domain"

	"github.com/rs/zerolog"
)

// WebhookHandler processes the webhook topics it claims
type WebhookHandler interface {
	CanHandle(topic string) bool
	Handle(ctx context.Context, event *domain.WebhookEvent) error
}

// WebhookDispatcher routes webhook events to the registered handlers
type WebhookDispatcher struct {
	handlers []WebhookHandler
	logger   zerolog.Logger
}

// NewWebhookDispatcher creates a dispatcher with no handlers
func NewWebhookDispatcher(logger zerolog.Logger) *WebhookDispatcher {
	return &WebhookDispatcher{logger: logger}
}

// RegisterHandler adds h to the dispatcher
func (d *WebhookDispatcher) RegisterHandler(h WebhookHandler) {
	d.handlers = append(d.handlers, h)
}

// Dispatch runs every handler that claims the topic. A topic nobody handles is acknowledged.
func (d *WebhookDispatcher) Dispatch(ctx context.Context, event *domain.WebhookEvent) error {
	var errs []error
	handled := 0
	for _, h := range d.handlers {
		if !h.CanHandle(event.Topic) {
			continue
		}
		handled++
		if err := h.Handle(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if handled == 0 {
		d.logger.Debug().
			Str("topic", event.Topic).
			Str("shop", event.Shop).
			Msg("No handler registered for webhook topic")
		return nil
	}
	if len(errs) > 0 {
		return fmt.Errorf("failed to handle %s webhook: %w", event.Topic, errors.Join(errs...))
	}
	return nil
}
