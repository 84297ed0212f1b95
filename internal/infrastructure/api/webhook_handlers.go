package api

import (
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/hlog"

	"qrcode-shopify-layer/internal/application"
	"qrcode-shopify-layer/internal/domain"
	"qrcode-shopify-layer/internal/infrastructure/shopify"
)

// webhookHandler verifies and dispatches Shopify webhook deliveries
func webhookHandler(verifier *shopify.WebhookVerifier, dispatcher *application.WebhookDispatcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := hlog.FromRequest(r)

		topic := r.Header.Get("X-Shopify-Topic")
		if topic == "" {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing X-Shopify-Topic header"})
			return
		}

		if !verifier.Verify(r) {
			logger.Warn().Str("topic", topic).Msg("Webhook signature verification failed")
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid signature"})
			return
		}

		payload, err := io.ReadAll(r.Body)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "failed to read request body"})
			return
		}

		event := &domain.WebhookEvent{
			Topic:      topic,
			Shop:       r.Header.Get(ShopDomainHeader),
			Payload:    payload,
			Verified:   true,
			ReceivedAt: time.Now().UTC(),
		}

		if err := dispatcher.Dispatch(r.Context(), event); err != nil {
			logger.Error().
				Err(err).
				Str("topic", topic).
				Str("shop", event.Shop).
				Msg("Failed to dispatch webhook event")

			// Shopify retries on any non-2xx response
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to process webhook event"})
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"received": "true"})
	}
}
