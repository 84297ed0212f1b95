package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/hlog"

	"qrcode-shopify-layer/internal/domain"
	"qrcode-shopify-layer/internal/infrastructure/pubsub"
)

const keepAliveInterval = 25 * time.Second

// scanEventsHandler streams the scans of the request's shop as server-sent events.
// An optional qrCodeId query parameter narrows the stream to one code.
func scanEventsHandler(ps *pubsub.ScanPubSub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "streaming unsupported"})
			return
		}

		filter := &pubsub.ScanEventFilter{Shop: domain.GetShopDomainFromContext(r.Context())}
		if raw := r.URL.Query().Get("qrCodeId"); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				writeError(w, r, domain.NewValidationError("qrCodeId", "must be an integer"))
				return
			}
			filter.QRCodeID = id
		}

		sub := ps.Subscribe(r.Context(), filter)
		defer ps.Unsubscribe(sub.ID)

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, ": connected\n\n")
		flusher.Flush()

		ticker := time.NewTicker(keepAliveInterval)
		defer ticker.Stop()

		for {
			select {
			case event, open := <-sub.Events:
				if !open {
					return
				}
				data, err := json.Marshal(event)
				if err != nil {
					hlog.FromRequest(r).Error().Err(err).Msg("Failed to encode scan event")
					continue
				}
				fmt.Fprintf(w, "event: scan\ndata: %s\n\n", data)
				flusher.Flush()
			case <-ticker.C:
				fmt.Fprint(w, ": keep-alive\n\n")
				flusher.Flush()
			case <-r.Context().Done():
				return
			}
		}
	}
}
