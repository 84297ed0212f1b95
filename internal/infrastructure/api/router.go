// Package api exposes the QR code services over HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"qrcode-shopify-layer/internal/application"
	"qrcode-shopify-layer/internal/infrastructure/metrics"
	"qrcode-shopify-layer/internal/infrastructure/pubsub"
	"qrcode-shopify-layer/internal/infrastructure/shopify"
)

// Dependencies are the services the router serves
type Dependencies struct {
	QRCodes  *application.QRCodeService
	Accounts *application.AccountService
	Webhooks *application.WebhookDispatcher
	Verifier *shopify.WebhookVerifier
	Tokens   *shopify.SessionTokens
	Scans    *pubsub.ScanPubSub
	Metrics  *metrics.Metrics

	// Ready is closed once the database schema exists
	Ready <-chan struct{}

	Logger zerolog.Logger
}

// NewRouter builds the HTTP handler of the app
func NewRouter(deps Dependencies) http.Handler {
	logger := deps.Logger
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(hlog.NewHandler(logger))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("requestId", middleware.GetReqID(r.Context())).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("Request handled")
	}))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Shopify-Shop-Domain"},
		MaxAge:         300,
	}))

	r.Get("/health", healthHandler(deps.Ready))
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	// Public storefront endpoints hit by customers' phones
	r.Get("/qrcodes/{id}/scan", scanHandler(deps.QRCodes))
	r.Get("/qrcodes/{id}/image", imageHandler(deps.QRCodes))

	r.Post("/api/account", registerAccountHandler(deps.Accounts))
	r.Post("/api/webhooks", webhookHandler(deps.Verifier, deps.Webhooks))

	r.Route("/api/qrcodes", func(r chi.Router) {
		r.Use(requireInstalledShop(deps.Tokens))

		r.Get("/", listQRCodesHandler(deps.QRCodes))
		r.Post("/", createQRCodeHandler(deps.QRCodes))
		r.Get("/events", scanEventsHandler(deps.Scans))
		r.Get("/{id}", readQRCodeHandler(deps.QRCodes))
		r.Patch("/{id}", updateQRCodeHandler(deps.QRCodes))
		r.Delete("/{id}", deleteQRCodeHandler(deps.QRCodes))
	})

	return r
}

func healthHandler(ready <-chan struct{}) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-ready:
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		default:
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "starting"})
		}
	}
}
