package shopify

import (
	"net/http"

	goshopify "github.com/bold-commerce/go-shopify/v4"
)

// WebhookVerifier checks the HMAC Shopify attaches to webhook deliveries
type WebhookVerifier struct {
	app goshopify.App
}

// NewWebhookVerifier creates a verifier for the app credentials
func NewWebhookVerifier(apiKey, apiSecret string) *WebhookVerifier {
	return &WebhookVerifier{
		app: goshopify.App{
			ApiKey:    apiKey,
			ApiSecret: apiSecret,
		},
	}
}

// Verify reports whether the X-Shopify-Hmac-Sha256 header matches the body. The body stays readable.
func (v *WebhookVerifier) Verify(r *http.Request) bool {
	if v.app.ApiSecret == "" {
		return false
	}
	return v.app.VerifyWebhookRequest(r)
}
