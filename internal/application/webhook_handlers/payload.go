package webhook_handlers

import (
	"encoding/json"
	"fmt"

	"qrcode-shopify-layer/internal/domain"
)

// shopPayload holds the shop identifiers Shopify puts in webhook bodies
type shopPayload struct {
	Domain          string `json:"domain"`
	MyshopifyDomain string `json:"myshopify_domain"`
	ShopDomain      string `json:"shop_domain"`
}

// shopDomain returns the shop the event concerns, preferring the delivery header
func shopDomain(event *domain.WebhookEvent) (string, error) {
	if event.Shop != "" {
		return event.Shop, nil
	}

	var p shopPayload
	if err := json.Unmarshal(event.Payload, &p); err != nil {
		return "", fmt.Errorf("failed to parse %s webhook payload: %w", event.Topic, err)
	}
	for _, s := range []string{p.MyshopifyDomain, p.ShopDomain, p.Domain} {
		if s != "" {
			return s, nil
		}
	}
	return "", fmt.Errorf("%s webhook carries no shop domain", event.Topic)
}
