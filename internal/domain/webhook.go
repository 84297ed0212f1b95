package domain

import "time"

// Webhook topics the app subscribes to
const (
	TopicAppUninstalled       = "app/uninstalled"
	TopicShopRedact           = "shop/redact"
	TopicCustomersDataRequest = "customers/data_request"
	TopicCustomersRedact      = "customers/redact"
	TopicProductsDelete       = "products/delete"
)

// WebhookEvent represents a verified webhook delivery from Shopify
type WebhookEvent struct {
	Topic      string    `json:"topic"`
	Shop       string    `json:"shop"`
	Payload    []byte    `json:"payload"`
	Verified   bool      `json:"verified"`
	ReceivedAt time.Time `json:"receivedAt"`
}
