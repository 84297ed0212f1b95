package webhook_handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"qrcode-shopify-layer/internal/domain"
	"qrcode-shopify-layer/internal/ports"

	"github.com/rs/zerolog"
)

// ProductDeleteHandler removes the QR codes that point to a deleted product
type ProductDeleteHandler struct {
	logger  zerolog.Logger
	qrcodes ports.QRCodeRepository
}

// NewProductDeleteHandler creates a new product delete webhook handler
func NewProductDeleteHandler(logger zerolog.Logger, qrcodes ports.QRCodeRepository) *ProductDeleteHandler {
	return &ProductDeleteHandler{
		logger:  logger,
		qrcodes: qrcodes,
	}
}

// CanHandle returns true if this handler can process the given topic
func (h *ProductDeleteHandler) CanHandle(topic string) bool {
	return topic == domain.TopicProductsDelete
}

// Handle processes a product delete webhook event
func (h *ProductDeleteHandler) Handle(ctx context.Context, event *domain.WebhookEvent) error {
	var product struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(event.Payload, &product); err != nil {
		return fmt.Errorf("failed to parse product webhook payload: %w", err)
	}
	if product.ID == 0 {
		return fmt.Errorf("product webhook carries no product id")
	}
	if event.Shop == "" {
		return fmt.Errorf("product webhook carries no shop domain")
	}

	productID := fmt.Sprintf("gid://shopify/Product/%d", product.ID)
	removed, err := h.qrcodes.DeleteByProduct(ctx, event.Shop, productID)
	if err != nil {
		return fmt.Errorf("failed to delete qr codes of product %s: %w", productID, err)
	}

	h.logger.Info().
		Str("shop", event.Shop).
		Str("productId", productID).
		Int64("qrCodes", removed).
		Msg("Product deleted")
	return nil
}
