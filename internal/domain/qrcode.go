package domain

import "time"

// Destination is where a scanned QR code sends the customer
type Destination string

const (
	DestinationProduct  Destination = "product"  // Product detail page
	DestinationCheckout Destination = "checkout" // Cart prefilled with the variant
)

// Destinations lists every recognized destination
var Destinations = []Destination{DestinationProduct, DestinationCheckout}

// Valid reports whether d is one of the recognized destinations
func (d Destination) Valid() bool {
	switch d {
	case DestinationProduct, DestinationCheckout:
		return true
	}
	return false
}

// ParseDestination converts s into a Destination, rejecting unknown values
func ParseDestination(s string) (Destination, error) {
	d := Destination(s)
	if !d.Valid() {
		return "", NewValidationError("destination", "must be one of product, checkout")
	}
	return d, nil
}

// QRCode represents a merchant QR code that redirects to a storefront destination
type QRCode struct {
	ID           int64       `json:"id"`
	ShopDomain   string      `json:"shopDomain"`
	Title        string      `json:"title"`
	ProductID    string      `json:"productId"`
	VariantID    string      `json:"variantId"`
	Handle       string      `json:"handle"`
	DiscountID   string      `json:"discountId"`
	DiscountCode string      `json:"discountCode"`
	Destination  Destination `json:"destination"`
	Scans        int64       `json:"scans"`
	CreatedAt    time.Time   `json:"createdAt"`

	// Derived at read time, never persisted
	ImageURL string `json:"imageUrl,omitempty"`
	ScanURL  string `json:"scanUrl,omitempty"`
}

// QRCodeFields holds the mutable fields of a QR code
type QRCodeFields struct {
	Title        string      `json:"title" validate:"required,max=511"`
	ProductID    string      `json:"productId" validate:"required,max=255"`
	VariantID    string      `json:"variantId" validate:"required,max=255"`
	Handle       string      `json:"handle" validate:"required,max=255"`
	DiscountID   string      `json:"discountId" validate:"max=255"`
	DiscountCode string      `json:"discountCode" validate:"max=255"`
	Destination  Destination `json:"destination" validate:"required,oneof=product checkout"`
}

// Fields returns the mutable fields of q
func (q *QRCode) Fields() QRCodeFields {
	return QRCodeFields{
		Title:        q.Title,
		ProductID:    q.ProductID,
		VariantID:    q.VariantID,
		Handle:       q.Handle,
		DiscountID:   q.DiscountID,
		DiscountCode: q.DiscountCode,
		Destination:  q.Destination,
	}
}

// ScanEvent is published after a scan has been counted
type ScanEvent struct {
	QRCodeID       int64       `json:"qrCodeId"`
	Shop           string      `json:"shop"`
	Destination    Destination `json:"destination"`
	DestinationURL string      `json:"destinationUrl,omitempty"`
	Error          string      `json:"error,omitempty"`
	ScannedAt      time.Time   `json:"scannedAt"`
}
