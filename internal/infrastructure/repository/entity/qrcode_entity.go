package entity

import (
	"time"

	"qrcode-shopify-layer/internal/domain"
)

// QRCodeRow represents a row of the qr_codes relation
type QRCodeRow struct {
	ID           int64     `db:"id"`
	ShopDomain   string    `db:"shop_domain"`
	Title        string    `db:"title"`
	ProductID    string    `db:"product_id"`
	VariantID    string    `db:"variant_id"`
	Handle       string    `db:"handle"`
	DiscountID   string    `db:"discount_id"`
	DiscountCode string    `db:"discount_code"`
	Destination  string    `db:"destination"`
	Scans        int64     `db:"scans"`
	CreatedAt    time.Time `db:"created_at"`
}

// ToDomain converts the row to a domain QR code. The destination is copied as stored.
func (r *QRCodeRow) ToDomain() *domain.QRCode {
	return &domain.QRCode{
		ID:           r.ID,
		ShopDomain:   r.ShopDomain,
		Title:        r.Title,
		ProductID:    r.ProductID,
		VariantID:    r.VariantID,
		Handle:       r.Handle,
		DiscountID:   r.DiscountID,
		DiscountCode: r.DiscountCode,
		Destination:  domain.Destination(r.Destination),
		Scans:        r.Scans,
		CreatedAt:    r.CreatedAt,
	}
}

// QRCodeRowFromFields builds the row inserted for a new QR code of shop
func QRCodeRowFromFields(shop string, f domain.QRCodeFields, createdAt time.Time) *QRCodeRow {
	return &QRCodeRow{
		ShopDomain:   shop,
		Title:        f.Title,
		ProductID:    f.ProductID,
		VariantID:    f.VariantID,
		Handle:       f.Handle,
		DiscountID:   f.DiscountID,
		DiscountCode: f.DiscountCode,
		Destination:  string(f.Destination),
		CreatedAt:    createdAt,
	}
}
