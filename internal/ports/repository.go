package ports

import (
	"context"

	"qrcode-shopify-layer/internal/domain"
)

// QRCodeRepository defines the interface for QR code persistence
type QRCodeRepository interface {
	// Create inserts a QR code with zero scans and returns its id
	Create(ctx context.Context, shop string, fields domain.QRCodeFields) (int64, error)

	// Update replaces the mutable fields; returns domain.ErrNotFound when no row matched
	Update(ctx context.Context, id int64, fields domain.QRCodeFields) error

	// List returns every QR code of the shop
	List(ctx context.Context, shop string) ([]*domain.QRCode, error)

	// Get returns the QR code, or nil when none matched
	Get(ctx context.Context, id int64) (*domain.QRCode, error)

	// Delete removes the QR code; returns domain.ErrNotFound when no row matched
	Delete(ctx context.Context, id int64) error

	// DeleteByShop removes every QR code of the shop and returns how many were removed
	DeleteByShop(ctx context.Context, shop string) (int64, error)

	// DeleteByProduct removes every QR code of the shop that points to the product
	DeleteByProduct(ctx context.Context, shop, productID string) (int64, error)

	// IncrementScans adds one to the persisted scan counter in a single statement
	IncrementScans(ctx context.Context, id int64) error
}

// AccountRepository defines the interface for merchant account persistence
type AccountRepository interface {
	// Create inserts the account and sets its ID; returns domain.ErrAccountExists on a duplicate email
	Create(ctx context.Context, account *domain.Account) error

	// GetByEmail returns the account, or nil when none matched
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
}
