package ports

import (
	"context"

	"qrcode-shopify-layer/internal/domain"
)

// SessionStorage is the capability contract the Shopify host layer uses to persist sessions.
// Every backend (SQL, Redis, MongoDB) implements it.
type SessionStorage interface {
	// StoreSession persists the session, replacing any stored session with the same id
	StoreSession(ctx context.Context, session *domain.Session) error

	// LoadSession returns the session with the given id, or nil when none is stored
	LoadSession(ctx context.Context, id string) (*domain.Session, error)

	// DeleteSession removes the session with the given id. Deleting an absent id succeeds.
	DeleteSession(ctx context.Context, id string) error

	// DeleteSessions removes every session whose id is in ids
	DeleteSessions(ctx context.Context, ids []string) error

	// FindSessionsByShop returns every session stored for the shop, oldest first
	FindSessionsByShop(ctx context.Context, shop string) ([]*domain.Session, error)
}
