package shopify

import (
	"context"
	"fmt"
	"time"

	"qrcode-shopify-layer/internal/domain"
	"qrcode-shopify-layer/internal/ports"

	"github.com/rs/zerolog"
)

// SessionTokens looks up the access tokens the host layer stored for a shop
type SessionTokens struct {
	sessions ports.SessionStorage
	logger   zerolog.Logger
	now      func() time.Time
}

// NewSessionTokens creates a token lookup over the session storage
func NewSessionTokens(sessions ports.SessionStorage, logger zerolog.Logger) *SessionTokens {
	return &SessionTokens{
		sessions: sessions,
		logger:   logger,
		now:      time.Now,
	}
}

// OfflineSession returns the active offline session of shop, or nil when the shop has not
// installed the app or its token is no longer usable
func (t *SessionTokens) OfflineSession(ctx context.Context, shop string) (*domain.Session, error) {
	session, err := t.sessions.LoadSession(ctx, domain.OfflineSessionID(shop))
	if err != nil {
		return nil, fmt.Errorf("failed to load offline session: %w", err)
	}
	if session == nil {
		return nil, nil
	}
	if !session.IsActive(t.now()) {
		t.logger.Debug().
			Str("shop", shop).
			Msg("Offline session has no usable access token")
		return nil, nil
	}
	return session, nil
}
