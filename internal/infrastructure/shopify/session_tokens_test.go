package shopify

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qrcode-shopify-layer/internal/domain"
	"qrcode-shopify-layer/internal/infrastructure/database/databasetest"
	"qrcode-shopify-layer/internal/infrastructure/repository"
)

func TestSessionTokens_OfflineSession(t *testing.T) {
	ctx := context.Background()
	sessions := repository.NewSQLSessionRepository(databasetest.New(t))
	tokens := NewSessionTokens(sessions, zerolog.Nop())

	got, err := tokens.OfflineSession(ctx, "shop.myshopify.com")
	require.NoError(t, err)
	assert.Nil(t, got, "not installed")

	require.NoError(t, sessions.StoreSession(ctx, &domain.Session{
		ID:    domain.OfflineSessionID("shop.myshopify.com"),
		Shop:  "shop.myshopify.com",
		State: "installed",
	}))
	got, err = tokens.OfflineSession(ctx, "shop.myshopify.com")
	require.NoError(t, err)
	assert.Nil(t, got, "no access token")

	past := time.Now().Add(-time.Hour)
	require.NoError(t, sessions.StoreSession(ctx, &domain.Session{
		ID:          domain.OfflineSessionID("shop.myshopify.com"),
		Shop:        "shop.myshopify.com",
		State:       "installed",
		AccessToken: "shpat_1",
		Expires:     &past,
	}))
	got, err = tokens.OfflineSession(ctx, "shop.myshopify.com")
	require.NoError(t, err)
	assert.Nil(t, got, "expired")

	require.NoError(t, sessions.StoreSession(ctx, &domain.Session{
		ID:          domain.OfflineSessionID("shop.myshopify.com"),
		Shop:        "shop.myshopify.com",
		State:       "installed",
		AccessToken: "shpat_1",
	}))
	got, err = tokens.OfflineSession(ctx, "shop.myshopify.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "shpat_1", got.AccessToken)
}
