package webhook_handlers

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

const shop = "shop.myshopify.com"

type fixture struct {
	sessions *repository.SQLSessionRepository
	qrcodes  *repository.QRCodeRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := databasetest.New(t)
	f := &fixture{
		sessions: repository.NewSQLSessionRepository(db),
		qrcodes:  repository.NewQRCodeRepository(db),
	}

	ctx := context.Background()
	now := time.Now().UTC()
	for _, s := range []*domain.Session{
		{ID: domain.OfflineSessionID(shop), Shop: shop, State: "s", AccessToken: "shpat_1", CreatedAt: now},
		{ID: "online-1", Shop: shop, State: "s", IsOnline: true, CreatedAt: now.Add(time.Second)},
		{ID: domain.OfflineSessionID("other.myshopify.com"), Shop: "other.myshopify.com", State: "s", CreatedAt: now},
	} {
		require.NoError(t, f.sessions.StoreSession(ctx, s))
	}

	fields := domain.QRCodeFields{
		Title:       "Shirt",
		ProductID:   "gid://shopify/Product/632910392",
		VariantID:   "gid://shopify/ProductVariant/1",
		Handle:      "shirt",
		Destination: domain.DestinationProduct,
	}
	_, err := f.qrcodes.Create(ctx, shop, fields)
	require.NoError(t, err)
	_, err = f.qrcodes.Create(ctx, "other.myshopify.com", fields)
	require.NoError(t, err)
	return f
}

func TestAppUninstalledHandler(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	h := NewAppUninstalledHandler(zerolog.Nop(), f.sessions)

	require.True(t, h.CanHandle(domain.TopicAppUninstalled))
	require.False(t, h.CanHandle(domain.TopicShopRedact))

	// Shop taken from the payload when the header is absent
	err := h.Handle(ctx, &domain.WebhookEvent{
		Topic:   domain.TopicAppUninstalled,
		Payload: []byte(`{"id":1,"domain":"shop.example.com","myshopify_domain":"shop.myshopify.com"}`),
	})
	require.NoError(t, err)

	left, err := f.sessions.FindSessionsByShop(ctx, shop)
	require.NoError(t, err)
	assert.Empty(t, left)

	other, err := f.sessions.FindSessionsByShop(ctx, "other.myshopify.com")
	require.NoError(t, err)
	assert.Len(t, other, 1)

	codes, err := f.qrcodes.List(ctx, shop)
	require.NoError(t, err)
	assert.Len(t, codes, 1, "QR codes survive uninstall")
}

func TestShopRedactHandler(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	h := NewShopRedactHandler(zerolog.Nop(), f.qrcodes, f.sessions)

	err := h.Handle(ctx, &domain.WebhookEvent{
		Topic:   domain.TopicShopRedact,
		Payload: []byte(`{"shop_id":954889,"shop_domain":"shop.myshopify.com"}`),
	})
	require.NoError(t, err)

	codes, err := f.qrcodes.List(ctx, shop)
	require.NoError(t, err)
	assert.Empty(t, codes)

	sessions, err := f.sessions.FindSessionsByShop(ctx, shop)
	require.NoError(t, err)
	assert.Empty(t, sessions)

	codes, err = f.qrcodes.List(ctx, "other.myshopify.com")
	require.NoError(t, err)
	assert.Len(t, codes, 1)
}

func TestShopRedactHandler_NoShop(t *testing.T) {
	f := newFixture(t)
	h := NewShopRedactHandler(zerolog.Nop(), f.qrcodes, f.sessions)

	err := h.Handle(context.Background(), &domain.WebhookEvent{Topic: domain.TopicShopRedact, Payload: []byte(`{}`)})
	assert.Error(t, err)
}

func TestProductDeleteHandler(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	h := NewProductDeleteHandler(zerolog.Nop(), f.qrcodes)

	err := h.Handle(ctx, &domain.WebhookEvent{
		Topic:   domain.TopicProductsDelete,
		Shop:    shop,
		Payload: []byte(`{"id":632910392}`),
	})
	require.NoError(t, err)

	codes, err := f.qrcodes.List(ctx, shop)
	require.NoError(t, err)
	assert.Empty(t, codes)

	codes, err = f.qrcodes.List(ctx, "other.myshopify.com")
	require.NoError(t, err)
	assert.Len(t, codes, 1)
}

func TestCustomerPrivacyHandler(t *testing.T) {
	h := NewCustomerPrivacyHandler(zerolog.Nop())

	assert.True(t, h.CanHandle(domain.TopicCustomersRedact))
	assert.True(t, h.CanHandle(domain.TopicCustomersDataRequest))
	assert.NoError(t, h.Handle(context.Background(), &domain.WebhookEvent{
		Topic:   domain.TopicCustomersRedact,
		Payload: []byte(`{"shop_domain":"shop.myshopify.com","customer":{"id":191167}}`),
	}))
	assert.Error(t, h.Handle(context.Background(), &domain.WebhookEvent{
		Topic:   domain.TopicCustomersRedact,
		Payload: []byte(`not json`),
	}))
}
