package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qrcode-shopify-layer/internal/domain"
	"qrcode-shopify-layer/internal/infrastructure/database/databasetest"
	"qrcode-shopify-layer/internal/infrastructure/repository"
	"qrcode-shopify-layer/internal/ports"
)

func onlineSession(id, shop string, createdAt time.Time) *domain.Session {
	expires := createdAt.Add(24 * time.Hour).Truncate(time.Millisecond)
	return &domain.Session{
		ID:          id,
		Shop:        shop,
		State:       "state-" + id,
		IsOnline:    true,
		Scope:       "read_products,write_products",
		Expires:     &expires,
		AccessToken: "shpat_" + id,
		CreatedAt:   createdAt,
		OnlineAccessInfo: &domain.OnlineAccessInfo{
			ExpiresIn:           86400,
			AssociatedUserScope: "read_products",
			AssociatedUser: domain.AssociatedUser{
				ID:            902541635,
				FirstName:     "John",
				LastName:      "Smith",
				Email:         "john@example.com",
				EmailVerified: true,
				AccountOwner:  true,
				Locale:        "en",
			},
		},
	}
}

// testSessionStorage exercises the contract every session backend must satisfy
func testSessionStorage(t *testing.T, store ports.SessionStorage) {
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Millisecond)

	t.Run("load missing", func(t *testing.T) {
		s, err := store.LoadSession(ctx, "missing")
		require.NoError(t, err)
		assert.Nil(t, s)
	})

	t.Run("store and load", func(t *testing.T) {
		want := onlineSession("session-1", "one.myshopify.com", base)
		require.NoError(t, store.StoreSession(ctx, want))

		got, err := store.LoadSession(ctx, "session-1")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, want.ID, got.ID)
		assert.Equal(t, want.Shop, got.Shop)
		assert.Equal(t, want.State, got.State)
		assert.True(t, got.IsOnline)
		assert.Equal(t, want.Scope, got.Scope)
		assert.Equal(t, want.AccessToken, got.AccessToken)
		require.NotNil(t, got.Expires)
		assert.True(t, want.Expires.Equal(*got.Expires))
		assert.Equal(t, want.OnlineAccessInfo, got.OnlineAccessInfo)
	})

	t.Run("store replaces", func(t *testing.T) {
		s := &domain.Session{ID: "offline_two.myshopify.com", Shop: "two.myshopify.com", State: "a", CreatedAt: base}
		require.NoError(t, store.StoreSession(ctx, s))

		s.State = "b"
		s.AccessToken = "shpat_new"
		require.NoError(t, store.StoreSession(ctx, s))

		got, err := store.LoadSession(ctx, s.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "b", got.State)
		assert.Equal(t, "shpat_new", got.AccessToken)
		assert.Nil(t, got.Expires)
		assert.Nil(t, got.OnlineAccessInfo)

		found, err := store.FindSessionsByShop(ctx, "two.myshopify.com")
		require.NoError(t, err)
		assert.Len(t, found, 1)
	})

	t.Run("find by shop returns every session oldest first", func(t *testing.T) {
		shop := "three.myshopify.com"
		require.NoError(t, store.StoreSession(ctx, onlineSession("three-b", shop, base.Add(2*time.Second))))
		require.NoError(t, store.StoreSession(ctx, onlineSession("three-a", shop, base.Add(time.Second))))
		require.NoError(t, store.StoreSession(ctx, onlineSession("other", "four.myshopify.com", base)))

		found, err := store.FindSessionsByShop(ctx, shop)
		require.NoError(t, err)
		require.Len(t, found, 2)
		assert.Equal(t, "three-a", found[0].ID)
		assert.Equal(t, "three-b", found[1].ID)

		none, err := store.FindSessionsByShop(ctx, "nobody.myshopify.com")
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.StoreSession(ctx, onlineSession("doomed", "five.myshopify.com", base)))
		require.NoError(t, store.DeleteSession(ctx, "doomed"))

		got, err := store.LoadSession(ctx, "doomed")
		require.NoError(t, err)
		assert.Nil(t, got)

		require.NoError(t, store.DeleteSession(ctx, "doomed"), "deleting an absent session succeeds")
	})

	t.Run("delete many", func(t *testing.T) {
		shop := "six.myshopify.com"
		for _, id := range []string{"six-a", "six-b", "six-c"} {
			require.NoError(t, store.StoreSession(ctx, onlineSession(id, shop, base)))
		}

		require.NoError(t, store.DeleteSessions(ctx, nil))
		require.NoError(t, store.DeleteSessions(ctx, []string{"six-a", "six-c", "never-stored"}))

		found, err := store.FindSessionsByShop(ctx, shop)
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "six-b", found[0].ID)
	})
}

func TestSQLSessionRepository(t *testing.T) {
	db := databasetest.New(t)
	testSessionStorage(t, repository.NewSQLSessionRepository(db))
}

func TestSQLSessionRepository_WaitsForSchema(t *testing.T) {
	db := databasetest.Connect(t)
	store := repository.NewSQLSessionRepository(db)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := store.LoadSession(ctx, "offline_shop.myshopify.com")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStoreFailure)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	require.NoError(t, db.EnsureSchema(context.Background()))
	s, err := store.LoadSession(context.Background(), "offline_shop.myshopify.com")
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestSQLSessionRepository_StoreFailure(t *testing.T) {
	db := databasetest.New(t)
	store := repository.NewSQLSessionRepository(db)
	require.NoError(t, db.Close())

	err := store.StoreSession(context.Background(), onlineSession("x", "closed.myshopify.com", time.Now()))
	require.Error(t, err)

	var storeErr *domain.StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "store session", storeErr.Op)
}
