package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qrcode-shopify-layer/internal/domain"
	"qrcode-shopify-layer/internal/infrastructure/database/databasetest"
	"qrcode-shopify-layer/internal/infrastructure/repository"
)

func TestAccountRepository(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewAccountRepository(databasetest.New(t))

	account := &domain.Account{
		Company:            "Acme",
		Email:              "owner@acme.test",
		OrderCountPerMonth: domain.OrderCountUpTo100,
		Overview:           "Hardware",
		OrderAveragePrice:  120,
		PasswordHash:       "$2a$10$hash",
	}
	require.NoError(t, repo.Create(ctx, account))
	assert.Positive(t, account.ID)

	got, err := repo.GetByEmail(ctx, "owner@acme.test")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, account.ID, got.ID)
	assert.Equal(t, domain.OrderCountUpTo100, got.OrderCountPerMonth)
	assert.Equal(t, "$2a$10$hash", got.PasswordHash)

	dup := *account
	dup.ID = 0
	assert.ErrorIs(t, repo.Create(ctx, &dup), domain.ErrAccountExists)

	missing, err := repo.GetByEmail(ctx, "nobody@acme.test")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
