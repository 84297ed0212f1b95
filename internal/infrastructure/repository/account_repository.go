package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"qrcode-shopify-layer/internal/domain"
	"qrcode-shopify-layer/internal/infrastructure/database"
	"qrcode-shopify-layer/internal/infrastructure/repository/entity"
	"qrcode-shopify-layer/internal/ports"
)

// AccountRepository implements ports.AccountRepository on the shared relational database
type AccountRepository struct {
	db *database.DB
}

var _ ports.AccountRepository = (*AccountRepository)(nil)

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *database.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// Create inserts the account and sets its ID and creation time
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if err := r.db.Wait(ctx); err != nil {
		return domain.NewStoreError("create account", err)
	}

	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)
	}
	row := entity.AccountRowFromDomain(account)

	query := r.db.Rebind(`
		INSERT INTO accounts (
			company, email, order_count_per_month, overview,
			order_average_price, password_hash, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id`)

	var id int64
	err := r.db.GetContext(ctx, &id, query,
		row.Company, row.Email, row.OrderCountPerMonth, row.Overview,
		row.OrderAveragePrice, row.PasswordHash, row.CreatedAt,
	)
	if r.db.Dialect.IsUniqueViolation(err) {
		return domain.ErrAccountExists
	}
	if err != nil {
		return domain.NewStoreError("create account", err)
	}

	account.ID = id
	return nil
}

// GetByEmail returns the account registered with email, or nil when none matched
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	if err := r.db.Wait(ctx); err != nil {
		return nil, domain.NewStoreError("get account", err)
	}

	var row entity.AccountRow
	query := r.db.Rebind(`
		SELECT id, company, email, order_count_per_month, overview,
		       order_average_price, password_hash, created_at
		FROM accounts WHERE email = ?`)
	err := r.db.GetContext(ctx, &row, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.NewStoreError("get account", err)
	}
	return row.ToDomain(), nil
}
