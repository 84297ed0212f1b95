package entity

import (
	"time"

	"qrcode-shopify-layer/internal/domain"
)

// AccountRow represents a row of the accounts relation
type AccountRow struct {
	ID                 int64     `db:"id"`
	Company            string    `db:"company"`
	Email              string    `db:"email"`
	OrderCountPerMonth string    `db:"order_count_per_month"`
	Overview           string    `db:"overview"`
	OrderAveragePrice  int64     `db:"order_average_price"`
	PasswordHash       string    `db:"password_hash"`
	CreatedAt          time.Time `db:"created_at"`
}

// ToDomain converts the row to a domain account
func (r *AccountRow) ToDomain() *domain.Account {
	return &domain.Account{
		ID:                 r.ID,
		Company:            r.Company,
		Email:              r.Email,
		OrderCountPerMonth: domain.OrderCountBucket(r.OrderCountPerMonth),
		Overview:           r.Overview,
		OrderAveragePrice:  r.OrderAveragePrice,
		PasswordHash:       r.PasswordHash,
		CreatedAt:          r.CreatedAt,
	}
}

// AccountRowFromDomain converts a domain account to a row
func AccountRowFromDomain(a *domain.Account) *AccountRow {
	return &AccountRow{
		ID:                 a.ID,
		Company:            a.Company,
		Email:              a.Email,
		OrderCountPerMonth: string(a.OrderCountPerMonth),
		Overview:           a.Overview,
		OrderAveragePrice:  a.OrderAveragePrice,
		PasswordHash:       a.PasswordHash,
		CreatedAt:          a.CreatedAt,
	}
}
