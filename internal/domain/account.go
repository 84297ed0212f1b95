package domain

import "time"

// OrderCountBucket is the self-reported monthly order volume of a merchant
type OrderCountBucket string

const (
	OrderCountUpTo10   OrderCountBucket = "1" // ~10
	OrderCountUpTo100  OrderCountBucket = "2" // 11~100
	OrderCountUpTo1000 OrderCountBucket = "3" // 101~1000
)

// Label returns the display range of the bucket
func (b OrderCountBucket) Label() string {
	switch b {
	case OrderCountUpTo10:
		return "~10"
	case OrderCountUpTo100:
		return "11~100"
	case OrderCountUpTo1000:
		return "101~1000"
	}
	return ""
}

// Account represents a merchant account registered from the embedded app
type Account struct {
	ID                 int64            `json:"id"`
	Company            string           `json:"company"`
	Email              string           `json:"email"`
	OrderCountPerMonth OrderCountBucket `json:"orderCountPerMonth"`
	Overview           string           `json:"overview"`
	OrderAveragePrice  int64            `json:"orderAveragePrice"`
	PasswordHash       string           `json:"-"`
	CreatedAt          time.Time        `json:"createdAt"`
}
