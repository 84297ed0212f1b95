package entity

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"qrcode-shopify-layer/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionRow represents a row of the sessions relation
type SessionRow struct {
	ID               int64          `db:"id"`
	ShopDomain       string         `db:"shop_domain"`
	ShopifyID        string         `db:"shopify_id"`
	State            string         `db:"state"`
	IsOnline         bool           `db:"is_online"`
	Scope            sql.NullString `db:"scope"`
	Expires          sql.NullInt64  `db:"expires"` // Unix milliseconds
	OnlineAccessInfo sql.NullString `db:"online_access_info"`
	AccessToken      sql.NullString `db:"access_token"`
	CreatedAt        time.Time      `db:"created_at"`
}

// ToDomain converts the row to a domain session
func (r *SessionRow) ToDomain() (*domain.Session, error) {
	s := &domain.Session{
		ID:          r.ShopifyID,
		Shop:        r.ShopDomain,
		State:       r.State,
		IsOnline:    r.IsOnline,
		Scope:       r.Scope.String,
		AccessToken: r.AccessToken.String,
		CreatedAt:   r.CreatedAt,
	}
	if r.Expires.Valid {
		expires := time.UnixMilli(r.Expires.Int64).UTC()
		s.Expires = &expires
	}
	if r.OnlineAccessInfo.Valid && r.OnlineAccessInfo.String != "" {
		var info domain.OnlineAccessInfo
		if err := json.Unmarshal([]byte(r.OnlineAccessInfo.String), &info); err != nil {
			return nil, fmt.Errorf("failed to decode online access info of session %s: %w", r.ShopifyID, err)
		}
		s.OnlineAccessInfo = &info
	}
	return s, nil
}

// SessionRowFromDomain converts a domain session to a row
func SessionRowFromDomain(s *domain.Session) (*SessionRow, error) {
	row := &SessionRow{
		ShopDomain:  s.Shop,
		ShopifyID:   s.ID,
		State:       s.State,
		IsOnline:    s.IsOnline,
		Scope:       nullString(s.Scope),
		AccessToken: nullString(s.AccessToken),
		CreatedAt:   s.CreatedAt.UTC(),
	}
	if s.Expires != nil {
		row.Expires = sql.NullInt64{Int64: s.Expires.UnixMilli(), Valid: true}
	}
	if s.OnlineAccessInfo != nil {
		data, err := json.Marshal(s.OnlineAccessInfo)
		if err != nil {
			return nil, fmt.Errorf("failed to encode online access info of session %s: %w", s.ID, err)
		}
		row.OnlineAccessInfo = sql.NullString{String: string(data), Valid: true}
	}
	return row, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// MongoSessionDoc represents a session in MongoDB
type MongoSessionDoc struct {
	ID               primitive.ObjectID       `bson:"_id,omitempty"`
	ShopifyID        string                   `bson:"shopifyId"`
	Shop             string                   `bson:"shop"`
	State            string                   `bson:"state"`
	IsOnline         bool                     `bson:"isOnline"`
	Scope            string                   `bson:"scope,omitempty"`
	Expires          *time.Time               `bson:"expires,omitempty"`
	OnlineAccessInfo *domain.OnlineAccessInfo `bson:"onlineAccessInfo,omitempty"`
	AccessToken      string                   `bson:"accessToken,omitempty"`
	CreatedAt        time.Time                `bson:"createdAt"`
}

// ToDomain converts the MongoDB document to a domain session
func (d *MongoSessionDoc) ToDomain() *domain.Session {
	s := &domain.Session{
		ID:               d.ShopifyID,
		Shop:             d.Shop,
		State:            d.State,
		IsOnline:         d.IsOnline,
		Scope:            d.Scope,
		OnlineAccessInfo: d.OnlineAccessInfo,
		AccessToken:      d.AccessToken,
		CreatedAt:        d.CreatedAt,
	}
	if d.Expires != nil {
		expires := d.Expires.UTC()
		s.Expires = &expires
	}
	return s
}

// MongoSessionDocFromDomain converts a domain session to a MongoDB document.
// The ObjectID is left zero; documents are keyed by shopifyId.
func MongoSessionDocFromDomain(s *domain.Session) *MongoSessionDoc {
	return &MongoSessionDoc{
		ShopifyID:        s.ID,
		Shop:             s.Shop,
		State:            s.State,
		IsOnline:         s.IsOnline,
		Scope:            s.Scope,
		Expires:          s.Expires,
		OnlineAccessInfo: s.OnlineAccessInfo,
		AccessToken:      s.AccessToken,
		CreatedAt:        s.CreatedAt,
	}
}
