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

	"github.com/jmoiron/sqlx"
)

const sessionColumns = `id, shop_domain, shopify_id, state, is_online, scope, expires, online_access_info, access_token, created_at`

// SQLSessionRepository implements SessionStorage on the shared relational database
type SQLSessionRepository struct {
	db *database.DB
}

var _ ports.SessionStorage = (*SQLSessionRepository)(nil)

// NewSQLSessionRepository creates a new SQL session repository
func NewSQLSessionRepository(db *database.DB) *SQLSessionRepository {
	return &SQLSessionRepository{db: db}
}

// StoreSession inserts the session or replaces the stored session with the same id
func (r *SQLSessionRepository) StoreSession(ctx context.Context, session *domain.Session) error {
	if err := r.db.Wait(ctx); err != nil {
		return domain.NewStoreError("store session", err)
	}

	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)
	}
	row, err := entity.SessionRowFromDomain(session)
	if err != nil {
		return domain.NewStoreError("store session", err)
	}

	query := `
		INSERT INTO sessions (
			shop_domain, shopify_id, state, is_online, scope,
			expires, online_access_info, access_token, created_at
		) VALUES (
			:shop_domain, :shopify_id, :state, :is_online, :scope,
			:expires, :online_access_info, :access_token, :created_at
		)
		ON CONFLICT (shopify_id) DO UPDATE SET
			shop_domain = excluded.shop_domain,
			state = excluded.state,
			is_online = excluded.is_online,
			scope = excluded.scope,
			expires = excluded.expires,
			online_access_info = excluded.online_access_info,
			access_token = excluded.access_token`

	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return domain.NewStoreError("store session", err)
	}
	return nil
}

// LoadSession returns the session with the given id, or nil when none is stored
func (r *SQLSessionRepository) LoadSession(ctx context.Context, id string) (*domain.Session, error) {
	if err := r.db.Wait(ctx); err != nil {
		return nil, domain.NewStoreError("load session", err)
	}

	var row entity.SessionRow
	query := r.db.Rebind(`SELECT ` + sessionColumns + ` FROM sessions WHERE shopify_id = ?`)
	err := r.db.GetContext(ctx, &row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.NewStoreError("load session", err)
	}

	session, err := row.ToDomain()
	if err != nil {
		return nil, domain.NewStoreError("load session", err)
	}
	return session, nil
}

// DeleteSession removes the session with the given id
func (r *SQLSessionRepository) DeleteSession(ctx context.Context, id string) error {
	if err := r.db.Wait(ctx); err != nil {
		return domain.NewStoreError("delete session", err)
	}

	query := r.db.Rebind(`DELETE FROM sessions WHERE shopify_id = ?`)
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return domain.NewStoreError("delete session", err)
	}
	return nil
}

// DeleteSessions removes every session whose id is in ids
func (r *SQLSessionRepository) DeleteSessions(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if err := r.db.Wait(ctx); err != nil {
		return domain.NewStoreError("delete sessions", err)
	}

	query, args, err := sqlx.In(`DELETE FROM sessions WHERE shopify_id IN (?)`, ids)
	if err != nil {
		return domain.NewStoreError("delete sessions", err)
	}
	if _, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...); err != nil {
		return domain.NewStoreError("delete sessions", err)
	}
	return nil
}

// FindSessionsByShop returns every session stored for the shop, oldest first
func (r *SQLSessionRepository) FindSessionsByShop(ctx context.Context, shop string) ([]*domain.Session, error) {
	if err := r.db.Wait(ctx); err != nil {
		return nil, domain.NewStoreError("find sessions", err)
	}

	var rows []entity.SessionRow
	query := r.db.Rebind(`SELECT ` + sessionColumns + ` FROM sessions WHERE shop_domain = ? ORDER BY created_at, id`)
	if err := r.db.SelectContext(ctx, &rows, query, shop); err != nil {
		return nil, domain.NewStoreError("find sessions", err)
	}

	sessions := make([]*domain.Session, 0, len(rows))
	for i := range rows {
		s, err := rows[i].ToDomain()
		if err != nil {
			return nil, domain.NewStoreError("find sessions", err)
		}
		sessions = append(sessions, s)
	}
	return sessions, nil
}
