package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"qrcode-shopify-layer/internal/domain"
	"qrcode-shopify-layer/internal/ports"

	"github.com/redis/go-redis/v9"
)

// RedisSessionRepository implements SessionStorage on Redis. Each session is a JSON string
// under its own key; a sorted set per shop, scored by creation time, indexes the session ids.
type RedisSessionRepository struct {
	client *redis.Client
	prefix string
}

var _ ports.SessionStorage = (*RedisSessionRepository)(nil)

// NewRedisSessionRepository creates a Redis session repository. Keys are namespaced by prefix.
func NewRedisSessionRepository(client *redis.Client, prefix string) *RedisSessionRepository {
	if prefix == "" {
		prefix = "qrcodes"
	}
	return &RedisSessionRepository{client: client, prefix: prefix}
}

func (r *RedisSessionRepository) sessionKey(id string) string {
	return fmt.Sprintf("%s:session:%s", r.prefix, id)
}

func (r *RedisSessionRepository) shopKey(shop string) string {
	return fmt.Sprintf("%s:shop_sessions:%s", r.prefix, shop)
}

// StoreSession writes the session and moves it to the index of its shop
func (r *RedisSessionRepository) StoreSession(ctx context.Context, session *domain.Session) error {
	previous, err := r.LoadSession(ctx, session.ID)
	if err != nil {
		return err
	}
	if session.CreatedAt.IsZero() {
		if previous != nil {
			session.CreatedAt = previous.CreatedAt
		} else {
			session.CreatedAt = time.Now().UTC()
		}
	}

	data, err := json.Marshal(session)
	if err != nil {
		return domain.NewStoreError("store session", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if previous != nil && previous.Shop != session.Shop {
			pipe.ZRem(ctx, r.shopKey(previous.Shop), session.ID)
		}
		pipe.Set(ctx, r.sessionKey(session.ID), data, 0)
		pipe.ZAdd(ctx, r.shopKey(session.Shop), redis.Z{
			Score:  float64(session.CreatedAt.UnixMilli()),
			Member: session.ID,
		})
		return nil
	})
	if err != nil {
		return domain.NewStoreError("store session", err)
	}
	return nil
}

// LoadSession returns the session with the given id, or nil when none is stored
func (r *RedisSessionRepository) LoadSession(ctx context.Context, id string) (*domain.Session, error) {
	data, err := r.client.Get(ctx, r.sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.NewStoreError("load session", err)
	}

	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, domain.NewStoreError("load session", err)
	}
	return &session, nil
}

// DeleteSession removes the session with the given id
func (r *RedisSessionRepository) DeleteSession(ctx context.Context, id string) error {
	session, err := r.LoadSession(ctx, id)
	if err != nil {
		return err
	}
	if session == nil {
		return nil
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.sessionKey(id))
		pipe.ZRem(ctx, r.shopKey(session.Shop), id)
		return nil
	})
	if err != nil {
		return domain.NewStoreError("delete session", err)
	}
	return nil
}

// DeleteSessions removes every session whose id is in ids
func (r *RedisSessionRepository) DeleteSessions(ctx context.Context, ids []string) error {
	for _, id := range ids {
		if err := r.DeleteSession(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// FindSessionsByShop returns every session stored for the shop, oldest first
func (r *RedisSessionRepository) FindSessionsByShop(ctx context.Context, shop string) ([]*domain.Session, error) {
	ids, err := r.client.ZRange(ctx, r.shopKey(shop), 0, -1).Result()
	if err != nil {
		return nil, domain.NewStoreError("find sessions", err)
	}
	if len(ids) == 0 {
		return []*domain.Session{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.sessionKey(id)
	}
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, domain.NewStoreError("find sessions", err)
	}

	sessions := make([]*domain.Session, 0, len(values))
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			// Index entry outlived its session key
			continue
		}
		var session domain.Session
		if err := json.Unmarshal([]byte(raw), &session); err != nil {
			return nil, domain.NewStoreError("find sessions", err)
		}
		sessions = append(sessions, &session)
	}
	return sessions, nil
}
