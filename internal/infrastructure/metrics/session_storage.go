package metrics

import (
	"context"
	"time"

	"qrcode-shopify-layer/internal/domain"
	"qrcode-shopify-layer/internal/ports"
)

// InstrumentedSessionStorage records the latency of every call to the wrapped storage
type InstrumentedSessionStorage struct {
	next    ports.SessionStorage
	metrics *Metrics
}

var _ ports.SessionStorage = (*InstrumentedSessionStorage)(nil)

// InstrumentSessionStorage wraps next
func InstrumentSessionStorage(next ports.SessionStorage, m *Metrics) *InstrumentedSessionStorage {
	return &InstrumentedSessionStorage{next: next, metrics: m}
}

func (s *InstrumentedSessionStorage) observe(op string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	s.metrics.SessionOps.WithLabelValues(op, outcome).Observe(time.Since(start).Seconds())
}

func (s *InstrumentedSessionStorage) StoreSession(ctx context.Context, session *domain.Session) error {
	start := time.Now()
	err := s.next.StoreSession(ctx, session)
	s.observe("store", start, err)
	return err
}

func (s *InstrumentedSessionStorage) LoadSession(ctx context.Context, id string) (*domain.Session, error) {
	start := time.Now()
	session, err := s.next.LoadSession(ctx, id)
	s.observe("load", start, err)
	return session, err
}

func (s *InstrumentedSessionStorage) DeleteSession(ctx context.Context, id string) error {
	start := time.Now()
	err := s.next.DeleteSession(ctx, id)
	s.observe("delete", start, err)
	return err
}

func (s *InstrumentedSessionStorage) DeleteSessions(ctx context.Context, ids []string) error {
	start := time.Now()
	err := s.next.DeleteSessions(ctx, ids)
	s.observe("delete_many", start, err)
	return err
}

func (s *InstrumentedSessionStorage) FindSessionsByShop(ctx context.Context, shop string) ([]*domain.Session, error) {
	start := time.Now()
	sessions, err := s.next.FindSessionsByShop(ctx, shop)
	s.observe("find_by_shop", start, err)
	return sessions, err
}
