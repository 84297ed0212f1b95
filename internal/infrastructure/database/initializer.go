package database

import (
	"context"
	"fmt"
	"sync"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// attempt is one bootstrap run; done is closed once err is final
type attempt struct {
	done chan struct{}
	err  error
}

func newAttempt() *attempt {
	return &attempt{done: make(chan struct{})}
}

func (a *attempt) finished() bool {
	select {
	case <-a.done:
		return true
	default:
		return false
	}
}

// SchemaInitializer makes sure the required relations exist and publishes a readiness signal.
type SchemaInitializer struct {
	db      *sqlx.DB
	dialect Dialect
	runner  *runner
	logger  zerolog.Logger

	group singleflight.Group

	mu      sync.Mutex
	current *attempt
	ready   chan struct{}
}

// NewSchemaInitializer creates an initializer for db. Nothing runs until EnsureSchema.
func NewSchemaInitializer(db *sqlx.DB, dialect Dialect, logger zerolog.Logger) *SchemaInitializer {
	return &SchemaInitializer{
		db:      db,
		dialect: dialect,
		runner:  &runner{db: db, dialect: dialect, migrations: migrations},
		logger:  logger,
		current: newAttempt(),
		ready:   make(chan struct{}),
	}
}

// EnsureSchema creates any missing relation. It is safe to call repeatedly and from many
// goroutines: concurrent calls share one underlying run, and once the schema is ready later
// calls return immediately. After a failure the next call starts a new run.
func (s *SchemaInitializer) EnsureSchema(ctx context.Context) error {
	_, err, _ := s.group.Do("schema", func() (interface{}, error) {
		s.mu.Lock()
		a := s.current
		if a.finished() {
			if a.err == nil {
				s.mu.Unlock()
				return nil, nil
			}
			a = newAttempt()
			s.current = a
		}
		s.mu.Unlock()

		err := s.bootstrap(ctx)

		s.mu.Lock()
		a.err = err
		close(a.done)
		if err == nil {
			close(s.ready)
		}
		s.mu.Unlock()
		return nil, err
	})
	return err
}

// Ready returns a channel that is closed once the schema exists
func (s *SchemaInitializer) Ready() <-chan struct{} {
	return s.ready
}

// Wait blocks until the schema is ready, the pending bootstrap fails, or ctx is done.
func (s *SchemaInitializer) Wait(ctx context.Context) error {
	select {
	case <-s.ready:
		return nil
	default:
	}

	s.mu.Lock()
	a := s.current
	s.mu.Unlock()

	select {
	case <-s.ready:
		return nil
	case <-a.done:
		if a.err != nil {
			return fmt.Errorf("schema not ready: %w", a.err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *SchemaInitializer) bootstrap(ctx context.Context) error {
	missing, err := s.MissingRelations(ctx)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		s.logger.Info().
			Strs("relations", missing).
			Str("dialect", s.dialect.Name).
			Msg("Creating missing relations")
	}

	applied, err := s.runner.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}
	if applied > 0 {
		s.logger.Info().Int("applied", applied).Msg("Applied schema migrations")
	}

	// The version table can claim a schema that was altered by hand.
	missing, err = s.MissingRelations(ctx)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return fmt.Errorf("relations %v missing after migration", missing)
	}

	s.logger.Debug().Msg("Schema ready")
	return nil
}

// MissingRelations introspects the catalog and returns the required relations that do not exist
func (s *SchemaInitializer) MissingRelations(ctx context.Context) ([]string, error) {
	var missing []string
	for _, rel := range Relations {
		n, err := s.countRelation(ctx, rel)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			missing = append(missing, rel)
		}
	}
	return missing, nil
}

func (s *SchemaInitializer) countRelation(ctx context.Context, name string) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, s.db.Rebind(s.dialect.tableExistsQuery), name); err != nil {
		return 0, fmt.Errorf("failed to inspect catalog for %s: %w", name, err)
	}
	return n, nil
}
