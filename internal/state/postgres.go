package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/juju/clock"

	"github.com/conn-castle/upgrade-console/internal/messages"
)

// PostgresConfig configures the Postgres backend.
type PostgresConfig struct {
	DSN         string
	PingTimeout time.Duration
}

// Validate checks that the config can open a connection.
func (c PostgresConfig) Validate() error {
	if strings.TrimSpace(c.DSN) == "" {
		return errors.New(messages.StatePostgresDSNRequired)
	}
	if c.PingTimeout < 0 {
		return errors.New(messages.StatePostgresPingTimeoutInvalid)
	}
	return nil
}

// DB is the subset of *sql.DB the store uses.
type DB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const (
	createTableSQL = `CREATE TABLE IF NOT EXISTS upgrade_wizard_state (
	identifier text PRIMARY KEY,
	done boolean NOT NULL DEFAULT false,
	done_at timestamptz
)`
	selectDoneSQL = `SELECT done FROM upgrade_wizard_state WHERE identifier = $1`
	markDoneSQL   = `INSERT INTO upgrade_wizard_state (identifier, done, done_at) VALUES ($1, true, $2)
ON CONFLICT (identifier) DO UPDATE SET done = true, done_at = EXCLUDED.done_at`
)

// PostgresStore keeps done flags in the upgrade_wizard_state table.
type PostgresStore struct {
	db     DB
	closer func() error
	clock  clock.Clock
}

// OpenPostgres connects with the pgx driver, pings, and ensures the table exists.
func OpenPostgres(ctx context.Context, cfg PostgresConfig, clk clock.Clock) (*PostgresStore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	db, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf(messages.StatePostgresOpenFmt, err)
	}
	timeout := cfg.PingTimeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf(messages.StatePostgresPingFmt, err)
	}
	store := NewPostgresStore(db, clk)
	store.closer = db.Close
	if err := store.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// NewPostgresStore wraps an open database handle.
func NewPostgresStore(db DB, clk clock.Clock) *PostgresStore {
	if clk == nil {
		clk = clock.WallClock
	}
	return &PostgresStore{db: db, clock: clk}
}

// EnsureSchema creates the state table when missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createTableSQL); err != nil {
		return fmt.Errorf(messages.StatePostgresSchemaFmt, err)
	}
	return nil
}

// IsDone implements Store.
func (s *PostgresStore) IsDone(ctx context.Context, id string) (bool, error) {
	var done bool
	err := s.db.QueryRowContext(ctx, selectDoneSQL, id).Scan(&done)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf(messages.StatePostgresQueryFmt, id, err)
	}
	return done, nil
}

// MarkDone implements Store.
func (s *PostgresStore) MarkDone(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, markDoneSQL, id, s.clock.Now().UTC()); err != nil {
		return fmt.Errorf(messages.StatePostgresMarkFmt, id, err)
	}
	return nil
}

// Close implements Store.
func (s *PostgresStore) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}
