package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/manzanit0/geocoding/pkg/geocode"
)

const Schema = `
CREATE TABLE IF NOT EXISTS settings (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`

// lookupTimeout bounds the settings read done before each geocoding request.
const lookupTimeout = 2 * time.Second

type PgStore struct {
	db *sqlx.DB
}

var _ geocode.Settings = (*PgStore)(nil)

func NewPgStore(db *sql.DB) *PgStore {
	return &PgStore{db: sqlx.NewDb(db, "postgres")}
}

func (s *PgStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("create settings table: %w", err)
	}

	return nil
}

// Get returns the raw value of key, or ok=false when it was never set.
func (s *PgStore) Get(ctx context.Context, key string) (value string, ok bool, err error) {
	err = s.db.GetContext(ctx, &value, `SELECT value FROM settings WHERE key = $1`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	} else if err != nil {
		return "", false, fmt.Errorf("select setting: %w", err)
	}

	return value, true, nil
}

func (s *PgStore) Set(ctx context.Context, key, value string) error {
	query := `
	INSERT INTO settings (key, value)
	VALUES ($1, $2)
	ON CONFLICT (key) DO UPDATE SET value = $2, updated_at = now();`

	if _, err := s.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("upsert setting: %w", err)
	}

	return nil
}

func (s *PgStore) SetDebugLogging(ctx context.Context, enabled bool) error {
	return s.Set(ctx, KeyWriteDebug, strconv.FormatBool(enabled))
}

// DebugLoggingEnabled treats any read failure as disabled.
func (s *PgStore) DebugLoggingEnabled() bool {
	ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
	defer cancel()

	value, ok, err := s.Get(ctx, KeyWriteDebug)
	if err != nil {
		slog.Error("read debug setting", "error", err.Error())
		return false
	}

	if !ok {
		return false
	}

	enabled, err := strconv.ParseBool(value)
	if err != nil {
		slog.Warn("invalid debug setting, assuming disabled", "value", value)
		return false
	}

	return enabled
}
