package usage

import (
	"context"
	"database/sql"
	"path/filepath"
	"regexp"
	"strings"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/KirkDiggler/tentcards/internal/errors"
	"github.com/KirkDiggler/tentcards/internal/pkg/clock"
	"github.com/KirkDiggler/tentcards/internal/repositories/usage/migrations"
)

var eventPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_.-]{0,63}$`)

// SQLiteConfig contains configuration for the sqlite usage store
type SQLiteConfig struct {
	Path  string
	Clock clock.Clock
}

// Validate validates the SQLiteConfig
func (cfg *SQLiteConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if strings.TrimSpace(cfg.Path) == "" {
		return errors.InvalidArgument("database path cannot be empty")
	}
	return nil
}

type sqliteRepository struct {
	db    *sql.DB
	clock clock.Clock
}

// NewSQLiteRepository opens the database and applies the embedded migrations
func NewSQLiteRepository(ctx context.Context, cfg *SQLiteConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	dsn := filepath.Clean(cfg.Path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open usage database")
	}
	// sqlite allows a single writer
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "failed to open usage database")
	}
	if err := applyMigrations(ctx, db, migrations.FS); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "failed to migrate usage database")
	}

	clk := cfg.Clock
	if clk == nil {
		clk = clock.New()
	}
	return &sqliteRepository{db: db, clock: clk}, nil
}

func (r *sqliteRepository) Increment(ctx context.Context, input IncrementInput) (*IncrementOutput, error) {
	event := strings.ToLower(strings.TrimSpace(input.Event))
	if !eventPattern.MatchString(event) {
		return nil, errors.InvalidArgumentf("event %q is not a valid event name", input.Event)
	}

	var count int64
	err := r.db.QueryRowContext(ctx, `
INSERT INTO usage_counters (event, count, updated_at) VALUES (?, 1, ?)
ON CONFLICT(event) DO UPDATE SET count = count + 1, updated_at = excluded.updated_at
RETURNING count`, event, r.clock.Now().UTC().UnixMilli()).Scan(&count)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to count event %s", event)
	}

	return &IncrementOutput{Event: event, Count: count}, nil
}

func (r *sqliteRepository) List(ctx context.Context, _ ListInput) (*ListOutput, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT event, count FROM usage_counters ORDER BY event`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list usage counters")
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[string]int64)
	for rows.Next() {
		var (
			event string
			count int64
		)
		if err := rows.Scan(&event, &count); err != nil {
			return nil, errors.Wrap(err, "failed to read usage counter")
		}
		counts[event] = count
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to list usage counters")
	}

	return &ListOutput{Counts: counts}, nil
}

func (r *sqliteRepository) Close() error {
	return r.db.Close()
}
