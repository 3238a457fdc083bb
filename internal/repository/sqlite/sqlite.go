package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"netscope/internal/collector"
	"netscope/internal/domain"
)

// Repository implements repository.DiagnosticLog using SQLite
type Repository struct {
	db     *sql.DB
	logger zerolog.Logger
}

// New opens (creating if needed) the diagnostic log at dbPath
func New(dbPath string, logger zerolog.Logger) (*Repository, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one connection keeps ":memory:" databases shared and serializes writers
	db.SetMaxOpenConns(1)

	repo := &Repository{
		db:     db,
		logger: logger.With().Str("component", "diagnostics").Logger(),
	}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return repo, nil
}

func (r *Repository) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS collection_failures (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		cycle_id TEXT,
		environment TEXT NOT NULL,
		kind TEXT NOT NULL,
		step TEXT NOT NULL,
		command TEXT,
		cause TEXT NOT NULL,
		occurred_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_collection_failures_cycle ON collection_failures(cycle_id);
	CREATE INDEX IF NOT EXISTS idx_collection_failures_kind ON collection_failures(environment, kind);
	`

	_, err := r.db.Exec(schema)
	return err
}

// Record appends f, logging instead of failing. It satisfies collector.Diagnostics.
func (r *Repository) Record(ctx context.Context, f collector.Failure) {
	if err := r.Append(ctx, f); err != nil {
		r.logger.Warn().Err(err).Str("step", f.Step).Msg("failed to record collection failure")
	}
}

// Append writes one failure row
func (r *Repository) Append(ctx context.Context, f collector.Failure) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO collection_failures (cycle_id, environment, kind, step, command, cause, occurred_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		stringToNull(f.CycleID),
		string(f.Environment),
		string(f.Kind),
		f.Step,
		stringToNull(f.Command),
		f.Cause,
		timeToUnixNano(f.At),
	)
	if err != nil {
		return fmt.Errorf("failed to insert failure: %w", err)
	}
	return nil
}

// Recent returns up to limit failures, newest first
func (r *Repository) Recent(ctx context.Context, limit int) ([]collector.Failure, error) {
	if limit <= 0 {
		limit = 50
	}
	return r.query(ctx, `
		SELECT cycle_id, environment, kind, step, command, cause, occurred_at
		FROM collection_failures
		ORDER BY id DESC
		LIMIT ?
	`, limit)
}

// ByCycle returns the failures recorded under one refresh cycle
func (r *Repository) ByCycle(ctx context.Context, cycleID string) ([]collector.Failure, error) {
	return r.query(ctx, `
		SELECT cycle_id, environment, kind, step, command, cause, occurred_at
		FROM collection_failures
		WHERE cycle_id = ?
		ORDER BY id
	`, cycleID)
}

func (r *Repository) query(ctx context.Context, q string, args ...any) ([]collector.Failure, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query failures: %w", err)
	}
	defer rows.Close()

	failures := []collector.Failure{}
	for rows.Next() {
		var (
			cycleID, command       sql.NullString
			env, kind, step, cause string
			occurredAt             int64
		)
		if err := rows.Scan(&cycleID, &env, &kind, &step, &command, &cause, &occurredAt); err != nil {
			return nil, fmt.Errorf("failed to scan failure: %w", err)
		}
		failures = append(failures, collector.Failure{
			CycleID:     nullToString(cycleID),
			Environment: domain.ExecutionEnvironment(env),
			Kind:        domain.Kind(kind),
			Step:        step,
			Command:     nullToString(command),
			Cause:       cause,
			At:          unixNanoToTime(occurredAt),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating failures: %w", err)
	}
	return failures, nil
}

// Close closes the database connection
func (r *Repository) Close() error {
	return r.db.Close()
}
