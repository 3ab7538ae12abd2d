package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/okian/podium/internal/domain/model"
	"github.com/okian/podium/pkg/metrics"
)

const schema = `
CREATE TABLE IF NOT EXISTS scores (
	game_id      TEXT    NOT NULL,
	username     TEXT    NOT NULL,
	score        INTEGER NOT NULL,
	submitted_at TEXT    NOT NULL,
	movement     TEXT    NOT NULL DEFAULT '',
	PRIMARY KEY (game_id, username)
);
CREATE INDEX IF NOT EXISTS idx_scores_game ON scores (game_id);

CREATE TABLE IF NOT EXISTS game_versions (
	game_id TEXT    PRIMARY KEY,
	version INTEGER NOT NULL
);
`

// SQLStore is the relational Store implementation on SQLite.
type SQLStore struct {
	db *sql.DB
}

// NewSQLStore opens (creating if needed) the database at dsn and ensures
// the schema exists.
func NewSQLStore(ctx context.Context, dsn string) (*SQLStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open: %w", ErrUnavailable, err)
	}
	// SQLite handles one writer at a time; a single connection avoids
	// SQLITE_BUSY churn between the store's own transactions.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: migrate: %w", ErrUnavailable, err)
	}
	return &SQLStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// LoadAll implements Store.LoadAll.
func (s *SQLStore) LoadAll(ctx context.Context, gameID string) ([]model.ScoreRecord, uint64, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreLoadLatency(float64(time.Since(start).Milliseconds()))
	}()

	var version uint64
	err := s.db.QueryRowContext(ctx,
		`SELECT version FROM game_versions WHERE game_id = ?`, gameID,
	).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("%w: load version: %w", ErrUnavailable, err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT username, score, submitted_at, movement FROM scores WHERE game_id = ?`, gameID)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: load records: %w", ErrUnavailable, err)
	}
	defer rows.Close()

	var records []model.ScoreRecord
	for rows.Next() {
		var (
			rec model.ScoreRecord
			at  string
		)
		rec.GameID = gameID
		if err := rows.Scan(&rec.Username, &rec.Score, &at, (*string)(&rec.Movement)); err != nil {
			return nil, 0, fmt.Errorf("%w: scan record: %w", ErrUnavailable, err)
		}
		rec.SubmittedAt, err = time.Parse(time.RFC3339Nano, at)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: parse submitted_at: %w", ErrUnavailable, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterate records: %w", ErrUnavailable, err)
	}
	return records, version, nil
}

// SaveAll implements Store.SaveAll.
func (s *SQLStore) SaveAll(ctx context.Context, gameID string, records []model.ScoreRecord, version uint64) error {
	start := time.Now()
	defer func() {
		metrics.RecordStoreSaveLatency(float64(time.Since(start).Milliseconds()))
	}()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin: %w", ErrUnavailable, err)
	}
	defer func() { _ = tx.Rollback() }()

	var stored uint64
	err = tx.QueryRowContext(ctx,
		`SELECT version FROM game_versions WHERE game_id = ?`, gameID,
	).Scan(&stored)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		stored = 0
	case err != nil:
		return fmt.Errorf("%w: check version: %w", ErrUnavailable, err)
	}
	if stored != version {
		metrics.RecordStoreConflict()
		return ErrVersionConflict
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM scores WHERE game_id = ?`, gameID); err != nil {
		return fmt.Errorf("%w: clear records: %w", ErrUnavailable, err)
	}
	for _, rec := range records {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO scores (game_id, username, score, submitted_at, movement) VALUES (?, ?, ?, ?, ?)`,
			gameID, rec.Username, rec.Score, rec.SubmittedAt.UTC().Format(time.RFC3339Nano), string(rec.Movement),
		); err != nil {
			return fmt.Errorf("%w: insert record: %w", ErrUnavailable, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO game_versions (game_id, version) VALUES (?, ?)
		 ON CONFLICT (game_id) DO UPDATE SET version = excluded.version`,
		gameID, version+1,
	); err != nil {
		return fmt.Errorf("%w: bump version: %w", ErrUnavailable, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %w", ErrUnavailable, err)
	}
	return nil
}

// Games implements Store.Games.
func (s *SQLStore) Games(ctx context.Context) int {
	var n int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT game_id) FROM scores`,
	).Scan(&n); err != nil {
		return 0
	}
	return n
}
