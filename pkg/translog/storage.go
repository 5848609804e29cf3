package translog

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Record is one completed (or aborted) stream.
type Record struct {
	// ID is a generated UUID.
	ID string

	// RequestID correlates with the X-Request-ID header and log lines.
	RequestID string

	// Time is when the stream finished.
	Time time.Time

	// Token is the object handle that was streamed.
	Token string

	// Backend is the name of the backend client that served the stream.
	Backend string

	// Route is the gateway route ("dl", "video", "watch").
	Route string

	// Status is the HTTP status code sent to the client.
	Status int

	// From and Until are the served byte range, inclusive.
	From  int64
	Until int64

	// BytesSent is the number of body bytes actually written.
	BytesSent int64

	// RemoteAddr is the client address.
	RemoteAddr string
}

const schema = `
CREATE TABLE IF NOT EXISTS transfers (
	id          TEXT PRIMARY KEY,
	request_id  TEXT NOT NULL,
	time        INTEGER NOT NULL,
	token       TEXT NOT NULL,
	backend     TEXT NOT NULL,
	route       TEXT NOT NULL,
	status      INTEGER NOT NULL,
	from_byte   INTEGER NOT NULL,
	until_byte  INTEGER NOT NULL,
	bytes_sent  INTEGER NOT NULL,
	remote_addr TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_transfers_time ON transfers(time);
CREATE INDEX IF NOT EXISTS idx_transfers_token ON transfers(token);
`

// Storage is the SQLite-backed transfer log store.
type Storage struct {
	db *sql.DB
}

// OpenStorage opens (creating if necessary) the transfer log database and
// applies the schema. WAL mode is enabled for concurrent reads while the
// recorder writes.
func OpenStorage(path string) (*Storage, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create transfer log directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open transfer log %q: %w", path, err)
	}

	// A single writer keeps sqlite happy; readers go through WAL.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply transfer log schema: %w", err)
	}

	slog.Info("transfer log opened", "path", path)

	return &Storage{db: db}, nil
}

// Insert writes one record.
func (s *Storage) Insert(ctx context.Context, rec *Record) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO transfers
			(id, request_id, time, token, backend, route, status,
			 from_byte, until_byte, bytes_sent, remote_addr)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.RequestID, rec.Time.Unix(), rec.Token, rec.Backend,
		rec.Route, rec.Status, rec.From, rec.Until, rec.BytesSent, rec.RemoteAddr,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transfer record: %w", err)
	}
	return nil
}

// PruneBefore deletes records older than the cutoff and returns the number
// removed.
func (s *Storage) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM transfers WHERE time < ?`, cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to prune transfer records: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// Count returns the total number of records. Used by tests and operators.
func (s *Storage) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transfers`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count transfer records: %w", err)
	}
	return n, nil
}

// Close closes the underlying database.
func (s *Storage) Close() error {
	return s.db.Close()
}
