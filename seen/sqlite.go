package seen

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// SQLiteStore persists the ledger so a restart does not forget which
// articles were already handled.
type SQLiteStore struct {
	db *sql.DB
}

// Stats contains ledger statistics
type Stats struct {
	Entries     int
	OldestEntry time.Time
}

// NewSQLiteStore opens (or creates) the ledger database at the given path
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create ledger directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize ledger schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Has(ctx context.Context, link string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM seen_links WHERE link = ?", link).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to query ledger: %w", err)
	}
	return true, nil
}

func (s *SQLiteStore) Add(ctx context.Context, link string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO seen_links (link, created_at) VALUES (?, ?)",
		link, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to record link: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Len(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM seen_links").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count ledger entries: %w", err)
	}
	return n, nil
}

// Stats returns ledger statistics
func (s *SQLiteStore) Stats(ctx context.Context) (Stats, error) {
	var stats Stats

	n, err := s.Len(ctx)
	if err != nil {
		return stats, err
	}
	stats.Entries = n

	var oldestUnix sql.NullInt64
	err = s.db.QueryRowContext(ctx, "SELECT MIN(created_at) FROM seen_links").Scan(&oldestUnix)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return stats, err
	}
	if oldestUnix.Valid && oldestUnix.Int64 > 0 {
		stats.OldestEntry = time.Unix(oldestUnix.Int64, 0)
	}

	return stats, nil
}

// Clear removes all ledger entries
func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM seen_links"); err != nil {
		return fmt.Errorf("failed to clear ledger: %w", err)
	}
	return nil
}

// Close closes the ledger database
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
