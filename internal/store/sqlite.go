package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements DocumentStore using SQLite. Every record lives in a
// single documents table keyed by collection name, with the full record kept
// as a JSON body alongside the columns used for filtering and ordering.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite creates a new SQLite-backed document store.
func NewSQLite(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// Open database with WAL mode for better concurrency.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS documents (
		id TEXT PRIMARY KEY,
		collection TEXT NOT NULL,
		session_id TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		body TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_documents_lookup ON documents(collection, session_id, created_at);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Insert persists a document body and returns its ULID identifier.
// created_at is stored as unix nanoseconds so ordering stays stable for
// records created within the same second.
func (s *SQLiteStore) Insert(ctx context.Context, collection, sessionID string, createdAt time.Time, body []byte) (string, error) {
	id := ulid.Make().String()
	query := `INSERT INTO documents (id, collection, session_id, created_at, body) VALUES (?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query, id, collection, sessionID, createdAt.UnixNano(), string(body))
	if err != nil {
		return "", fmt.Errorf("insert %s document: %w", collection, err)
	}
	return id, nil
}

// Query returns up to limit documents matching an equality filter, most
// recent first. The session_id key filters on its column; any other key is
// matched against the JSON body.
func (s *SQLiteStore) Query(ctx context.Context, collection string, filter map[string]any, limit int) ([]Row, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	query := `SELECT id, session_id, created_at, body FROM documents WHERE collection = ?`
	args := []any{collection}

	// Sort filter keys so the generated SQL is deterministic.
	keys := make([]string, 0, len(filter))
	for k := range filter {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if k == "session_id" {
			query += ` AND session_id = ?`
			args = append(args, filter[k])
			continue
		}
		query += ` AND json_extract(body, ?) = ?`
		args = append(args, "$."+k, filter[k])
	}

	query += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s documents: %w", collection, err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Warn("failed to close document rows", "collection", collection, "error", closeErr)
		}
	}()

	var out []Row
	for rows.Next() {
		var row Row
		var createdAt int64
		var body string

		if err := rows.Scan(&row.ID, &row.SessionID, &createdAt, &body); err != nil {
			return nil, fmt.Errorf("scan %s document row: %w", collection, err)
		}

		row.CreatedAt = time.Unix(0, createdAt).UTC()
		row.Body = []byte(body)
		out = append(out, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s documents: %w", collection, err)
	}

	return out, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}
