// Package store provides the document persistence layer backing all tools.
package store

import (
	"context"
	"time"
)

// DefaultListLimit caps Query results when the caller does not supply a limit.
const DefaultListLimit = 50

// Row is a raw stored document as returned by Query.
type Row struct {
	ID        string
	SessionID string
	CreatedAt time.Time
	Body      []byte
}

// DocumentStore is the interface for persisting records in named collections.
// Implementations must be safe for concurrent use; the single store instance
// is constructed at process start and shared by every request.
type DocumentStore interface {
	// Insert persists a document body in the named collection and returns
	// the store-assigned string identifier.
	Insert(ctx context.Context, collection, sessionID string, createdAt time.Time, body []byte) (string, error)

	// Query returns up to limit documents matching an equality filter
	// (empty filter = all), ordered by creation time descending.
	Query(ctx context.Context, collection string, filter map[string]any, limit int) ([]Row, error)

	// Ping verifies the store is reachable.
	Ping(ctx context.Context) error

	// Close closes the underlying connection.
	Close() error
}
