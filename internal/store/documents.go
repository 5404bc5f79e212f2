package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Document is the capability every persisted record provides: a session
// identifier plus store-managed timestamps and identity. domain.Meta
// implements it for all record types.
type Document interface {
	Session() string
	Created() time.Time
	StampTimes(now time.Time)
	SetID(id string)
}

// docPtr constrains PT to a pointer to T that satisfies Document, so List
// can allocate records it decodes into.
type docPtr[T any] interface {
	*T
	Document
}

// Create persists doc in the named collection. Timestamps are filled with
// the current time only when the caller left them unset. The document is
// returned augmented with the store-assigned identifier.
func Create[T Document](ctx context.Context, ds DocumentStore, collection string, doc T) (T, error) {
	doc.StampTimes(time.Now().UTC())

	body, err := json.Marshal(doc)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("marshal %s document: %w", collection, err)
	}

	id, err := ds.Insert(ctx, collection, doc.Session(), doc.Created(), body)
	if err != nil {
		var zero T
		return zero, err
	}

	doc.SetID(id)
	return doc, nil
}

// List returns up to limit records from the named collection matching an
// equality filter, most recent first. Identifiers are normalized to the
// store's string representation on every returned record.
func List[T any, PT docPtr[T]](ctx context.Context, ds DocumentStore, collection string, filter map[string]any, limit int) ([]PT, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := ds.Query(ctx, collection, filter, limit)
	if err != nil {
		return nil, err
	}

	out := make([]PT, 0, len(rows))
	for _, row := range rows {
		doc := PT(new(T))
		if err := json.Unmarshal(row.Body, doc); err != nil {
			return nil, fmt.Errorf("unmarshal %s document %s: %w", collection, row.ID, err)
		}
		doc.SetID(row.ID)
		out = append(out, doc)
	}
	return out, nil
}
