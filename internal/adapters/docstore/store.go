// Package docstore abstracts the document database the seeder writes to:
// named collections of schemaless documents addressed by string key, with
// get, set-with-merge and batched writes. Implementations exist for MongoDB
// (the deployed store), SQLite (offline development) and memory (dry runs
// and tests).
package docstore

import (
	"context"
	"errors"
)

// Collection names used by the seeder.
const (
	CollectionBranches   = "branches"
	CollectionShifts     = "shifts"
	CollectionUsers      = "users"
	CollectionAttendance = "attendance"
)

// IDField is the reserved key under which List and Get surface the document
// ID inside the returned document. Writes ignore it.
const IDField = "_id"

// ErrNotFound is returned by Get when no document exists for the key.
var ErrNotFound = errors.New("document not found")

// Document is a schemaless store document.
type Document = map[string]any

// Store is the document database client handed to every orchestrator.
type Store interface {
	// Get retrieves one document by key. Returns ErrNotFound if absent.
	Get(ctx context.Context, collection, id string) (Document, error)
	// Set writes one document. With merge, fields are overlaid onto any
	// existing document; without, the document is replaced. Upserts either way.
	Set(ctx context.Context, collection, id string, d Document, merge bool) error
	// List retrieves all documents in a collection.
	List(ctx context.Context, collection string) ([]Document, error)
	// Batch starts an empty write batch.
	Batch() Batch
	// Close releases the underlying client.
	Close(ctx context.Context) error
}

// Batch accumulates writes and commits them as one unit.
type Batch interface {
	// Set stages one write; same semantics as Store.Set.
	Set(collection, id string, d Document, merge bool)
	// Commit flushes all staged writes and returns the number committed.
	Commit(ctx context.Context) (int, error)
}

// stripID returns a copy of the document without the reserved ID field, for
// implementations where the key lives outside the document body.
func stripID(d Document) Document {
	out := make(Document, len(d))
	for k, v := range d {
		if k == IDField {
			continue
		}
		out[k] = v
	}
	return out
}
