package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store on an embedded SQLite file, for offline
// development against the same document shapes the deployed store uses.
// Documents are stored as JSON in a single table keyed by (collection, id).
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database file and prepares the schema.
// POST: Returned store is ready; WAL mode and busy timeout are enabled
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite store unreachable: %w", err)
	}
	schema := `
	CREATE TABLE IF NOT EXISTS document (
		collection TEXT NOT NULL,
		id TEXT NOT NULL,
		data TEXT NOT NULL,
		PRIMARY KEY (collection, id)
	);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create sqlite schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Get retrieves one document by key.
func (s *SQLiteStore) Get(ctx context.Context, collection, id string) (Document, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		"SELECT data FROM document WHERE collection = ? AND id = ?", collection, id).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return decodeDoc(data, id)
}

// Set writes one document, merging onto any existing one when merge is set.
func (s *SQLiteStore) Set(ctx context.Context, collection, id string, d Document, merge bool) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := setInTx(ctx, tx, collection, id, d, merge); err != nil {
		return err
	}
	return tx.Commit()
}

// List retrieves all documents in a collection.
func (s *SQLiteStore) List(ctx context.Context, collection string) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, data FROM document WHERE collection = ? ORDER BY id", collection)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		var id, data string
		if err := rows.Scan(&id, &data); err != nil {
			return nil, err
		}
		d, err := decodeDoc(data, id)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Batch starts an empty write batch. Commit runs in a single transaction, so
// a batch either lands entirely or not at all.
func (s *SQLiteStore) Batch() Batch {
	return &sqliteBatch{store: s}
}

// Close closes the underlying database.
func (s *SQLiteStore) Close(context.Context) error {
	return s.db.Close()
}

type sqliteWrite struct {
	collection string
	id         string
	doc        Document
	merge      bool
}

type sqliteBatch struct {
	store  *SQLiteStore
	writes []sqliteWrite
}

// Set stages one write.
func (b *sqliteBatch) Set(collection, id string, d Document, merge bool) {
	b.writes = append(b.writes, sqliteWrite{collection, id, d, merge})
}

// Commit flushes all staged writes in one transaction.
func (b *sqliteBatch) Commit(ctx context.Context) (int, error) {
	tx, err := b.store.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()
	for _, w := range b.writes {
		if err := setInTx(ctx, tx, w.collection, w.id, w.doc, w.merge); err != nil {
			return 0, err
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	n := len(b.writes)
	b.writes = nil
	return n, nil
}

// setInTx performs one merge-or-replace upsert inside a transaction.
// Merge reads the stored JSON and overlays the new fields before writing.
func setInTx(ctx context.Context, tx *sql.Tx, collection, id string, d Document, merge bool) error {
	d = stripID(d)
	if merge {
		var existing string
		err := tx.QueryRowContext(ctx,
			"SELECT data FROM document WHERE collection = ? AND id = ?", collection, id).Scan(&existing)
		if err != nil && err != sql.ErrNoRows {
			return err
		}
		if err == nil {
			var base Document
			if err := json.Unmarshal([]byte(existing), &base); err != nil {
				return fmt.Errorf("decode stored document %s/%s: %w", collection, id, err)
			}
			for k, v := range d {
				base[k] = v
			}
			d = base
		}
	}
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode document %s/%s: %w", collection, id, err)
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO document (collection, id, data) VALUES (?, ?, ?)
		ON CONFLICT(collection, id) DO UPDATE SET data = excluded.data`,
		collection, id, string(data))
	return err
}

func decodeDoc(data, id string) (Document, error) {
	var d Document
	if err := json.Unmarshal([]byte(data), &d); err != nil {
		return nil, fmt.Errorf("decode document %s: %w", id, err)
	}
	d[IDField] = id
	return d, nil
}
