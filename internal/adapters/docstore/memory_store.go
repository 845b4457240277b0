package docstore

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Store used for dry runs and tests.
type MemoryStore struct {
	mu          sync.Mutex
	collections map[string]map[string]Document
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]map[string]Document)}
}

// Get retrieves one document by key.
// POST: Returns a copy; mutating it does not affect the store
func (s *MemoryStore) Get(_ context.Context, collection, id string) (Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.collections[collection][id]
	if !ok {
		return nil, ErrNotFound
	}
	out := copyDoc(d)
	out[IDField] = id
	return out, nil
}

// Set writes one document, merging onto any existing one when merge is set.
func (s *MemoryStore) Set(_ context.Context, collection, id string, d Document, merge bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.set(collection, id, d, merge)
	return nil
}

// List retrieves all documents in a collection in unspecified order.
func (s *MemoryStore) List(_ context.Context, collection string) ([]Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Document
	for id, d := range s.collections[collection] {
		c := copyDoc(d)
		c[IDField] = id
		out = append(out, c)
	}
	return out, nil
}

// Batch starts an empty write batch.
func (s *MemoryStore) Batch() Batch {
	return &memoryBatch{store: s}
}

// Close is a no-op.
func (s *MemoryStore) Close(context.Context) error { return nil }

// Count returns the number of documents in a collection.
func (s *MemoryStore) Count(collection string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.collections[collection])
}

// set assumes the lock is held.
func (s *MemoryStore) set(collection, id string, d Document, merge bool) {
	coll := s.collections[collection]
	if coll == nil {
		coll = make(map[string]Document)
		s.collections[collection] = coll
	}
	d = stripID(d)
	if existing, ok := coll[id]; ok && merge {
		merged := copyDoc(existing)
		for k, v := range d {
			merged[k] = v
		}
		coll[id] = merged
		return
	}
	coll[id] = copyDoc(d)
}

type memoryWrite struct {
	collection string
	id         string
	doc        Document
	merge      bool
}

type memoryBatch struct {
	store  *MemoryStore
	writes []memoryWrite
}

// Set stages one write.
func (b *memoryBatch) Set(collection, id string, d Document, merge bool) {
	b.writes = append(b.writes, memoryWrite{collection, id, copyDoc(d), merge})
}

// Commit applies all staged writes under one lock acquisition.
func (b *memoryBatch) Commit(context.Context) (int, error) {
	b.store.mu.Lock()
	defer b.store.mu.Unlock()
	for _, w := range b.writes {
		b.store.set(w.collection, w.id, w.doc, w.merge)
	}
	n := len(b.writes)
	b.writes = nil
	return n, nil
}

func copyDoc(d Document) Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}
