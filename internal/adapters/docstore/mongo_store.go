package docstore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const serverSelectionTimeout = 10 * time.Second

// MongoStore implements Store on a MongoDB database. The document key is the
// Mongo _id (a plain string for everything this seeder writes).
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoStore connects to the database and verifies the connection.
// PRE: uri and database come from resolved credentials
// POST: Returned store is ready for sequential reuse
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(serverSelectionTimeout))
	if err != nil {
		return nil, fmt.Errorf("connect document store: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("document store unreachable: %w", err)
	}
	return &MongoStore{client: client, db: client.Database(database)}, nil
}

// Get retrieves one document by key.
func (s *MongoStore) Get(ctx context.Context, collection, id string) (Document, error) {
	var raw bson.M
	err := s.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(&raw)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return normalizeDoc(raw), nil
}

// Set writes one document; merge maps to a $set upsert, replace to a
// ReplaceOne upsert.
func (s *MongoStore) Set(ctx context.Context, collection, id string, d Document, merge bool) error {
	coll := s.db.Collection(collection)
	body := bson.M(stripID(d))
	var err error
	if merge {
		_, err = coll.UpdateOne(ctx, bson.M{"_id": id},
			bson.M{"$set": body}, options.Update().SetUpsert(true))
	} else {
		_, err = coll.ReplaceOne(ctx, bson.M{"_id": id},
			body, options.Replace().SetUpsert(true))
	}
	if err != nil {
		return fmt.Errorf("set %s/%s: %w", collection, id, err)
	}
	return nil
}

// List retrieves all documents in a collection.
func (s *MongoStore) List(ctx context.Context, collection string) ([]Document, error) {
	cursor, err := s.db.Collection(collection).Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	defer cursor.Close(ctx)

	var out []Document
	for cursor.Next(ctx) {
		var raw bson.M
		if err := cursor.Decode(&raw); err != nil {
			return nil, fmt.Errorf("decode %s document: %w", collection, err)
		}
		out = append(out, normalizeDoc(raw))
	}
	return out, cursor.Err()
}

// Batch starts an empty write batch. Commit issues one ordered BulkWrite per
// collection. Unlike the SQLite batch this is not transactional, which the
// seeder tolerates: keys are deterministic, so a re-run overwrites cleanly.
func (s *MongoStore) Batch() Batch {
	return &mongoBatch{store: s}
}

// Close disconnects the client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

type mongoWrite struct {
	collection string
	id         string
	doc        Document
	merge      bool
}

type mongoBatch struct {
	store  *MongoStore
	writes []mongoWrite
}

// Set stages one write.
func (b *mongoBatch) Set(collection, id string, d Document, merge bool) {
	b.writes = append(b.writes, mongoWrite{collection, id, d, merge})
}

// Commit flushes staged writes, grouped by collection.
func (b *mongoBatch) Commit(ctx context.Context) (int, error) {
	models := make(map[string][]mongo.WriteModel)
	for _, w := range b.writes {
		body := bson.M(stripID(w.doc))
		var m mongo.WriteModel
		if w.merge {
			m = mongo.NewUpdateOneModel().
				SetFilter(bson.M{"_id": w.id}).
				SetUpdate(bson.M{"$set": body}).
				SetUpsert(true)
		} else {
			m = mongo.NewReplaceOneModel().
				SetFilter(bson.M{"_id": w.id}).
				SetReplacement(body).
				SetUpsert(true)
		}
		models[w.collection] = append(models[w.collection], m)
	}

	for collection, ms := range models {
		_, err := b.store.db.Collection(collection).
			BulkWrite(ctx, ms, options.BulkWrite().SetOrdered(true))
		if err != nil {
			return 0, fmt.Errorf("commit batch to %s: %w", collection, err)
		}
	}
	n := len(b.writes)
	b.writes = nil
	return n, nil
}

// normalizeDoc converts BSON decode artifacts (primitive.M, primitive.A,
// primitive.DateTime) into the plain map/slice/time values the domain
// FromDoc constructors expect.
func normalizeDoc(raw bson.M) Document {
	out := make(Document, len(raw))
	for k, v := range raw {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v any) any {
	switch t := v.(type) {
	case bson.M:
		return normalizeDoc(t)
	case primitive.A:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = normalizeValue(item)
		}
		return out
	case primitive.DateTime:
		return t.Time()
	case primitive.ObjectID:
		return t.Hex()
	default:
		return v
	}
}
