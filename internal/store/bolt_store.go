package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/samprochar-hq/samprochar-tweet-resolver/internal/domain"
)

const (
	rawDataBucket       = "rawdata"
	twitterBucket       = "twitter"
	twitterErrorsBucket = "twitter-errors"
)

// boltStore implements Store backed by BoltDB. Each logical collection maps to
// one bucket; outcome buckets are keyed by source id, documents are stored as
// JSON values.
type boltStore struct {
	db *bolt.DB
}

// openBolt initializes a BoltDB-backed Store, creating all buckets up front so
// a missing bucket later is a programming error, not a startup race.
func openBolt(path string) (Store, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{rawDataBucket, twitterBucket, twitterErrorsBucket} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init buckets: %w", err)
	}

	return &boltStore{db: db}, nil
}

// Close closes the BoltDB store.
func (b *boltStore) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

// FindSourceRecords scans the rawdata bucket in key order and returns every
// record whose message contains keyword, compared case-insensitively.
func (b *boltStore) FindSourceRecords(ctx context.Context, keyword string) ([]domain.SourceRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	needle := strings.ToLower(keyword)
	var out []domain.SourceRecord
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(rawDataBucket))
		if bucket == nil {
			return fmt.Errorf("bucket %q missing", rawDataBucket)
		}

		cursor := bucket.Cursor()
		for k, v := cursor.First(); k != nil; k, v = cursor.Next() {
			var rec domain.SourceRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("decode source record %q: %w", string(k), err)
			}
			rec.ID = string(k)
			if strings.Contains(strings.ToLower(rec.Message), needle) {
				out = append(out, rec)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// PutSourceRecord stores a raw record keyed by its id.
func (b *boltStore) PutSourceRecord(ctx context.Context, rec domain.SourceRecord) error {
	if strings.TrimSpace(rec.ID) == "" {
		return fmt.Errorf("source record id is empty")
	}
	return b.putJSON(ctx, rawDataBucket, rec.ID, rec)
}

// HasSuccess reports whether a success outcome exists for the source id.
func (b *boltStore) HasSuccess(ctx context.Context, sourceID string) (bool, error) {
	return b.hasKey(ctx, twitterBucket, sourceID)
}

// HasFailure reports whether a failure outcome exists for the source id.
func (b *boltStore) HasFailure(ctx context.Context, sourceID string) (bool, error) {
	return b.hasKey(ctx, twitterErrorsBucket, sourceID)
}

// InsertSuccess appends a success outcome keyed by source id.
func (b *boltStore) InsertSuccess(ctx context.Context, outcome domain.SuccessOutcome) error {
	return b.putJSON(ctx, twitterBucket, outcome.SourceID, outcome)
}

// InsertFailure appends a failure outcome keyed by source id.
func (b *boltStore) InsertFailure(ctx context.Context, outcome domain.FailureOutcome) error {
	return b.putJSON(ctx, twitterErrorsBucket, outcome.SourceID, outcome)
}

func (b *boltStore) hasKey(ctx context.Context, bucketName, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	var exists bool
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketName))
		if bucket == nil {
			return fmt.Errorf("bucket %q missing", bucketName)
		}
		exists = bucket.Get([]byte(key)) != nil
		return nil
	})
	return exists, err
}

func (b *boltStore) putJSON(ctx context.Context, bucketName, key string, doc any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("document key for bucket %q is empty", bucketName)
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketName))
		if bucket == nil {
			return fmt.Errorf("bucket %q missing", bucketName)
		}
		return bucket.Put([]byte(key), payload)
	})
}
