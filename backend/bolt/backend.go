package bolt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/healthtools/lazycache"
)

// Backend persists entries in a bbolt database, so the cache survives
// process restarts. Expiry is lazy: an entry past its retention deadline is
// deleted on the next Get and reported as a miss.
type Backend[T any] struct {
	db     *bolt.DB
	bucket []byte
}

var _ lazycache.Backend[string] = &Backend[string]{}

// NewBackend opens or creates the database at path and ensures the bucket
// exists.
func NewBackend[T any](path, bucket string) (*Backend[T], error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening bolt database: %w", err)
	}

	name := []byte(bucket)
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(name)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating bucket: %w", err)
	}

	return &Backend[T]{
		db:     db,
		bucket: name,
	}, nil
}

func (b *Backend[T]) Get(ctx context.Context, key string) (*lazycache.Entry[T], error) {
	var data []byte
	if err := b.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(b.bucket).Get([]byte(key)); v != nil {
			data = append([]byte(nil), v...)
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("reading entry: %w", err)
	}
	if data == nil {
		return nil, nil
	}

	var c container[T]
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("deserializing entry: %w", err)
	}

	if time.Now().After(c.Deadline) {
		_ = b.delete(key)
		return nil, nil
	}

	return &lazycache.Entry[T]{
		Value:       c.Value,
		RefreshedAt: c.RefreshedAt,
	}, nil
}

func (b *Backend[T]) Set(ctx context.Context, key string, retention time.Duration, entry *lazycache.Entry[T]) error {
	data, err := json.Marshal(container[T]{
		Value:       entry.Value,
		RefreshedAt: entry.RefreshedAt,
		Deadline:    time.Now().Add(retention),
	})
	if err != nil {
		return fmt.Errorf("serializing entry: %w", err)
	}

	if err := b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(b.bucket).Put([]byte(key), data)
	}); err != nil {
		return fmt.Errorf("writing entry: %w", err)
	}

	return nil
}

func (b *Backend[T]) Close() {
	_ = b.db.Close()
}

func (b *Backend[T]) delete(key string) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(b.bucket).Delete([]byte(key))
	})
}

type container[T any] struct {
	Value       *T        `json:"value"`
	RefreshedAt time.Time `json:"refreshedAt"`
	Deadline    time.Time `json:"deadline"`
}
