package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

const (
	historyBucket = "history"
	entriesKey    = "entries"
)

// BoltBackend stores the history array as a single value in a bbolt database.
// The value has exactly the shape of history.json, so switching backends
// only means exporting one key.
type BoltBackend struct {
	db   *bbolt.DB
	path string
}

// NewBoltBackend opens (or creates) the database at path.
func NewBoltBackend(path string) (*BoltBackend, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("%w: create history directory: %v", ErrStorageIO, err)
	}

	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("%w: open bolt database: %v", ErrStorageIO, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(historyBucket))
		if err != nil {
			return fmt.Errorf("create bucket: %w", err)
		}
		if b.Get([]byte(entriesKey)) == nil {
			empty, err := encodeEntries(nil)
			if err != nil {
				return err
			}
			return b.Put([]byte(entriesKey), empty)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", ErrStorageIO, err)
	}

	return &BoltBackend{db: db, path: path}, nil
}

func (b *BoltBackend) Path() string { return b.path }

func (b *BoltBackend) Load() ([]string, error) {
	var data []byte
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(historyBucket))
		if bucket == nil {
			return fmt.Errorf("bucket %q missing", historyBucket)
		}
		// Bolt values are only valid for the life of the transaction.
		if v := bucket.Get([]byte(entriesKey)); v != nil {
			data = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageIO, err)
	}
	return decodeEntries(data)
}

func (b *BoltBackend) Save(entries []string) error {
	data, err := encodeEntries(entries)
	if err != nil {
		return fmt.Errorf("%w: encode history: %v", ErrStorageIO, err)
	}
	err = b.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists([]byte(historyBucket))
		if err != nil {
			return err
		}
		return bucket.Put([]byte(entriesKey), data)
	})
	if err != nil {
		return fmt.Errorf("%w: write bolt database: %v", ErrStorageIO, err)
	}
	return nil
}

// Quarantine copies the unreadable value to a timestamped key and returns it.
func (b *BoltBackend) Quarantine() (string, error) {
	key := fmt.Sprintf("%s.corrupt-%d", entriesKey, time.Now().Unix())
	err := b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(historyBucket))
		if bucket == nil {
			return nil
		}
		v := bucket.Get([]byte(entriesKey))
		if v == nil {
			return nil
		}
		if err := bucket.Put([]byte(key), append([]byte(nil), v...)); err != nil {
			return err
		}
		return bucket.Delete([]byte(entriesKey))
	})
	if err != nil {
		return "", fmt.Errorf("%w: quarantine bolt value: %v", ErrStorageIO, err)
	}
	return b.path + "#" + key, nil
}

func (b *BoltBackend) Close() error {
	if err := b.db.Close(); err != nil {
		return fmt.Errorf("%w: close bolt database: %v", ErrStorageIO, err)
	}
	return nil
}
