package kv

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
	bolt "go.etcd.io/bbolt"
)

var bucketName = []byte("collections")

// BoltStore is a Store backed by a single-file bbolt database. All
// collections live in one bucket, keyed by collection name.
type BoltStore struct {
	db     *bolt.DB
	logger zerolog.Logger
}

// NewBoltStore opens (or creates) the database file at path.
func NewBoltStore(path string, logger zerolog.Logger) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create bucket: %w", err)
	}
	return &BoltStore{db: db, logger: logger}, nil
}

func (s *BoltStore) Load(collection string, v any) error {
	var raw []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketName).Get([]byte(collection))
		if data == nil {
			return ErrNotFound
		}
		raw = append(raw, data...)
		return nil
	})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		// A corrupted snapshot degrades to "no saved data" rather than
		// taking the view down with it.
		s.logger.Error().Err(err).Str("collection", collection).Msg("corrupted snapshot, discarding")
		return ErrNotFound
	}
	return nil
}

func (s *BoltStore) Save(collection string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", collection, err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put([]byte(collection), data)
	})
}

func (s *BoltStore) Delete(collection string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Delete([]byte(collection))
	})
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
