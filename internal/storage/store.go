package storage

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/streamix/streamix/internal/catalog"
)

var (
	historyBucket = []byte("history")
	videosBucket  = []byte("videos")
	metaBucket    = []byte("metadata")
)

var clientIDKey = []byte("client_id")

// Store is the single bolt database behind all local persistence: the
// recency blobs, the watch-page detail cache and installation metadata.
type Store struct {
	db *bolt.DB
}

func NewStore(dbPath string) (*Store, error) {
	db, err := bolt.Open(dbPath, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{historyBucket, videosBucket, metaBucket} {
			if _, createErr := tx.CreateBucketIfNotExists(bucket); createErr != nil {
				return createErr
			}
		}
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// GetBlob returns the raw blob stored under key, or nil if absent.
func (s *Store) GetBlob(key string) ([]byte, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(historyBucket)
		if v := b.Get([]byte(key)); v != nil {
			data = append([]byte(nil), v...)
		}
		return nil
	})
	return data, err
}

// PutBlob replaces the blob under key in one transaction.
func (s *Store) PutBlob(key string, data []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(historyBucket).Put([]byte(key), data)
	})
}

// DeleteBlob removes the blob under key entirely. Deleting an absent key
// is not an error.
func (s *Store) DeleteBlob(key string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(historyBucket).Delete([]byte(key))
	})
}

// SaveDetail caches a fetched watch-page record.
func (s *Store) SaveDetail(detail *catalog.Detail) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		data, err := json.Marshal(detail)
		if err != nil {
			return err
		}
		return tx.Bucket(videosBucket).Put([]byte(detail.ID), data)
	})
}

// GetDetail returns the cached record for a video id.
func (s *Store) GetDetail(id string) (*catalog.Detail, error) {
	var detail catalog.Detail
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(videosBucket).Get([]byte(id))
		if data == nil {
			return fmt.Errorf("video not found")
		}
		return json.Unmarshal(data, &detail)
	})
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

// CachedDetails returns all cached watch-page records, most recently
// fetched first.
func (s *Store) CachedDetails() ([]*catalog.Detail, error) {
	var details []*catalog.Detail
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(videosBucket).ForEach(func(_ []byte, v []byte) error {
			var d catalog.Detail
			if err := json.Unmarshal(v, &d); err != nil {
				return nil
			}
			details = append(details, &d)
			return nil
		})
	})
	sort.Slice(details, func(i, j int) bool {
		return details[i].FetchedAt.After(details[j].FetchedAt)
	})
	return details, err
}

// ClientID returns the stable identifier for this installation, creating
// one on first use.
func (s *Store) ClientID() (string, error) {
	if s.db == nil {
		return "", fmt.Errorf("store is not open")
	}
	var id string
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(metaBucket)
		if v := b.Get(clientIDKey); v != nil {
			id = string(v)
			return nil
		}
		id = uuid.NewString()
		return b.Put(clientIDKey, []byte(id))
	})
	if err != nil {
		return "", fmt.Errorf("reading client id: %w", err)
	}
	return id, nil
}
