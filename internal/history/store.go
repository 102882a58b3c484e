package history

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/streamix/streamix/internal/debuglog"
)

// Storage keys and capacities for the two shipped lists.
const (
	SearchHistoryKey = "searchHistory"
	WatchHistoryKey  = "watchHistory"

	DefaultSearchCapacity = 10
	DefaultWatchCapacity  = 50
)

// Entry pairs a deduplication key with the stored payload.
type Entry[T any] struct {
	Key   string `json:"key"`
	Value T      `json:"value"`
}

// Blobs is the slice of the storage layer this package needs.
type Blobs interface {
	GetBlob(key string) ([]byte, error)
	PutBlob(key string, data []byte) error
	DeleteBlob(key string) error
}

// Store maintains a capacity-bounded, deduplicated, most-recent-first
// list persisted as a single blob. Re-inserting an existing key moves it
// to the front; inserts beyond capacity silently drop the oldest entry.
type Store[T any] struct {
	blobs      Blobs
	storageKey string
	capacity   int
}

func NewStore[T any](blobs Blobs, storageKey string, capacity int) *Store[T] {
	return &Store[T]{blobs: blobs, storageKey: storageKey, capacity: capacity}
}

// Load returns the persisted list. An absent or unparsable blob is an
// empty list, never an error: a corrupted local history is not something
// the user can act on.
func (s *Store[T]) Load() []Entry[T] {
	data, err := s.blobs.GetBlob(s.storageKey)
	if err != nil || data == nil {
		if err != nil {
			debuglog.Warnf("reading %s: %v", s.storageKey, err)
		}
		return []Entry[T]{}
	}

	var entries []Entry[T]
	if err := json.Unmarshal(data, &entries); err != nil {
		debuglog.Warnf("discarding malformed %s blob: %v", s.storageKey, err)
		return []Entry[T]{}
	}
	return entries
}

// Insert prepends {key, value}, removing any existing entry with the
// same key first and truncating to capacity. Empty and whitespace-only
// keys are rejected without touching the persisted list.
func (s *Store[T]) Insert(key string, value T) ([]Entry[T], error) {
	if strings.TrimSpace(key) == "" {
		return s.Load(), nil
	}

	entries := s.Load()
	updated := make([]Entry[T], 0, len(entries)+1)
	updated = append(updated, Entry[T]{Key: key, Value: value})
	for _, e := range entries {
		if e.Key == key {
			continue
		}
		updated = append(updated, e)
	}
	if len(updated) > s.capacity {
		updated = updated[:s.capacity]
	}

	if err := s.persist(updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// Remove filters out the entry with the given key and persists the
// result, idempotently when the key is absent.
func (s *Store[T]) Remove(key string) ([]Entry[T], error) {
	entries := s.Load()
	updated := make([]Entry[T], 0, len(entries))
	for _, e := range entries {
		if e.Key != key {
			updated = append(updated, e)
		}
	}

	if err := s.persist(updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// Clear deletes the persisted blob entirely.
func (s *Store[T]) Clear() error {
	if err := s.blobs.DeleteBlob(s.storageKey); err != nil {
		return fmt.Errorf("clearing %s: %w", s.storageKey, err)
	}
	return nil
}

func (s *Store[T]) persist(entries []Entry[T]) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", s.storageKey, err)
	}
	if err := s.blobs.PutBlob(s.storageKey, data); err != nil {
		return fmt.Errorf("writing %s: %w", s.storageKey, err)
	}
	return nil
}
