// Package storage caches rendered chart snapshots
package storage

import (
	"errors"
	"fmt"
	"time"

	"github.com/tidwall/buntdb"
)

const keyPrefix = "snapshot:"

// SnapshotCache keeps rendered PNG snapshots keyed by view state. Entries
// expire after the configured TTL; a zero TTL keeps them for the life of the
// process.
type SnapshotCache struct {
	db  *buntdb.DB
	ttl time.Duration
}

// FromMemory creates an in-memory cache
func FromMemory(ttl time.Duration) (*SnapshotCache, error) {
	return NewSnapshotCache(":memory:", ttl)
}

// NewSnapshotCache opens a buntdb database at path
func NewSnapshotCache(path string, ttl time.Duration) (*SnapshotCache, error) {
	db, err := buntdb.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open buntdb: %w", err)
	}

	return &SnapshotCache{db: db, ttl: ttl}, nil
}

// Get returns the cached snapshot of key
func (c *SnapshotCache) Get(key string) ([]byte, bool, error) {
	var content string

	err := c.db.View(func(tx *buntdb.Tx) error {
		var err error
		content, err = tx.Get(keyPrefix + key)
		return err
	})

	if errors.Is(err, buntdb.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read snapshot %s: %w", key, err)
	}

	return []byte(content), true, nil
}

// Set stores a snapshot under key
func (c *SnapshotCache) Set(key string, content []byte) error {
	var options *buntdb.SetOptions
	if c.ttl > 0 {
		options = &buntdb.SetOptions{Expires: true, TTL: c.ttl}
	}

	return c.db.Update(func(tx *buntdb.Tx) error {
		if _, _, err := tx.Set(keyPrefix+key, string(content), options); err != nil {
			return fmt.Errorf("failed to store snapshot %s: %w", key, err)
		}
		return nil
	})
}

// GetOrRender returns the cached snapshot or renders, stores and returns it
func (c *SnapshotCache) GetOrRender(key string, render func() ([]byte, error)) ([]byte, error) {
	if content, ok, err := c.Get(key); err != nil || ok {
		return content, err
	}

	content, err := render()
	if err != nil {
		return nil, err
	}

	if err := c.Set(key, content); err != nil {
		return nil, err
	}

	return content, nil
}

// Len returns the number of live entries
func (c *SnapshotCache) Len() (int, error) {
	var count int
	err := c.db.View(func(tx *buntdb.Tx) error {
		return tx.AscendKeys(keyPrefix+"*", func(_, _ string) bool {
			count++
			return true
		})
	})
	return count, err
}

// Close closes the database
func (c *SnapshotCache) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}
