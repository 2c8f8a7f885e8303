// Package cache keeps rendered HTML on disk so repeated renders of the same
// text skip the formatter.
package cache

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/zeebo/blake3"
	bolt "go.etcd.io/bbolt"
)

const bucketRendered = "rendered"

// Mode tells apart the two entry points, which render the same text
// differently.
type Mode string

const (
	ModeStory   Mode = "story"
	ModeCaption Mode = "caption"
)

// Cache is a bbolt-backed store of rendered HTML.
type Cache struct {
	db *bolt.DB
}

// Open opens or creates the cache database at path.
func Open(path string) (*Cache, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open cache %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketRendered))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize cache: %w", err)
	}
	return &Cache{db: db}, nil
}

// Key derives the storage key for text rendered in mode.
func Key(mode Mode, text string) string {
	h := blake3.New()
	h.Write([]byte(mode))
	h.Write([]byte{0})
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the HTML stored for text. ok is false on a miss.
func (c *Cache) Get(mode Mode, text string) (html string, ok bool, err error) {
	err = c.db.View(func(tx *bolt.Tx) error {
		// Values are only valid inside the transaction, so copy.
		if v := tx.Bucket([]byte(bucketRendered)).Get([]byte(Key(mode, text))); v != nil {
			html, ok = string(v), true
		}
		return nil
	})
	return html, ok, err
}

// Put stores the HTML rendered for text.
func (c *Cache) Put(mode Mode, text, html string) error {
	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketRendered)).Put([]byte(Key(mode, text)), []byte(html))
	})
}

// Len reports how many renders are stored.
func (c *Cache) Len() (int, error) {
	var n int
	err := c.db.View(func(tx *bolt.Tx) error {
		n = tx.Bucket([]byte(bucketRendered)).Stats().KeyN
		return nil
	})
	return n, err
}

func (c *Cache) Close() error {
	return c.db.Close()
}
