package storage

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"
)

var bucketDeadLetters = []byte("dead_letters")

// maxLetterLine bounds how much of a rejected line is persisted.
const maxLetterLine = 1024

// BoltStore implements the Store interface using bbolt.
type BoltStore struct {
	db *bolt.DB
}

// NewBoltStore opens (or creates) a bbolt database at the given path.
func NewBoltStore(path string) (*BoltStore, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketDeadLetters)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create bucket: %w", err)
	}

	log.Printf("DeadLetterStore: opened %s", path)
	return &BoltStore{db: db}, nil
}

// Append persists one rejected line. Keys are timestamp-prefixed so a
// cursor walks them in chronological order.
func (s *BoltStore) Append(letter DeadLetter) error {
	if letter.ID == "" {
		letter.ID = generateStoreID()
	}
	if letter.Timestamp.IsZero() {
		letter.Timestamp = time.Now().UTC()
	}
	if len(letter.Line) > maxLetterLine {
		letter.Line = letter.Line[:maxLetterLine] + "..."
	}

	data, err := json.Marshal(letter)
	if err != nil {
		return err
	}
	key := []byte(letter.Timestamp.UTC().Format(time.RFC3339) + "_" + letter.ID)

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketDeadLetters).Put(key, data)
	})
}

// Recent returns up to n letters, newest first, optionally filtered by
// service.
func (s *BoltStore) Recent(service string, n int) ([]DeadLetter, error) {
	if n <= 0 {
		n = 20
	}

	var letters []DeadLetter
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketDeadLetters).Cursor()
		for k, v := c.Last(); k != nil && len(letters) < n; k, v = c.Prev() {
			var dl DeadLetter
			if err := json.Unmarshal(v, &dl); err != nil {
				continue // skip corrupt entries
			}
			if service != "" && !strings.EqualFold(dl.Service, service) {
				continue
			}
			letters = append(letters, dl)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if letters == nil {
		letters = []DeadLetter{}
	}
	return letters, nil
}

// Prune deletes letters older than the given age.
func (s *BoltStore) Prune(olderThan time.Duration) (int, error) {
	cutoff := time.Now().Add(-olderThan)
	deleted := 0

	err := s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketDeadLetters)

		var toDelete [][]byte
		bucket.ForEach(func(k, v []byte) error {
			var dl DeadLetter
			if err := json.Unmarshal(v, &dl); err != nil {
				return nil
			}
			if !dl.Timestamp.IsZero() && dl.Timestamp.Before(cutoff) {
				key := make([]byte, len(k))
				copy(key, k)
				toDelete = append(toDelete, key)
			}
			return nil
		})

		for _, k := range toDelete {
			bucket.Delete(k)
			deleted++
		}
		return nil
	})

	if deleted > 0 {
		log.Printf("DeadLetterStore: pruned %d letters older than %s", deleted, olderThan)
	}
	return deleted, err
}

// Close releases the database file.
func (s *BoltStore) Close() error {
	log.Println("DeadLetterStore: closing database")
	return s.db.Close()
}

func generateStoreID() string {
	b := make([]byte, 8)
	rand.Read(b)
	return hex.EncodeToString(b)
}
