package storage

import "time"

// DeadLetter records one rejected input line: where it came from, why the
// parser refused it, and when.
type DeadLetter struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
	Format    string    `json:"format"`
	Line      string    `json:"line"`
	Reason    string    `json:"reason"`
}

// Store is the persistence interface for rejected lines.
// Implementations must be goroutine-safe.
type Store interface {
	Append(letter DeadLetter) error

	// Recent returns up to n letters, newest first. An empty service
	// matches all services.
	Recent(service string, n int) ([]DeadLetter, error)

	// Prune deletes letters older than the given age and reports how many
	// were removed.
	Prune(olderThan time.Duration) (int, error)

	Close() error
}
