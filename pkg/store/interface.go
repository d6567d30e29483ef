package store

import (
	"time"

	"github.com/mathevilla/mathevilla/pkg/model"
)

// Answer is one journaled answer submission. The journal feeds the
// dashboard's recent-activity list and keeps working offline.
type Answer struct {
	TaskID     string
	Topic      string
	Grade      int
	Answer     string
	Correct    bool
	XPEarned   int
	AnsweredAt time.Time
}

// CacheStore defines the client-side cache interface. Implementations
// include the default SQLite store and an in-memory store for tests.
type CacheStore interface {
	// Close closes the underlying storage connection.
	Close() error

	// SaveTasks upserts a batch of fetched tasks.
	SaveTasks(tasks []model.Task) error

	// TasksFor returns the cached tasks for a grade and topic, ordered by ID.
	TasksFor(grade int, topic string) ([]model.Task, error)

	// RecordAnswer appends one answer to the local journal.
	RecordAnswer(a Answer) error

	// RecentAnswers returns up to limit journal entries, newest first.
	RecentAnswers(limit int) ([]Answer, error)
}

// Compile-time check: *Store implements CacheStore.
var _ CacheStore = (*Store)(nil)
