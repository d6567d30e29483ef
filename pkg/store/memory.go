package store

import (
	"sort"
	"sync"
	"time"

	"github.com/mathevilla/mathevilla/pkg/model"
)

// MemoryStore provides an in-memory CacheStore implementation for tests.
// It mirrors SQLite behavior for ordering and timestamps.
type MemoryStore struct {
	mu sync.RWMutex

	now func() time.Time

	tasksByID map[string]model.Task
	answers   []Answer
}

// NewMemory creates a MemoryStore using time.Now().UTC().
func NewMemory() *MemoryStore {
	return NewMemoryWithClock(func() time.Time { return time.Now().UTC() })
}

// NewMemoryWithClock creates a MemoryStore with a custom clock.
func NewMemoryWithClock(now func() time.Time) *MemoryStore {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &MemoryStore{
		now:       now,
		tasksByID: make(map[string]model.Task),
	}
}

// Close is a no-op for MemoryStore.
func (s *MemoryStore) Close() error {
	return nil
}

// SaveTasks upserts a batch of fetched tasks.
func (s *MemoryStore) SaveTasks(tasks []model.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range tasks {
		s.tasksByID[t.ID] = t
	}
	return nil
}

// TasksFor returns the cached tasks for a grade and topic, ordered by ID.
func (s *MemoryStore) TasksFor(grade int, topic string) ([]model.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var tasks []model.Task
	for _, t := range s.tasksByID {
		if t.Grade == grade && t.Topic == topic {
			tasks = append(tasks, t)
		}
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })
	return tasks, nil
}

// RecordAnswer appends one answer to the journal.
func (s *MemoryStore) RecordAnswer(a Answer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.AnsweredAt.IsZero() {
		a.AnsweredAt = s.now()
	}
	s.answers = append(s.answers, a)
	return nil
}

// RecentAnswers returns up to limit journal entries, newest first.
func (s *MemoryStore) RecentAnswers(limit int) ([]Answer, error) {
	if limit <= 0 {
		return nil, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Reversed copy so ties on AnsweredAt keep the later insert first,
	// matching the SQLite ordering.
	answers := make([]Answer, 0, len(s.answers))
	for i := len(s.answers) - 1; i >= 0; i-- {
		answers = append(answers, s.answers[i])
	}
	sort.SliceStable(answers, func(i, j int) bool {
		return answers[i].AnsweredAt.After(answers[j].AnsweredAt)
	})
	if len(answers) > limit {
		answers = answers[:limit]
	}
	return answers, nil
}

// Compile-time check: *MemoryStore implements CacheStore.
var _ CacheStore = (*MemoryStore)(nil)
