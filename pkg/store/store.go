// Package store provides the SQLite-backed local cache for tasks and the
// answer journal.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mathevilla/mathevilla/pkg/model"
)

const dbTimeLayout = "2006-01-02 15:04:05"

// Store caches fetched tasks and journals answer submissions in a local
// SQLite database so the dashboard keeps working between sessions and
// while offline.
type Store struct {
	db *sql.DB
}

// New opens (or creates) a SQLite database and runs migrations.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}

	ctx := context.Background()

	// Enable WAL mode for better concurrent read performance
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: set WAL: %w", err)
	}
	// Set busy timeout to avoid "database is locked" under concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: set busy_timeout: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: migrate: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS tasks (
		id        TEXT    PRIMARY KEY,
		grade     INTEGER NOT NULL,
		topic     TEXT    NOT NULL,
		question  TEXT    NOT NULL,
		options   TEXT    NOT NULL DEFAULT '[]',
		explanation TEXT  NOT NULL DEFAULT '',
		xp_reward INTEGER NOT NULL DEFAULT 0,
		fetched_at TEXT   NOT NULL DEFAULT (datetime('now'))
	);

	CREATE TABLE IF NOT EXISTS answers (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		task_id     TEXT    NOT NULL,
		topic       TEXT    NOT NULL DEFAULT '',
		grade       INTEGER NOT NULL DEFAULT 0,
		answer      TEXT    NOT NULL DEFAULT '',
		correct     INTEGER NOT NULL DEFAULT 0,
		xp_earned   INTEGER NOT NULL DEFAULT 0,
		answered_at TEXT    NOT NULL DEFAULT (datetime('now'))
	);
	`
	ctx := context.Background()
	if err := s.ensureSchemaMigrations(ctx); err != nil {
		return err
	}
	currentVersion, err := s.getSchemaVersion(ctx)
	if err != nil {
		return err
	}

	migrations := []struct {
		version      int
		statements   []string
		ignoreErrors bool
	}{
		{
			version:    1,
			statements: []string{schema},
		},
		{
			version: 2,
			statements: []string{
				"CREATE INDEX IF NOT EXISTS idx_tasks_grade_topic ON tasks(grade, topic)",
				"CREATE INDEX IF NOT EXISTS idx_answers_answered_at ON answers(answered_at)",
			},
			ignoreErrors: true,
		},
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		for _, stmt := range m.statements {
			if err := s.execMigration(ctx, stmt, m.ignoreErrors); err != nil {
				return err
			}
		}
		if err := s.setSchemaVersion(ctx, m.version); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) ensureSchemaMigrations(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "CREATE TABLE IF NOT EXISTS schema_migrations (version INTEGER NOT NULL)"); err != nil {
		return fmt.Errorf("store: create schema_migrations: %w", err)
	}
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
		return fmt.Errorf("store: check schema_migrations: %w", err)
	}
	if count == 0 {
		if _, err := s.db.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES (0)"); err != nil {
			return fmt.Errorf("store: init schema_migrations: %w", err)
		}
	}
	return nil
}

func (s *Store) getSchemaVersion(ctx context.Context) (int, error) {
	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_migrations LIMIT 1").Scan(&version); err != nil {
		return 0, fmt.Errorf("store: read schema version: %w", err)
	}
	return version, nil
}

func (s *Store) setSchemaVersion(ctx context.Context, version int) error {
	if _, err := s.db.ExecContext(ctx, "UPDATE schema_migrations SET version = ?", version); err != nil {
		return fmt.Errorf("store: update schema version: %w", err)
	}
	return nil
}

func (s *Store) execMigration(ctx context.Context, stmt string, ignoreErrors bool) error {
	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		if ignoreErrors {
			return nil
		}
		return fmt.Errorf("store: migrate: %w", err)
	}
	return nil
}

func formatDBTime(t time.Time) string {
	return t.UTC().Format(dbTimeLayout)
}

func parseDBTime(value string) (time.Time, error) {
	return time.ParseInLocation(dbTimeLayout, value, time.UTC)
}

// ---- Tasks ----

// SaveTasks upserts a batch of fetched tasks in one transaction.
func (s *Store) SaveTasks(tasks []model.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	ctx := context.Background()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, t := range tasks {
		options, err := json.Marshal(t.Options)
		if err != nil {
			return fmt.Errorf("store: encode options: %w", err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO tasks (id, grade, topic, question, options, explanation, xp_reward, fetched_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				grade = excluded.grade,
				topic = excluded.topic,
				question = excluded.question,
				options = excluded.options,
				explanation = excluded.explanation,
				xp_reward = excluded.xp_reward,
				fetched_at = excluded.fetched_at`,
			t.ID, t.Grade, t.Topic, t.Question, string(options), t.Explanation, t.XPReward,
			formatDBTime(time.Now().UTC()))
		if err != nil {
			return fmt.Errorf("store: save task: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit: %w", err)
	}
	return nil
}

// TasksFor returns the cached tasks for a grade and topic, ordered by ID.
func (s *Store) TasksFor(grade int, topic string) ([]model.Task, error) {
	rows, err := s.db.QueryContext(context.Background(),
		"SELECT id, grade, topic, question, options, explanation, xp_reward FROM tasks WHERE grade = ? AND topic = ? ORDER BY id",
		grade, topic)
	if err != nil {
		return nil, fmt.Errorf("store: list tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []model.Task
	for rows.Next() {
		var t model.Task
		var options string
		if err := rows.Scan(&t.ID, &t.Grade, &t.Topic, &t.Question, &options, &t.Explanation, &t.XPReward); err != nil {
			return nil, fmt.Errorf("store: scan task: %w", err)
		}
		if err := json.Unmarshal([]byte(options), &t.Options); err != nil {
			return nil, fmt.Errorf("store: decode options: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// ---- Answers ----

// RecordAnswer appends one answer to the journal. A zero AnsweredAt is
// replaced with the current time.
func (s *Store) RecordAnswer(a Answer) error {
	answeredAt := a.AnsweredAt
	if answeredAt.IsZero() {
		answeredAt = time.Now().UTC()
	}
	correctInt := 0
	if a.Correct {
		correctInt = 1
	}
	_, err := s.db.ExecContext(context.Background(),
		"INSERT INTO answers (task_id, topic, grade, answer, correct, xp_earned, answered_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		a.TaskID, a.Topic, a.Grade, a.Answer, correctInt, a.XPEarned, formatDBTime(answeredAt))
	if err != nil {
		return fmt.Errorf("store: record answer: %w", err)
	}
	return nil
}

// RecentAnswers returns up to limit journal entries, newest first.
func (s *Store) RecentAnswers(limit int) ([]Answer, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(context.Background(),
		"SELECT task_id, topic, grade, answer, correct, xp_earned, answered_at FROM answers ORDER BY answered_at DESC, id DESC LIMIT ?",
		limit)
	if err != nil {
		return nil, fmt.Errorf("store: list answers: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var answers []Answer
	for rows.Next() {
		var a Answer
		var correctInt int
		var answeredAt string
		if err := rows.Scan(&a.TaskID, &a.Topic, &a.Grade, &a.Answer, &correctInt, &a.XPEarned, &answeredAt); err != nil {
			return nil, fmt.Errorf("store: scan answer: %w", err)
		}
		a.Correct = correctInt != 0
		parsed, err := parseDBTime(answeredAt)
		if err != nil {
			return nil, fmt.Errorf("store: scan answer: %w", err)
		}
		a.AnsweredAt = parsed
		answers = append(answers, a)
	}
	return answers, rows.Err()
}
