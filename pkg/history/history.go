// Claude Auto Speak - voice notifications for CLI agents
// License: MIT

// Package history keeps a local record of spoken utterances in SQLite. The
// store is a write-only bystander of the playback path: a failed insert is
// logged and forgotten, never surfaced to the speaker.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/AskTinNguyen/claude-auto-speak/pkg/logger"
	"github.com/AskTinNguyen/claude-auto-speak/pkg/playback"
	"github.com/AskTinNguyen/claude-auto-speak/pkg/redaction"
)

// Entry is one spoken utterance.
type Entry struct {
	ID       string
	Session  string
	Text     string
	Engine   string
	Voice    string
	SpokenAt time.Time
}

// Store persists utterances to a SQLite database.
type Store struct {
	db      *sql.DB
	maxRows int
}

// Open creates or opens the history database. maxRows <= 0 disables pruning.
func Open(path string, maxRows int) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	s := &Store{db: db, maxRows: maxRows}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS utterances (
		id TEXT PRIMARY KEY,
		session TEXT,
		text TEXT,
		engine TEXT,
		voice TEXT,
		spoken_at DATETIME
	)`)
	if err != nil {
		return fmt.Errorf("init history schema: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// Record inserts one utterance. Text is redacted before it touches disk.
func (s *Store) Record(ctx context.Context, e Entry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.SpokenAt.IsZero() {
		e.SpokenAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO utterances VALUES (?, ?, ?, ?, ?, ?)",
		e.ID, e.Session, redaction.Redact(e.Text), e.Engine, e.Voice, e.SpokenAt)
	if err != nil {
		return fmt.Errorf("record utterance: %w", err)
	}
	s.prune(ctx)
	return nil
}

// Recent returns up to n utterances, newest first.
func (s *Store) Recent(ctx context.Context, n int) ([]Entry, error) {
	if n <= 0 {
		n = 20
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, session, text, engine, voice, spoken_at FROM utterances ORDER BY spoken_at DESC, id LIMIT ?", n)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Session, &e.Text, &e.Engine, &e.Voice, &e.SpokenAt); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Count returns the number of stored utterances.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM utterances").Scan(&n)
	return n, err
}

// prune keeps the table bounded to maxRows, dropping oldest first.
func (s *Store) prune(ctx context.Context) {
	if s.maxRows <= 0 {
		return
	}
	_, err := s.db.ExecContext(ctx, `DELETE FROM utterances WHERE id NOT IN (
		SELECT id FROM utterances ORDER BY spoken_at DESC, id LIMIT ?)`, s.maxRows)
	if err != nil {
		logger.WarnCF("history", "prune failed", map[string]any{"error": err.Error()})
	}
}

// Observer adapts the store to the playback observer interface.
type Observer struct {
	store *Store
}

// NewObserver wraps a store for registration with the coordinator.
func NewObserver(store *Store) *Observer {
	return &Observer{store: store}
}

// UtteranceStarted records the utterance. Runs off the playback path; errors
// are logged and swallowed.
func (o *Observer) UtteranceStarted(u playback.Utterance) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := o.store.Record(ctx, Entry{
		Session: u.Session,
		Text:    u.Text,
		Engine:  u.Engine,
		Voice:   u.Voice,
	})
	if err != nil {
		logger.WarnCF("history", "failed to record utterance", map[string]any{
			"error": err.Error(),
		})
	}
}
