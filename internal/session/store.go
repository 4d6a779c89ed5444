// Package session keeps each visitor's page state for the lifetime of the
// process. Sessions live in an in-memory SQLite database and expire when idle.
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/prateekydv01/portfolio/internal/page"
)

// ErrNotFound is returned for unknown or expired session ids.
var ErrNotFound = errors.New("session not found")

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id TEXT PRIMARY KEY,
	state TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	last_seen INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sessions_last_seen ON sessions(last_seen);`

// Store serialises all reads and writes, so each transition sees the state the
// previous one left behind.
type Store struct {
	db  *sql.DB
	mu  sync.Mutex
	ttl time.Duration
	now func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Open creates an empty in-memory store. Sessions idle for longer than ttl are
// removed by Sweep.
func Open(ttl time.Duration, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening session database: %w", err)
	}
	// Every connection to ":memory:" is its own database.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating session schema: %w", err)
	}

	s := &Store{db: db, ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close releases the database; all sessions are lost.
func (s *Store) Close() error {
	return s.db.Close()
}

// Create starts a session holding a fresh page state.
func (s *Store) Create(ctx context.Context) (string, page.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	state := page.New()
	data, err := json.Marshal(state)
	if err != nil {
		return "", page.State{}, fmt.Errorf("encoding session state: %w", err)
	}
	now := s.now().UnixNano()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, state, created_at, last_seen) VALUES (?, ?, ?, ?)`,
		id, string(data), now, now)
	if err != nil {
		return "", page.State{}, fmt.Errorf("inserting session: %w", err)
	}
	return id, state, nil
}

// Load returns the current state of a session.
func (s *Store) Load(ctx context.Context, id string) (page.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx, id)
}

// Update runs fn against the session's state and saves the result. If fn
// returns an error nothing is saved and the error is passed through.
func (s *Store) Update(ctx context.Context, id string, fn func(*page.State) error) (page.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load(ctx, id)
	if err != nil {
		return page.State{}, err
	}
	if err := fn(&state); err != nil {
		return page.State{}, err
	}

	data, err := json.Marshal(state)
	if err != nil {
		return page.State{}, fmt.Errorf("encoding session state: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`UPDATE sessions SET state = ?, last_seen = ? WHERE id = ?`,
		string(data), s.now().UnixNano(), id)
	if err != nil {
		return page.State{}, fmt.Errorf("saving session %s: %w", id, err)
	}
	return state, nil
}

func (s *Store) load(ctx context.Context, id string) (page.State, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT state FROM sessions WHERE id = ?`, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return page.State{}, ErrNotFound
	}
	if err != nil {
		return page.State{}, fmt.Errorf("loading session %s: %w", id, err)
	}

	var state page.State
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return page.State{}, fmt.Errorf("decoding session %s: %w", id, err)
	}
	return state, nil
}

// Count returns the number of live sessions.
func (s *Store) Count(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting sessions: %w", err)
	}
	return n, nil
}

// Sweep deletes sessions that have been idle for longer than the TTL.
func (s *Store) Sweep(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.ttl).UnixNano()
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE last_seen < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("sweeping sessions: %w", err)
	}
	return res.RowsAffected()
}

// RunSweeper calls Sweep every interval until ctx is done.
func (s *Store) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.Sweep(ctx)
			if err != nil {
				log.Printf("Error cleaning up sessions: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("Session cleanup: removed %d idle sessions", n)
			}
		}
	}
}
