package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	ferrors "git.home.luguber.info/inful/sitewatch/internal/foundation/errors"
)

// MemoryPath opens a private in-memory journal.
const MemoryPath = ":memory:"

// Store persists journal entries in SQLite.
type Store struct {
	db  *sql.DB
	mu  sync.RWMutex
	now func() time.Time
}

// Open opens or creates the journal at path, creating its directory.
func Open(path string) (*Store, error) {
	if path != MemoryPath && !strings.HasPrefix(path, "file:") {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, ferrors.JournalError("could not create journal directory").
				WithCause(err).
				WithContext("path", path).
				Build()
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, ferrors.JournalError("could not open journal database").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	// One connection: every :memory: connection is its own database, and
	// SQLite serializes writers anyway.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, now: time.Now}
	if err := s.initialize(); err != nil {
		_ = db.Close()
		return nil, ferrors.JournalError("failed to initialize journal schema").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	return s, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		cycle_id TEXT NOT NULL,
		event_type TEXT NOT NULL,
		timestamp INTEGER NOT NULL,
		payload BLOB NOT NULL,
		metadata TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_cycle_id ON events(cycle_id);
	CREATE INDEX IF NOT EXISTS idx_timestamp ON events(timestamp);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Append stores an event and returns its id. A nil payload is stored as "{}".
func (s *Store) Append(ctx context.Context, cycleID string, typ EventType, payload any, metadata map[string]string) (int64, error) {
	data := []byte("{}")
	if payload != nil {
		var err error
		if data, err = json.Marshal(payload); err != nil {
			return 0, ferrors.JournalError("failed to marshal journal payload").
				WithCause(err).
				WithContext("type", string(typ)).
				Build()
		}
	}

	var metadataJSON []byte
	if len(metadata) > 0 {
		var err error
		if metadataJSON, err = json.Marshal(metadata); err != nil {
			return 0, fmt.Errorf("marshal metadata: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO events (cycle_id, event_type, timestamp, payload, metadata) VALUES (?, ?, ?, ?, ?)",
		cycleID, string(typ), s.now().UnixMilli(), data, metadataJSON,
	)
	if err != nil {
		return 0, ferrors.JournalError("failed to append journal entry").
			WithCause(err).
			WithContext("cycle_id", cycleID).
			WithContext("type", string(typ)).
			Build()
	}
	return res.LastInsertId()
}

// ByCycle returns every entry of one cycle, oldest first.
func (s *Store) ByCycle(ctx context.Context, cycleID string) ([]Entry, error) {
	return s.query(ctx,
		"SELECT id, cycle_id, event_type, timestamp, payload, metadata FROM events WHERE cycle_id = ? ORDER BY id",
		cycleID)
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		return nil, nil
	}
	return s.query(ctx,
		"SELECT id, cycle_id, event_type, timestamp, payload, metadata FROM events ORDER BY id DESC LIMIT ?",
		limit)
}

// Prune deletes entries older than before and returns how many were removed.
func (s *Store) Prune(ctx context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM events WHERE timestamp < ?", before.UnixMilli())
	if err != nil {
		return 0, ferrors.JournalError("failed to prune journal").WithCause(err).Build()
	}
	return res.RowsAffected()
}

func (s *Store) query(ctx context.Context, q string, args ...any) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, ferrors.JournalError("failed to query journal").WithCause(err).Build()
	}
	defer func() {
		_ = rows.Close()
	}()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var typ string
		var ts int64
		var payload, metadataJSON []byte
		if err := rows.Scan(&e.ID, &e.CycleID, &typ, &ts, &payload, &metadataJSON); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		e.Type = EventType(typ)
		e.Timestamp = time.UnixMilli(ts)
		e.Payload = json.RawMessage(payload)
		if len(metadataJSON) > 0 {
			if err := json.Unmarshal(metadataJSON, &e.Metadata); err != nil {
				return nil, fmt.Errorf("unmarshal metadata: %w", err)
			}
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return entries, nil
}

// Close closes the database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
