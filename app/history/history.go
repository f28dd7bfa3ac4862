package history

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

// Trigger names why a revision was written.
type Trigger string

const (
	TriggerSave     Trigger = "save"
	TriggerAutosave Trigger = "autosave"
	TriggerSwitch   Trigger = "switch"
	TriggerRestore  Trigger = "restore"
	TriggerReload   Trigger = "reload"
	TriggerCLI      Trigger = "cli"
)

// ErrNotFound is returned by Get for unknown revision ids.
var ErrNotFound = errors.New("revision not found")

// Revision is one persisted artifact snapshot.
type Revision struct {
	ID        int64
	Project   string
	Trigger   Trigger
	Hash      string
	Content   string
	CreatedAt time.Time
}

// Store keeps artifact revisions in a single SQLite table.
type Store struct {
	db   *sql.DB
	mu   sync.Mutex
	path string
}

// Open creates (if needed) and opens the history database at path.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("history: empty database path")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single connection keeps ":memory:" databases alive and serialises writers.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS revisions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		project TEXT NOT NULL,
		reason TEXT NOT NULL,
		hash TEXT NOT NULL,
		content TEXT NOT NULL,
		created_at INTEGER NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create revisions table: %w", err)
	}
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS revisions_project ON revisions(project, id)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create revisions index: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Path returns the database location.
func (s *Store) Path() string { return s.path }

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// Record stores content for project unless it equals the project's latest
// revision. It returns the id of the latest revision and whether a new row was
// written.
func (s *Store) Record(ctx context.Context, project string, trigger Trigger, content string) (int64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	hash := Hash(content)
	var lastID int64
	var lastHash string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, hash FROM revisions WHERE project = ? ORDER BY id DESC LIMIT 1`, project,
	).Scan(&lastID, &lastHash)
	switch {
	case err == nil && lastHash == hash:
		return lastID, false, nil
	case err != nil && !errors.Is(err, sql.ErrNoRows):
		return 0, false, fmt.Errorf("select latest revision: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO revisions (project, reason, hash, content, created_at) VALUES (?, ?, ?, ?, ?)`,
		project, string(trigger), hash, content, time.Now().UnixMilli(),
	)
	if err != nil {
		return 0, false, fmt.Errorf("insert revision: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, false, fmt.Errorf("revision id: %w", err)
	}
	return id, true, nil
}

// List returns up to limit revisions of project, newest first, without content.
func (s *Store) List(ctx context.Context, project string, limit int) ([]Revision, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, project, reason, hash, created_at FROM revisions WHERE project = ? ORDER BY id DESC LIMIT ?`,
		project, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("select revisions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Revision
	for rows.Next() {
		var r Revision
		var trigger string
		var created int64
		if err := rows.Scan(&r.ID, &r.Project, &trigger, &r.Hash, &created); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		r.Trigger = Trigger(trigger)
		r.CreatedAt = time.UnixMilli(created)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Get loads a single revision including its content.
func (s *Store) Get(ctx context.Context, id int64) (Revision, error) {
	var r Revision
	var trigger string
	var created int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id, project, reason, hash, content, created_at FROM revisions WHERE id = ?`, id,
	).Scan(&r.ID, &r.Project, &trigger, &r.Hash, &r.Content, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return Revision{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if err != nil {
		return Revision{}, fmt.Errorf("select revision: %w", err)
	}
	r.Trigger = Trigger(trigger)
	r.CreatedAt = time.UnixMilli(created)
	return r, nil
}

// Hash is the content fingerprint stored next to each revision.
func Hash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
