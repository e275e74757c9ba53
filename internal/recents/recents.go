// Package recents keeps a small local cache of the operator's recently used
// selections per entity kind, backed by SQLite. Comboboxes seed their
// "browse" list from it so frequent picks surface before the first fetch
// resolves.
package recents

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/avaldiviar/colegio/internal/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS recents (
	kind    TEXT NOT NULL,
	id      TEXT NOT NULL,
	label   TEXT NOT NULL,
	detail  TEXT NOT NULL DEFAULT '',
	used_at INTEGER NOT NULL,
	PRIMARY KEY (kind, id)
);
CREATE INDEX IF NOT EXISTS idx_recents_kind_used ON recents (kind, used_at DESC);
`

type Store struct {
	path string
	db   *sql.DB
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Open() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("recents: creating data directory: %w", err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("recents: opening database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return fmt.Errorf("recents: applying schema: %w", err)
	}
	s.db = db
	return nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Touch records that the operator just chose this candidate. Re-choosing an
// entry refreshes its timestamp.
func (s *Store) Touch(kind string, c models.Candidate) error {
	_, err := s.db.Exec(`
		INSERT INTO recents (kind, id, label, detail, used_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (kind, id) DO UPDATE SET
			label = excluded.label,
			detail = excluded.detail,
			used_at = excluded.used_at`,
		kind, c.ID, c.Label, c.Detail, time.Now().UnixNano())
	if err != nil {
		return fmt.Errorf("recents: recording selection: %w", err)
	}
	return nil
}

// List returns the most recently used candidates for a kind, newest first.
func (s *Store) List(kind string, limit int) ([]models.Candidate, error) {
	rows, err := s.db.Query(`
		SELECT id, label, detail FROM recents
		WHERE kind = ?
		ORDER BY used_at DESC
		LIMIT ?`, kind, limit)
	if err != nil {
		return nil, fmt.Errorf("recents: listing: %w", err)
	}
	defer rows.Close()

	var out []models.Candidate
	for rows.Next() {
		var c models.Candidate
		if err := rows.Scan(&c.ID, &c.Label, &c.Detail); err != nil {
			return nil, fmt.Errorf("recents: scanning row: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Prune drops all but the newest n entries per kind.
func (s *Store) Prune(n int) error {
	_, err := s.db.Exec(`
		DELETE FROM recents WHERE (kind, id) NOT IN (
			SELECT kind, id FROM (
				SELECT kind, id,
					ROW_NUMBER() OVER (PARTITION BY kind ORDER BY used_at DESC) AS rn
				FROM recents
			) WHERE rn <= ?
		)`, n)
	if err != nil {
		return fmt.Errorf("recents: pruning: %w", err)
	}
	return nil
}
