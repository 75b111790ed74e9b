package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Store persists small per-document navigation state (last refile target,
// recent picks) in a sqlite db. Positions are not durable across processes,
// so state is keyed by document path and stored as outline paths (heading
// text chains); resolution happens at load time and may fail if the document
// moved on.
type Store struct {
	Path string
}

// DefaultPath returns the state db location under the user config dir.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "orgnav", "state.sqlite"), nil
}

func (s Store) open(ctx context.Context) (*sql.DB, error) {
	if s.Path == "" {
		return nil, errors.New("store path not set")
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", s.Path)
	if err != nil {
		return nil, err
	}
	if err := migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS refile_marks (
			doc TEXT PRIMARY KEY,
			heading_path TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS recent_picks (
			doc TEXT NOT NULL,
			heading_path TEXT NOT NULL,
			picked_at_unixms INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS recent_picks_doc ON recent_picks(doc, picked_at_unixms DESC)`,
	}
	for _, q := range stmts {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

// SaveRefileMark records the last refile destination for doc as an outline path.
func (s Store) SaveRefileMark(ctx context.Context, doc string, headingPath []string) error {
	db, err := s.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()
	raw, err := json.Marshal(headingPath)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx,
		`INSERT OR REPLACE INTO refile_marks(doc, heading_path, updated_at_unixms) VALUES(?, ?, ?)`,
		doc, string(raw), time.Now().UTC().UnixMilli())
	return err
}

// LoadRefileMark returns the recorded refile destination path for doc, if any.
func (s Store) LoadRefileMark(ctx context.Context, doc string) ([]string, bool, error) {
	db, err := s.open(ctx)
	if err != nil {
		return nil, false, err
	}
	defer db.Close()
	var raw string
	err = db.QueryRowContext(ctx,
		`SELECT heading_path FROM refile_marks WHERE doc = ?`, doc).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var path []string
	if err := json.Unmarshal([]byte(raw), &path); err != nil {
		return nil, false, err
	}
	return path, true, nil
}

// AddRecentPick records a selected heading, newest first, pruning beyond keep.
func (s Store) AddRecentPick(ctx context.Context, doc string, headingPath []string, keep int) error {
	db, err := s.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()
	raw, err := json.Marshal(headingPath)
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx,
		`INSERT INTO recent_picks(doc, heading_path, picked_at_unixms) VALUES(?, ?, ?)`,
		doc, string(raw), time.Now().UTC().UnixMilli()); err != nil {
		return err
	}
	if keep <= 0 {
		return nil
	}
	_, err = db.ExecContext(ctx, `
		DELETE FROM recent_picks
		WHERE doc = ? AND rowid NOT IN (
			SELECT rowid FROM recent_picks WHERE doc = ?
			ORDER BY picked_at_unixms DESC, rowid DESC LIMIT ?
		)`, doc, doc, keep)
	return err
}

// RecentPicks returns up to limit recent picks for doc, newest first.
func (s Store) RecentPicks(ctx context.Context, doc string, limit int) ([][]string, error) {
	db, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	if limit <= 0 {
		limit = 10
	}
	rows, err := db.QueryContext(ctx, `
		SELECT heading_path FROM recent_picks WHERE doc = ?
		ORDER BY picked_at_unixms DESC, rowid DESC LIMIT ?`, doc, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out [][]string
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var path []string
		if err := json.Unmarshal([]byte(raw), &path); err != nil {
			return nil, err
		}
		out = append(out, path)
	}
	return out, rows.Err()
}
