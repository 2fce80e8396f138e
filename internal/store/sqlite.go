package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Store persists ingested run results. Test case paths, group paths and
// error messages are interned in the strings table; runs reference them by
// id so repeated error messages cost one row.
type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`PRAGMA journal_mode=WAL;`,
		`CREATE TABLE IF NOT EXISTS strings (
			string_id INTEGER PRIMARY KEY AUTOINCREMENT,
			string TEXT NOT NULL UNIQUE
		);`,
		`CREATE TABLE IF NOT EXISTS groups (
			path_sid INTEGER UNIQUE REFERENCES strings(string_id),
			group_sid INTEGER REFERENCES strings(string_id)
		);`,
		`CREATE TABLE IF NOT EXISTS runs (
			testcase_sid INTEGER NOT NULL REFERENCES strings(string_id),
			error_category TEXT,
			error_message_sid INTEGER REFERENCES strings(string_id),
			use_strict TINYINT NOT NULL,
			version CHAR(40) NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS commits (
			position INTEGER PRIMARY KEY AUTOINCREMENT,
			commit_id CHAR(40) NOT NULL UNIQUE
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_version ON runs(version);`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate schema: %w", err)
		}
	}
	return nil
}

// ReplaceCommitOrder installs the dashboard commit ordering, most recent
// first. The previous ordering is discarded.
func (s *Store) ReplaceCommitOrder(commitIDs []string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM commits`); err != nil {
		return fmt.Errorf("clear commit order: %w", err)
	}
	for i, id := range commitIDs {
		if _, err := tx.Exec(`INSERT INTO commits (position, commit_id) VALUES (?, ?)`, i+1, id); err != nil {
			return fmt.Errorf("insert commit %q: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (s *Store) CommitOrder() ([]string, error) {
	rows, err := s.db.Query(`SELECT commit_id FROM commits ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("list commit order: %w", err)
	}
	defer rows.Close()

	commits := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan commit id: %w", err)
		}
		commits = append(commits, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate commit order: %w", err)
	}
	return commits, nil
}

func (s *Store) HasCommit(commitID string) (bool, error) {
	var one int
	err := s.db.QueryRow(`SELECT 1 FROM commits WHERE commit_id = ?`, commitID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("look up commit: %w", err)
	}
	return true, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
