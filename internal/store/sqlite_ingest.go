package store

import (
	"database/sql"
	"fmt"
	"path"

	"github.com/tragdev/trag/internal/protocol"
)

// Ingest is one ingestion transaction. All records of a batch land in a
// single tx so a failing file leaves the database untouched.
type Ingest struct {
	tx       *sql.Tx
	interned map[string]int64
	added    int
}

func (s *Store) BeginIngest() (*Ingest, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin ingest tx: %w", err)
	}
	return &Ingest{tx: tx, interned: make(map[string]int64)}, nil
}

func (in *Ingest) Add(rec protocol.RunRecord) error {
	group := groupOf(rec.Testcase)
	groupSID, err := in.internString(group)
	if err != nil {
		return err
	}
	testcaseSID, err := in.internString(rec.Testcase)
	if err != nil {
		return err
	}

	var errorCategory any
	var errorMessageSID any
	if rec.Error != nil {
		messageSID, err := in.internString(rec.Error.Message)
		if err != nil {
			return err
		}
		errorCategory = rec.Error.Category
		errorMessageSID = messageSID
	}

	if _, err := in.tx.Exec(
		`INSERT OR IGNORE INTO groups (path_sid, group_sid) VALUES (?, ?)`,
		testcaseSID, groupSID,
	); err != nil {
		return fmt.Errorf("insert group mapping: %w", err)
	}

	if _, err := in.tx.Exec(`
		INSERT INTO runs (testcase_sid, error_category, error_message_sid, use_strict, version)
		VALUES (?, ?, ?, ?, ?)
	`, testcaseSID, errorCategory, errorMessageSID, boolToInt(rec.UseStrict), rec.Version); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	in.added++
	return nil
}

// Added is the number of records inserted so far in this transaction.
func (in *Ingest) Added() int {
	return in.added
}

func (in *Ingest) Commit() error {
	if err := in.tx.Commit(); err != nil {
		return fmt.Errorf("commit ingest tx: %w", err)
	}
	return nil
}

func (in *Ingest) Rollback() {
	_ = in.tx.Rollback()
}

func (in *Ingest) internString(s string) (int64, error) {
	if id, ok := in.interned[s]; ok {
		return id, nil
	}

	if _, err := in.tx.Exec(`INSERT OR IGNORE INTO strings (string) VALUES (?)`, s); err != nil {
		return 0, fmt.Errorf("intern string: %w", err)
	}
	var id int64
	if err := in.tx.QueryRow(`SELECT string_id FROM strings WHERE string = ?`, s).Scan(&id); err != nil {
		return 0, fmt.Errorf("fetch interned string id: %w", err)
	}
	in.interned[s] = id
	return id, nil
}

// ClearRuns removes all ingested run data. Commit ordering survives.
func (s *Store) ClearRuns() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM groups`); err != nil {
		return fmt.Errorf("clear groups: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM runs`); err != nil {
		return fmt.Errorf("clear runs: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// groupOf maps a test case to its group: the directory part of its path.
// Top-level cases belong to the empty group.
func groupOf(testcase string) string {
	dir := path.Dir(testcase)
	if dir == "." || dir == "/" {
		return ""
	}
	return dir
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
