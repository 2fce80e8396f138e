package store

import (
	"database/sql"
	"fmt"

	"github.com/tragdev/trag/internal/protocol"
)

// CommitSummaries aggregates run results per commit, ordered by the
// installed commit ordering. Commits without any runs are skipped.
func (s *Store) CommitSummaries() ([]protocol.CommitSummary, error) {
	rows, err := s.db.Query(`
		SELECT c.commit_id,
		       SUM(r.error_message_sid IS NULL) AS n_success,
		       COUNT(*) AS n_total
		FROM commits c
		JOIN runs r ON r.version = c.commit_id
		GROUP BY c.commit_id
		ORDER BY c.position
	`)
	if err != nil {
		return nil, fmt.Errorf("summarize commits: %w", err)
	}
	defer rows.Close()

	summaries := []protocol.CommitSummary{}
	for rows.Next() {
		var cs protocol.CommitSummary
		if err := rows.Scan(&cs.CommitID, &cs.NSuccess, &cs.NTotal); err != nil {
			return nil, fmt.Errorf("scan commit summary: %w", err)
		}
		summaries = append(summaries, cs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate commit summaries: %w", err)
	}
	return summaries, nil
}

// GroupBreakdown aggregates one version's results per test group, ordered
// by group path.
func (s *Store) GroupBreakdown(version string) ([]protocol.GroupResult, error) {
	rows, err := s.db.Query(`
		WITH q AS (
			SELECT g.group_sid, (r.error_message_sid IS NULL) AS success
			FROM runs r
			JOIN groups g ON r.testcase_sid = g.path_sid
			WHERE r.version = ?
		)
		SELECT sg.string AS grp,
		       SUM(q.success) AS n_ok,
		       COUNT(*) AS n_total
		FROM q
		JOIN strings sg ON sg.string_id = q.group_sid
		GROUP BY q.group_sid
		ORDER BY grp
	`, version)
	if err != nil {
		return nil, fmt.Errorf("group breakdown: %w", err)
	}
	defer rows.Close()

	groups := []protocol.GroupResult{}
	for rows.Next() {
		var g protocol.GroupResult
		var total int
		if err := rows.Scan(&g.Path, &g.NOk, &total); err != nil {
			return nil, fmt.Errorf("scan group result: %w", err)
		}
		g.NFail = total - g.NOk
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate group results: %w", err)
	}
	return groups, nil
}

// CaseResults lists every run of one version. The error message join is a
// LEFT JOIN so passing cases appear with an empty message.
func (s *Store) CaseResults(version string) ([]protocol.CaseResult, error) {
	rows, err := s.db.Query(`
		SELECT (r.error_message_sid IS NULL) AS passed,
		       r.use_strict,
		       st.string AS testcase,
		       COALESCE(se.string, '') AS error_msg
		FROM runs r
		JOIN strings st ON st.string_id = r.testcase_sid
		LEFT JOIN strings se ON se.string_id = r.error_message_sid
		WHERE r.version = ?
		ORDER BY testcase, r.use_strict
	`, version)
	if err != nil {
		return nil, fmt.Errorf("list case results: %w", err)
	}
	defer rows.Close()

	results := []protocol.CaseResult{}
	for rows.Next() {
		var cr protocol.CaseResult
		var passed, useStrict int
		if err := rows.Scan(&passed, &useStrict, &cr.Testcase, &cr.Error); err != nil {
			return nil, fmt.Errorf("scan case result: %w", err)
		}
		cr.Passed = passed == 1
		cr.UseStrict = useStrict == 1
		results = append(results, cr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate case results: %w", err)
	}
	return results, nil
}

// DiffVersions compares two versions: Introduced lists cases passing in a
// but failing in b, Fixed lists cases failing in a but passing in b.
func (s *Store) DiffVersions(versionA, versionB string) (protocol.VersionDiff, error) {
	introduced, err := s.diffEntries(`
		SELECT st.string AS testcase, se.string AS error_message
		FROM runs a
		JOIN runs b ON a.testcase_sid = b.testcase_sid AND a.use_strict = b.use_strict
		JOIN strings st ON st.string_id = a.testcase_sid
		JOIN strings se ON se.string_id = b.error_message_sid
		WHERE a.version = ? AND b.version = ?
		  AND a.error_message_sid IS NULL
		  AND b.error_message_sid IS NOT NULL
		ORDER BY testcase
	`, versionA, versionB)
	if err != nil {
		return protocol.VersionDiff{}, fmt.Errorf("diff introduced failures: %w", err)
	}

	fixed, err := s.diffEntries(`
		SELECT st.string AS testcase, '' AS error_message
		FROM runs a
		JOIN runs b ON a.testcase_sid = b.testcase_sid AND a.use_strict = b.use_strict
		JOIN strings st ON st.string_id = a.testcase_sid
		WHERE a.version = ? AND b.version = ?
		  AND a.error_message_sid IS NOT NULL
		  AND b.error_message_sid IS NULL
		ORDER BY testcase
	`, versionA, versionB)
	if err != nil {
		return protocol.VersionDiff{}, fmt.Errorf("diff fixed failures: %w", err)
	}

	return protocol.VersionDiff{Introduced: introduced, Fixed: fixed}, nil
}

func (s *Store) diffEntries(query string, args ...any) ([]protocol.DiffEntry, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []protocol.DiffEntry{}
	for rows.Next() {
		var e protocol.DiffEntry
		var msg sql.NullString
		if err := rows.Scan(&e.Testcase, &msg); err != nil {
			return nil, fmt.Errorf("scan diff entry: %w", err)
		}
		e.Error = msg.String
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate diff entries: %w", err)
	}
	return entries, nil
}
