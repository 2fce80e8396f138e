package protocol

// RunRecord is one executed test case variant, as emitted on the JSONL
// results stream and ingested into the store.
type RunRecord struct {
	Testcase  string    `json:"testcase"`
	Version   string    `json:"version"`
	UseStrict bool      `json:"use_strict"`
	Error     *RunError `json:"error"`
}

type RunError struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// Passed reports whether the run succeeded. A nil Error means success.
func (r RunRecord) Passed() bool {
	return r.Error == nil
}

type CommitSummary struct {
	CommitID string `json:"commit_id"`
	NSuccess int    `json:"n_success"`
	NTotal   int    `json:"n_total"`
}

// Percent is the success percentage in [0,100]. Zero totals yield 0.
func (c CommitSummary) Percent() float64 {
	if c.NTotal <= 0 {
		return 0
	}
	return 100 * float64(c.NSuccess) / float64(c.NTotal)
}

type CommitIndex struct {
	Commits []CommitSummary `json:"commits"`
}

type GroupResult struct {
	Path  string `json:"path"`
	NOk   int    `json:"n_ok"`
	NFail int    `json:"n_fail"`
}

// Percent returns the passing percentage for the group. ok is false when the
// group has no runs at all, in which case the percentage is undefined.
func (g GroupResult) Percent() (float64, bool) {
	total := g.NOk + g.NFail
	if total <= 0 {
		return 0, false
	}
	return 100 * float64(g.NOk) / float64(total), true
}

type CommitDetail struct {
	Groups []GroupResult `json:"groups"`
}

type CaseResult struct {
	Testcase  string `json:"testcase"`
	UseStrict bool   `json:"use_strict"`
	Passed    bool   `json:"passed"`
	Error     string `json:"error,omitempty"`
}

type DiffEntry struct {
	Testcase string `json:"testcase"`
	Error    string `json:"error,omitempty"`
}

// VersionDiff compares two engine versions: Introduced lists cases that pass
// in the first version but fail in the second, Fixed the other way around.
type VersionDiff struct {
	Introduced []DiffEntry `json:"introduced"`
	Fixed      []DiffEntry `json:"fixed"`
}

type ServerInfo struct {
	Name       string `json:"name"`
	APIVersion int    `json:"api_version"`
	Version    string `json:"version"`
	Hostname   string `json:"hostname"`
}
