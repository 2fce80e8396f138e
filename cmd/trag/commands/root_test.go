package commands

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootRegistersSubcommands(t *testing.T) {
	out, err := execute(t, "--help")
	require.NoError(t, err)

	for _, sub := range []string{
		"scan", "run", "ingest", "status", "list", "diff", "export", "serve", "version",
	} {
		assert.Contains(t, out, sub, "missing subcommand in root help")
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "trag version ")
}

func TestUnknownCommandFails(t *testing.T) {
	_, err := execute(t, "frobnicate")
	require.Error(t, err)
}

func TestDiffRequiresTwoVersions(t *testing.T) {
	_, err := execute(t, "diff", "aaaa")
	require.Error(t, err)
}

// A read-only command pointed at a nonexistent database must fail without
// leaving an empty database file behind.
func TestReadOnlyCommandsRequireExistingDatabase(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.db")

	cases := [][]string{
		{"status", "--db", missing, "--version", "aaaa1111"},
		{"list", "--db", missing, "--version", "aaaa1111"},
		{"diff", "--db", missing, "aaaa1111", "bbbb2222"},
		{"export", "--db", missing, "--out", filepath.Join(t.TempDir(), "dash")},
	}
	for _, args := range cases {
		_, err := execute(t, args...)
		require.Error(t, err, "command %v must fail on a missing database", args)
		assert.Contains(t, err.Error(), missing)
		assert.NoFileExists(t, missing, "command %v created the database", args)
	}
}

func TestExplicitConfigMustExist(t *testing.T) {
	_, err := execute(t, "status", "--config", "/does/not/exist.yaml", "--version", "aaaa")
	require.Error(t, err)
}
