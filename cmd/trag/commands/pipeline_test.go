package commands

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const passingCase = `/*---
description: addition works
es6id: 12.7
---*/
assert.sameValue(1 + 1, 2);
`

const strictOnlyCase = `/*---
description: strict mode only
flags: [onlyStrict]
---*/
"use strict";
`

// writeSuiteFixture lays out a minimal test262 checkout with a cases file.
func writeSuiteFixture(t *testing.T) (test262 string, casesFile string) {
	t.Helper()
	test262 = t.TempDir()
	files := map[string]string{
		filepath.Join("harness", "sta.js"):                      "// harness\n",
		filepath.Join("harness", "assert.js"):                   "// harness\n",
		filepath.Join("test", "language", "types", "add.js"):    passingCase,
		filepath.Join("test", "built-ins", "Object", "own.js"):  passingCase,
		filepath.Join("test", "built-ins", "Object", "mode.js"): strictOnlyCase,
	}
	for rel, body := range files {
		path := filepath.Join(test262, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}

	casesFile = filepath.Join(t.TempDir(), "cases.txt")
	cases := "test/language/types/add.js\ntest/built-ins/Object/own.js\ntest/built-ins/Object/mode.js\n"
	require.NoError(t, os.WriteFile(casesFile, []byte(cases), 0o644))
	return test262, casesFile
}

func writeEngineScript(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fake-engine")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755))
	return path
}

func TestScanRunIngestExportPipeline(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("fake engine uses a shell script")
	}

	test262, casesFile := writeSuiteFixture(t)
	work := t.TempDir()
	manifest := filepath.Join(work, "manifest.json")
	results := filepath.Join(work, "results.jsonl")
	db := filepath.Join(work, "trag.db")

	out, err := execute(t, "scan",
		"--test262", test262,
		"--cases", casesFile,
		"--out", manifest,
	)
	require.NoError(t, err)
	assert.Contains(t, out, "scanned 3 cases")

	// The last argument of the engine invocation is the case file; failing
	// one specific case exercises both outcome paths downstream.
	engine := writeEngineScript(t, `
for f in "$@"; do last="$f"; done
case "$last" in
*own.js) echo '{"error":{"category":"assert","message":"broken"}}' ;;
*) echo '{"error":null}' ;;
esac
`)

	_, err = execute(t, "run",
		"--manifest", manifest,
		"--engine-binary", engine,
		"--version", "aaaa1111",
		"--out", results,
	)
	require.NoError(t, err)
	require.FileExists(t, results+".gz")

	out, err = execute(t, "ingest", results+".gz", "--db", db)
	require.NoError(t, err)
	// add.js and own.js run twice (sloppy+strict), mode.js once (onlyStrict).
	assert.Contains(t, out, "ingested 5 records")

	out, err = execute(t, "status", "--db", db, "--version", "aaaa1111")
	require.NoError(t, err)
	assert.Contains(t, out, "test/language/types")
	assert.Contains(t, out, "test/built-ins/Object")

	out, err = execute(t, "list", "--db", db, "--version", "aaaa1111", "--outcome", "failed", "--errors")
	require.NoError(t, err)
	assert.Contains(t, out, "FAIL test/built-ins/Object/own.js")
	assert.Contains(t, out, "broken")
	assert.NotContains(t, out, "PASS")

	// Nothing matching is still a clean exit with empty output.
	out, err = execute(t, "list", "--db", db, "--version", "aaaa1111", "--outcome", "failed", "--filter", "no/such/path")
	require.NoError(t, err)
	assert.Empty(t, strings.TrimSpace(out))

	commitsFile := filepath.Join(work, "commits.txt")
	require.NoError(t, os.WriteFile(commitsFile, []byte("aaaa1111\n"), 0o644))

	outDir := filepath.Join(work, "dashboard")
	_, err = execute(t, "export", "--db", db, "--commits", commitsFile, "--out", outDir)
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(outDir, "commits.json"))
	require.FileExists(t, filepath.Join(outDir, "aaaa1111.json"))
	require.FileExists(t, filepath.Join(outDir, "index.html"))
	require.FileExists(t, filepath.Join(outDir, "ui", "trag.js"))
}

func TestRunDryRunPrintsPlannedVariants(t *testing.T) {
	test262, casesFile := writeSuiteFixture(t)
	work := t.TempDir()
	manifest := filepath.Join(work, "manifest.json")

	_, err := execute(t, "scan", "--test262", test262, "--cases", casesFile, "--out", manifest)
	require.NoError(t, err)

	out, err := execute(t, "run", "--manifest", manifest, "--engine-binary", "unused", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "test/language/types/add.js [sloppy]")
	assert.Contains(t, out, "test/language/types/add.js [strict]")
	assert.Contains(t, out, "test/built-ins/Object/mode.js [strict]")
	assert.NotContains(t, out, "test/built-ins/Object/mode.js [sloppy]")
	assert.Contains(t, out, "5 runs planned")
}

func TestScanFilterSelectsSubset(t *testing.T) {
	test262, casesFile := writeSuiteFixture(t)
	manifest := filepath.Join(t.TempDir(), "manifest.json")

	out, err := execute(t, "scan",
		"--test262", test262,
		"--cases", casesFile,
		"--out", manifest,
		"--filter", "test/built-ins/**",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "scanned 2 cases")
}
