package suite

import (
	"os"
	"path/filepath"
	"testing"
)

const testCaseSource = `// Copyright (C) 2015 the V8 project authors.
/*---
es6id: 19.1
description: >
  Object.assign behaviour
flags: [onlyStrict]
negative:
  phase: parse
  type: SyntaxError
---*/

assert.throws(SyntaxError, function() {});
`

func writeCaseFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write case: %v", err)
	}
}

func TestParseFrontmatter(t *testing.T) {
	metadata, err := ParseFrontmatter([]byte(testCaseSource))
	if err != nil {
		t.Fatalf("parse frontmatter: %v", err)
	}
	if got := metadata["es6id"]; got != "19.1" {
		t.Fatalf("es6id not normalized to string: %#v", got)
	}
	tc := Testcase{Metadata: metadata}
	if !tc.HasFlag("onlyStrict") {
		t.Fatalf("missing onlyStrict flag: %#v", tc.Flags())
	}
	if !tc.ExpectsNegative() {
		t.Fatalf("negative expectation not detected")
	}
}

func TestParseFrontmatterAbsent(t *testing.T) {
	metadata, err := ParseFrontmatter([]byte("var x = 1;\n"))
	if err != nil {
		t.Fatalf("parse frontmatter: %v", err)
	}
	if metadata != nil {
		t.Fatalf("expected nil metadata, got %#v", metadata)
	}
}

func TestParseFrontmatterUnterminatedBlock(t *testing.T) {
	metadata, err := ParseFrontmatter([]byte("/*---\nflags: [noStrict]\n"))
	if err != nil {
		t.Fatalf("parse frontmatter: %v", err)
	}
	if metadata != nil {
		t.Fatalf("unterminated block must yield nil metadata, got %#v", metadata)
	}
}

func TestScanBuildsManifest(t *testing.T) {
	root := t.TempDir()
	writeCaseFile(t, root, "language/statements/if/basic.js", testCaseSource)
	writeCaseFile(t, root, "built-ins/Object/assign.js", "/*---\nes6id: 19.1.2.1\n---*/\nvar a;\n")

	m, err := Scan(root, []string{"language/statements/if/basic.js", "built-ins/Object/assign.js"})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if m.Test262Path != root {
		t.Fatalf("unexpected test262 path: %q", m.Test262Path)
	}
	if len(m.Testcases) != 2 {
		t.Fatalf("expected 2 testcases, got %d", len(m.Testcases))
	}
	if got := m.Testcases["built-ins/Object/assign.js"].Metadata["es6id"]; got != "19.1.2.1" {
		t.Fatalf("unexpected es6id: %#v", got)
	}
}

func TestScanMissingCaseFails(t *testing.T) {
	_, err := Scan(t.TempDir(), []string{"does/not/exist.js"})
	if err == nil {
		t.Fatalf("expected error for missing case file")
	}
}

func TestManifestRoundTripFile(t *testing.T) {
	root := t.TempDir()
	writeCaseFile(t, root, "a/case.js", testCaseSource)
	m, err := Scan(root, []string{"a/case.js"})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}

	path := filepath.Join(t.TempDir(), "testrun.json")
	if err := WriteManifestFile(m, path); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	loaded, err := LoadManifestFile(path)
	if err != nil {
		t.Fatalf("load manifest: %v", err)
	}
	if loaded.Test262Path != root {
		t.Fatalf("unexpected test262 path after round trip: %q", loaded.Test262Path)
	}
	if !loaded.Testcases["a/case.js"].ExpectsNegative() {
		t.Fatalf("negative expectation lost in round trip")
	}
}

func TestReadCasesSkipsBlankLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cases.txt")
	if err := os.WriteFile(path, []byte("a/one.js\n\n  b/two.js  \n"), 0o644); err != nil {
		t.Fatalf("write cases: %v", err)
	}
	cases, err := ReadCases(path)
	if err != nil {
		t.Fatalf("read cases: %v", err)
	}
	if len(cases) != 2 || cases[0] != "a/one.js" || cases[1] != "b/two.js" {
		t.Fatalf("unexpected cases: %#v", cases)
	}
}

func TestMatchesFilter(t *testing.T) {
	cases := []struct {
		name   string
		path   string
		filter string
		want   bool
	}{
		{name: "empty filter", path: "language/x.js", filter: "", want: true},
		{name: "substring", path: "language/statements/if/basic.js", filter: "statements/if", want: true},
		{name: "substring miss", path: "language/statements/if/basic.js", filter: "built-ins", want: false},
		{name: "glob", path: "language/statements/if/basic.js", filter: "language/**", want: true},
		{name: "glob miss", path: "built-ins/Object/assign.js", filter: "language/**", want: false},
		{name: "single segment glob", path: "built-ins/Object/assign.js", filter: "built-ins/*/assign.js", want: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := MatchesFilter(tc.path, tc.filter); got != tc.want {
				t.Fatalf("MatchesFilter(%q, %q) = %v, want %v", tc.path, tc.filter, got, tc.want)
			}
		})
	}
}

func TestFilterCasesPreservesOrder(t *testing.T) {
	in := []string{"language/a.js", "built-ins/b.js", "language/c.js"}
	got := FilterCases(in, "language/**")
	if len(got) != 2 || got[0] != "language/a.js" || got[1] != "language/c.js" {
		t.Fatalf("unexpected filtered cases: %#v", got)
	}
}
