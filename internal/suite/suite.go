package suite

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Manifest lists the test262 cases selected for a run, together with the
// metadata scraped from each case's frontmatter block.
type Manifest struct {
	Test262Path string              `json:"test262_path"`
	Testcases   map[string]Testcase `json:"testcases"`
}

type Testcase struct {
	Metadata map[string]any `json:"metadata"`
}

// Flags returns the frontmatter "flags" list, empty when absent.
func (t Testcase) Flags() []string {
	raw, ok := t.Metadata["flags"]
	if !ok {
		return nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	flags := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			flags = append(flags, s)
		}
	}
	return flags
}

func (t Testcase) HasFlag(name string) bool {
	for _, f := range t.Flags() {
		if f == name {
			return true
		}
	}
	return false
}

// ExpectsNegative reports whether the case declares a "negative" expectation,
// i.e. the engine is supposed to raise an error.
func (t Testcase) ExpectsNegative() bool {
	_, ok := t.Metadata["negative"]
	return ok
}

// ReadCases reads a case list file: one test262-relative path per line,
// blank lines skipped.
func ReadCases(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read cases file %q: %w", path, err)
	}

	var cases []string
	sc := bufio.NewScanner(strings.NewReader(string(data)))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		cases = append(cases, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan cases file %q: %w", path, err)
	}
	return cases, nil
}

// Scan builds a manifest by extracting the YAML frontmatter of every listed
// case under test262Path.
func Scan(test262Path string, cases []string) (Manifest, error) {
	m := Manifest{
		Test262Path: test262Path,
		Testcases:   make(map[string]Testcase, len(cases)),
	}

	for _, rel := range cases {
		path := filepath.Join(test262Path, filepath.FromSlash(rel))
		data, err := os.ReadFile(path)
		if err != nil {
			return Manifest{}, fmt.Errorf("read test case %q: %w", rel, err)
		}

		metadata, err := ParseFrontmatter(data)
		if err != nil {
			return Manifest{}, fmt.Errorf("parse frontmatter of %q: %w", rel, err)
		}
		m.Testcases[rel] = Testcase{Metadata: metadata}
	}

	return m, nil
}

// ParseFrontmatter extracts the YAML block between the /*--- and ---*/
// markers of a test262 case. A case without a frontmatter block yields nil
// metadata. The es6id field is normalized to a string: YAML would otherwise
// read values like 19.1 as floats.
func ParseFrontmatter(src []byte) (map[string]any, error) {
	block, found := frontmatterBlock(src)
	if !found {
		return nil, nil
	}

	var metadata map[string]any
	if err := yaml.Unmarshal(block, &metadata); err != nil {
		return nil, fmt.Errorf("decode YAML: %w", err)
	}
	if metadata == nil {
		return nil, nil
	}
	if v, ok := metadata["es6id"]; ok {
		metadata["es6id"] = fmt.Sprintf("%v", v)
	}
	return metadata, nil
}

func frontmatterBlock(src []byte) ([]byte, bool) {
	lines := strings.Split(string(src), "\n")

	start := -1
	for i, line := range lines {
		if strings.TrimSpace(line) == "/*---" {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return nil, false
	}

	for i := start; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---*/" {
			return []byte(strings.Join(lines[start:i], "\n")), true
		}
	}
	return nil, false
}

// WriteManifestFile writes the manifest as indented JSON.
func WriteManifestFile(m Manifest, path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write manifest %q: %w", path, err)
	}
	return nil
}

func LoadManifestFile(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("read manifest %q: %w", path, err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("parse manifest %q: %w", path, err)
	}
	return m, nil
}
