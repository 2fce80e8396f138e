package runner

import (
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tragdev/trag/internal/protocol"
)

// ExpandOutPath resolves the --out pattern for one version. When multiple
// commits are tested the pattern must contain %v so every version gets its
// own file. A trailing slash appends "out"; the .jsonl suffix is enforced.
func ExpandOutPath(pattern, version string, multiCommit bool) (string, error) {
	if multiCommit && !strings.Contains(pattern, "%v") {
		return "", errors.New(`output path must include "%v" so that a new file per version is created`)
	}

	out := strings.ReplaceAll(pattern, "%v", version)
	if strings.HasSuffix(out, "/") {
		out += "out"
	}
	if !strings.HasSuffix(out, ".jsonl") {
		out += ".jsonl"
	}
	return out, nil
}

// CompressedPath is the final on-disk name for a results file.
func CompressedPath(outPath string) string {
	return outPath + ".gz"
}

// ResultWriter appends run records to a JSONL file. json.Encoder guarantees
// one line per record since embedded newlines are escaped.
type ResultWriter struct {
	path string
	f    *os.File
	enc  *json.Encoder
}

func NewResultWriter(path string) (*ResultWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create results dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create results file %q: %w", path, err)
	}
	return &ResultWriter{path: path, f: f, enc: json.NewEncoder(f)}, nil
}

func (w *ResultWriter) WriteRecord(rec protocol.RunRecord) error {
	if err := w.enc.Encode(rec); err != nil {
		return fmt.Errorf("encode run record: %w", err)
	}
	return nil
}

// WriteMarker writes a comment line carrying out-of-band information, e.g.
// an engine build failure. Ingest skips it like any non-JSON line.
func (w *ResultWriter) WriteMarker(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode marker: %w", err)
	}
	if _, err := fmt.Fprintf(w.f, "# %s\n", data); err != nil {
		return fmt.Errorf("write marker: %w", err)
	}
	return nil
}

func (w *ResultWriter) Close() error {
	return w.f.Close()
}

// Compress gzips the results file next to it and removes the plain file.
func (w *ResultWriter) Compress() (string, error) {
	compressed := CompressedPath(w.path)

	in, err := os.Open(w.path)
	if err != nil {
		return "", fmt.Errorf("reopen results file: %w", err)
	}
	defer in.Close()

	out, err := os.Create(compressed)
	if err != nil {
		return "", fmt.Errorf("create compressed results: %w", err)
	}
	gz := gzip.NewWriter(out)
	if _, err := io.Copy(gz, in); err != nil {
		_ = out.Close()
		return "", fmt.Errorf("compress results: %w", err)
	}
	if err := gz.Close(); err != nil {
		_ = out.Close()
		return "", fmt.Errorf("finish compressed results: %w", err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("close compressed results: %w", err)
	}

	if err := os.Remove(w.path); err != nil {
		return "", fmt.Errorf("remove plain results file: %w", err)
	}
	return compressed, nil
}
