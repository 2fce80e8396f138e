// Package export writes a static snapshot of the dashboard. The output
// directory can be served by any file server; the page fetches its data
// with relative paths, so no trag process is needed afterwards.
package export

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/tragdev/trag/internal/protocol"
	"github.com/tragdev/trag/internal/server"
	"github.com/tragdev/trag/internal/store"
)

type Options struct {
	// OutDir is the snapshot root, created if missing.
	OutDir string
	// Force rewrites per-commit files that already exist. Results for a
	// commit never change once ingested, so the default is to skip them.
	Force bool
}

// Run writes commits.json, one <commit_id>.json per known commit, and the
// dashboard page assets into opts.OutDir.
func Run(st *store.Store, opts Options) error {
	if opts.OutDir == "" {
		return fmt.Errorf("export: output directory is required")
	}
	if err := os.MkdirAll(filepath.Join(opts.OutDir, "ui"), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	summaries, err := st.CommitSummaries()
	if err != nil {
		return err
	}
	if err := writeJSONFile(filepath.Join(opts.OutDir, "commits.json"), protocol.CommitIndex{Commits: summaries}); err != nil {
		return err
	}

	// Every commit in the ordering gets a detail file, even one without
	// runs: its page URL must resolve rather than 404 from the file server.
	order, err := st.CommitOrder()
	if err != nil {
		return err
	}

	written, skipped := 0, 0
	for _, commitID := range order {
		dest := filepath.Join(opts.OutDir, commitID+".json")
		if !opts.Force {
			if _, err := os.Stat(dest); err == nil {
				skipped++
				continue
			}
		}
		groups, err := st.GroupBreakdown(commitID)
		if err != nil {
			return err
		}
		if err := writeJSONFile(dest, protocol.CommitDetail{Groups: groups}); err != nil {
			return err
		}
		written++
	}

	if err := writePageAssets(opts.OutDir); err != nil {
		return err
	}

	slog.Info("dashboard exported", "dir", opts.OutDir, "commits", len(order), "written", written, "skipped", skipped)
	return nil
}

func writeJSONFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}

func writePageAssets(outDir string) error {
	assets := []struct {
		rel  string
		body string
	}{
		{"index.html", server.DashboardIndexHTML()},
		{filepath.Join("ui", "trag.js"), server.DashboardSharedJS()},
	}
	for _, a := range assets {
		if err := os.WriteFile(filepath.Join(outDir, a.rel), []byte(a.body), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", a.rel, err)
		}
	}
	return nil
}
