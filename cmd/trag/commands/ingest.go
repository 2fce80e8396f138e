package commands

import (
	"bufio"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tragdev/trag/internal/protocol"
	"github.com/tragdev/trag/internal/store"
)

func newIngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest <results.jsonl.gz> [more files...]",
		Short: "Load JSONL result files into the database",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			if clear, _ := cmd.Flags().GetBool("clear"); clear {
				if err := st.ClearRuns(); err != nil {
					return err
				}
				slog.Info("previous runs cleared")
			}

			in, err := st.BeginIngest()
			if err != nil {
				return err
			}
			defer in.Rollback()

			skipped := 0
			for _, path := range args {
				s, err := ingestFile(in, path)
				if err != nil {
					return err
				}
				skipped += s
			}
			if err := in.Commit(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "ingested %d records from %d files (%d lines skipped)\n",
				in.Added(), len(args), skipped)
			return nil
		},
	}

	cmd.Flags().Bool("clear", false, "delete previously ingested runs first")

	return cmd
}

// ingestFile streams one results file into the open ingest transaction.
// Marker and malformed lines are skipped, not fatal: a partially written
// results file should not lose the valid records around the bad line.
func ingestFile(in *store.Ingest, path string) (skipped int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open results file: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return 0, fmt.Errorf("read gzip %q: %w", path, err)
		}
		defer gz.Close()
		r = gz
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		var rec protocol.RunRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			slog.Warn("skipping malformed line", "file", path, "line", lineNo, "error", err)
			skipped++
			continue
		}
		if rec.Testcase == "" || rec.Version == "" {
			slog.Warn("skipping incomplete record", "file", path, "line", lineNo)
			skipped++
			continue
		}
		if err := in.Add(rec); err != nil {
			return skipped, err
		}
	}
	if err := sc.Err(); err != nil {
		return skipped, fmt.Errorf("read %q: %w", path, err)
	}
	return skipped, nil
}
