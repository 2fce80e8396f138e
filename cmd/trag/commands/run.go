package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tragdev/trag/internal/protocol"
	"github.com/tragdev/trag/internal/runner"
	"github.com/tragdev/trag/internal/suite"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute manifest cases against an engine build and write JSONL results",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			manifestPath, _ := cmd.Flags().GetString("manifest")
			manifest, err := suite.LoadManifestFile(manifestPath)
			if err != nil {
				return err
			}

			opts := runner.Options{
				Test262Path:  manifest.Test262Path,
				EngineBinary: stringFlagOr(cmd, "engine-binary", cfg.Engine.Binary),
				EngineRepo:   stringFlagOr(cmd, "engine-repo", cfg.Engine.Repo),
				MaxJobs:      intFlagOr(cmd, "max-jobs", cfg.Run.MaxJobs),
				Timeout:      time.Duration(intFlagOr(cmd, "timeout-seconds", cfg.Run.TimeoutSeconds)) * time.Second,
			}
			if opts.EngineBinary == "" {
				return fmt.Errorf("engine binary is required (--engine-binary or config)")
			}

			filter, _ := cmd.Flags().GetString("filter")
			tasks := runner.PlanTasks(manifest, filter)
			if len(tasks) == 0 {
				return fmt.Errorf("no cases match filter %q", filter)
			}

			if dryRun, _ := cmd.Flags().GetBool("dry-run"); dryRun {
				for _, task := range tasks {
					mode := "sloppy"
					if task.UseStrict {
						mode = "strict"
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s [%s]\n", task.RelPath, mode)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d runs planned\n", len(tasks))
				return nil
			}

			outPattern, _ := cmd.Flags().GetString("out")
			force, _ := cmd.Flags().GetBool("force")
			commitsFile, _ := cmd.Flags().GetString("commits")

			if commitsFile == "" {
				ver, err := resolveVersion(cmd, opts.EngineRepo)
				if err != nil {
					return err
				}
				return runOneVersion(cmd.Context(), opts, tasks, outPattern, ver, false, force)
			}

			commits, err := runner.ReadCommitsFile(commitsFile)
			if err != nil {
				return err
			}
			if opts.EngineRepo == "" {
				return fmt.Errorf("--commits needs --engine-repo to check out versions")
			}
			buildCommand := stringFlagOr(cmd, "build-command", cfg.Engine.BuildCommand)
			if buildCommand == "" {
				return fmt.Errorf("--commits needs --build-command to rebuild the engine")
			}

			for _, commit := range commits {
				if err := cmd.Context().Err(); err != nil {
					return err
				}
				if err := runCommit(cmd.Context(), opts, tasks, outPattern, commit, buildCommand, force); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().String("manifest", "run-manifest.json", "manifest produced by trag scan")
	cmd.Flags().String("engine-binary", "", "engine executable")
	cmd.Flags().String("engine-repo", "", "engine git checkout, used to resolve and switch versions")
	cmd.Flags().String("build-command", "", "shell command that rebuilds the engine after checkout")
	cmd.Flags().String("commits", "", "file of commit hashes to test, most recent first")
	cmd.Flags().String("out", "results.jsonl", "results path, %v expands to the version")
	cmd.Flags().String("version", "", "version label for the results (default: engine repo HEAD)")
	cmd.Flags().String("filter", "", "only run cases matching a glob or substring")
	cmd.Flags().Int("max-jobs", 0, "concurrent engine processes")
	cmd.Flags().Int("timeout-seconds", 0, "per-case timeout")
	cmd.Flags().Bool("force", false, "rerun even when the output file already exists")
	cmd.Flags().Bool("dry-run", false, "print the planned runs without executing")

	return cmd
}

func resolveVersion(cmd *cobra.Command, engineRepo string) (string, error) {
	if v, _ := cmd.Flags().GetString("version"); v != "" {
		return v, nil
	}
	if engineRepo == "" {
		return "", fmt.Errorf("cannot determine version: pass --version or --engine-repo")
	}
	return runner.HeadCommit(engineRepo)
}

// runCommit checks out and rebuilds one engine version, then runs the tasks.
// A build failure leaves a marker line in the results so ingest still sees
// the commit was attempted, and does not abort the remaining commits.
func runCommit(ctx context.Context, opts runner.Options, tasks []runner.Task, outPattern, commit, buildCommand string, force bool) error {
	outPath, err := runner.ExpandOutPath(outPattern, commit, true)
	if err != nil {
		return err
	}
	if !force {
		if _, err := os.Stat(runner.CompressedPath(outPath)); err == nil {
			slog.Info("results exist, skipping", "commit", commit)
			return nil
		}
	}

	buildErr := runner.SwitchVersion(ctx, opts.EngineRepo, commit, buildCommand)
	if buildErr != nil && !errors.Is(buildErr, runner.ErrBuildFailed) {
		return buildErr
	}

	w, err := runner.NewResultWriter(outPath)
	if err != nil {
		return err
	}
	if buildErr != nil {
		slog.Warn("engine build failed, skipping commit", "commit", commit)
		if err := w.WriteMarker(map[string]string{"build_failed": commit}); err != nil {
			_ = w.Close()
			return err
		}
	} else {
		r := runner.New(opts, commit)
		if err := r.RunAll(ctx, tasks, w.WriteRecord); err != nil {
			_ = w.Close()
			return err
		}
	}
	if err := w.Close(); err != nil {
		return err
	}
	compressed, err := w.Compress()
	if err != nil {
		return err
	}
	slog.Info("results written", "commit", commit, "path", compressed)
	return nil
}

func runOneVersion(ctx context.Context, opts runner.Options, tasks []runner.Task, outPattern, version string, multiCommit, force bool) error {
	outPath, err := runner.ExpandOutPath(outPattern, version, multiCommit)
	if err != nil {
		return err
	}
	if !force {
		if _, err := os.Stat(runner.CompressedPath(outPath)); err == nil {
			slog.Info("results exist, skipping", "version", version)
			return nil
		}
	}

	w, err := runner.NewResultWriter(outPath)
	if err != nil {
		return err
	}

	failed := 0
	sink := func(rec protocol.RunRecord) error {
		if !rec.Passed() {
			failed++
		}
		return w.WriteRecord(rec)
	}
	r := runner.New(opts, version)
	if err := r.RunAll(ctx, tasks, sink); err != nil {
		_ = w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	compressed, err := w.Compress()
	if err != nil {
		return err
	}
	slog.Info("results written", "version", version, "path", compressed, "runs", len(tasks), "failed", failed)
	return nil
}

func intFlagOr(cmd *cobra.Command, name string, fromConfig int) int {
	if cmd.Flags().Changed(name) {
		v, _ := cmd.Flags().GetInt(name)
		return v
	}
	return fromConfig
}
