package runner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
)

// ErrBuildFailed marks an engine build failure while switching versions.
// The commit is recorded as unbuildable and the run moves on; any other
// error aborts the whole run.
var ErrBuildFailed = errors.New("engine build failed")

var commitHashRe = regexp.MustCompile(`^[a-f0-9]+$`)

// HeadCommit resolves the current HEAD hash of the engine repository.
func HeadCommit(repoDir string) (string, error) {
	cmd := exec.Command("git", "rev-parse", "HEAD")
	cmd.Dir = repoDir
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git rev-parse HEAD in %q: %w", repoDir, err)
	}
	return strings.TrimSpace(string(out)), nil
}

// ReadCommitsFile reads one commit hash per line and validates each of them.
func ReadCommitsFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read commits file %q: %w", path, err)
	}

	var commits []string
	sc := bufio.NewScanner(strings.NewReader(string(data)))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if !commitHashRe.MatchString(line) {
			return nil, fmt.Errorf("invalid commit hash in commits file: %q", line)
		}
		commits = append(commits, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan commits file %q: %w", path, err)
	}
	return commits, nil
}

// SwitchVersion checks out the given commit in the engine repository and
// rebuilds the engine. A failing checkout is fatal; a failing build returns
// ErrBuildFailed so the caller can skip the commit.
func SwitchVersion(ctx context.Context, repoDir, commit, buildCommand string) error {
	checkout := exec.CommandContext(ctx, "git", "checkout", commit)
	checkout.Dir = repoDir
	if out, err := checkout.CombinedOutput(); err != nil {
		return fmt.Errorf("git checkout %s: %w: %s", commit, err, strings.TrimSpace(string(out)))
	}

	if strings.TrimSpace(buildCommand) == "" {
		return nil
	}

	build := exec.CommandContext(ctx, "sh", "-c", buildCommand)
	build.Dir = repoDir
	if out, err := build.CombinedOutput(); err != nil {
		return fmt.Errorf("%w at %s: %v: %s", ErrBuildFailed, commit, err, tail(string(out), 2000))
	}
	return nil
}

func tail(s string, max int) string {
	s = strings.TrimSpace(s)
	if len(s) <= max {
		return s
	}
	return s[len(s)-max:]
}
