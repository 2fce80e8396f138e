package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/tragdev/trag/internal/protocol"
	"github.com/tragdev/trag/internal/suite"
)

const defaultCaseTimeout = 10 * time.Second

// Options describe how to execute test cases against one engine build.
type Options struct {
	Test262Path  string
	EngineBinary string
	EngineRepo   string
	Timeout      time.Duration
	MaxJobs      int
}

type Runner struct {
	opts    Options
	version string
}

func New(opts Options, version string) *Runner {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultCaseTimeout
	}
	if opts.MaxJobs <= 0 {
		opts.MaxJobs = 10
	}
	return &Runner{opts: opts, version: version}
}

// Task is one planned engine invocation: a case path plus its strictness
// variant.
type Task struct {
	RelPath        string
	UseStrict      bool
	ExpectNegative bool
}

// PlanTasks expands manifest cases into strict/sloppy execution tasks,
// honoring the onlyStrict/noStrict frontmatter flags and the path filter.
// Tasks are ordered by case path so dry runs are deterministic.
func PlanTasks(m suite.Manifest, filter string) []Task {
	paths := make([]string, 0, len(m.Testcases))
	for rel := range m.Testcases {
		if suite.MatchesFilter(rel, filter) {
			paths = append(paths, rel)
		}
	}
	sort.Strings(paths)

	var tasks []Task
	for _, rel := range paths {
		tc := m.Testcases[rel]
		for _, useStrict := range Variants(tc) {
			tasks = append(tasks, Task{
				RelPath:        rel,
				UseStrict:      useStrict,
				ExpectNegative: tc.ExpectsNegative(),
			})
		}
	}
	return tasks
}

// Variants lists the strictness modes a case runs in: sloppy unless
// onlyStrict, strict unless noStrict.
func Variants(tc suite.Testcase) []bool {
	var variants []bool
	if !tc.HasFlag("onlyStrict") {
		variants = append(variants, false)
	}
	if !tc.HasFlag("noStrict") {
		variants = append(variants, true)
	}
	return variants
}

// RunAll executes the tasks through a bounded worker pool and streams every
// record to sink as it completes. Completion order is not deterministic.
func (r *Runner) RunAll(ctx context.Context, tasks []Task, sink func(protocol.RunRecord) error) error {
	taskCh := make(chan Task)
	recordCh := make(chan protocol.RunRecord)

	workers := r.opts.MaxJobs
	if workers > len(tasks) {
		workers = len(tasks)
	}
	if workers < 1 {
		workers = 1
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range taskCh {
				recordCh <- r.RunCase(ctx, task)
			}
		}()
	}
	go func() {
		wg.Wait()
		close(recordCh)
	}()

	go func() {
		defer close(taskCh)
		for _, task := range tasks {
			select {
			case taskCh <- task:
			case <-ctx.Done():
				return
			}
		}
	}()

	var sinkErr error
	for record := range recordCh {
		if sinkErr != nil {
			continue
		}
		if err := sink(record); err != nil {
			sinkErr = fmt.Errorf("write run record: %w", err)
		}
	}
	if sinkErr != nil {
		return sinkErr
	}
	return ctx.Err()
}

// RunCase executes one engine invocation and classifies the outcome.
func (r *Runner) RunCase(ctx context.Context, task Task) protocol.RunRecord {
	record := protocol.RunRecord{
		Testcase:  task.RelPath,
		Version:   r.version,
		UseStrict: task.UseStrict,
	}

	files := []string{
		filepath.Join(r.opts.Test262Path, "harness", "sta.js"),
		filepath.Join(r.opts.Test262Path, "harness", "assert.js"),
		filepath.Join(r.opts.Test262Path, filepath.FromSlash(task.RelPath)),
	}
	bin, args := EngineCommand(r.opts.EngineBinary, files, task.UseStrict)

	runCtx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.Command(bin, args...)
	cmd.Dir = r.opts.EngineRepo
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := runCancelableCommand(runCtx, cmd)
	switch {
	case errors.Is(runCtx.Err(), context.DeadlineExceeded):
		record.Error = &protocol.RunError{
			Category: "timeout",
			Message:  "runner timed out",
		}
	case err != nil:
		record.Error = &protocol.RunError{
			Category: "runner failure",
			Message:  decodeEngineMessage(stdout.Bytes()),
		}
	default:
		runErr, parseErr := parseEngineOutput(stdout.Bytes())
		if parseErr != nil {
			slog.Warn("unparseable engine output", "testcase", task.RelPath, "error", parseErr)
			record.Error = &protocol.RunError{
				Category: "runner failure",
				Message:  fmt.Sprintf("unparseable engine output: %v", parseErr),
			}
		} else {
			record.Error = runErr
		}
	}

	if task.ExpectNegative {
		record.Error = invertExpectedNegative(record.Error)
	}
	return record
}

// invertExpectedNegative flips the outcome of a case that is supposed to
// fail: an observed error is the expected result, a clean pass is not.
func invertExpectedNegative(runErr *protocol.RunError) *protocol.RunError {
	if runErr == nil {
		return &protocol.RunError{
			Category: "unexpected success",
			Message:  "error expected, but test ran fine",
		}
	}
	return nil
}

// EngineCommand builds the engine invocation for a set of input files.
func EngineCommand(binary string, files []string, useStrict bool) (string, []string) {
	args := make([]string, 0, len(files)+1)
	if useStrict {
		args = append(args, "--force-last-strict")
	}
	args = append(args, files...)
	return binary, args
}

type engineResult struct {
	Error *protocol.RunError `json:"error"`
}

// parseEngineOutput reads the engine verdict from the last non-empty stdout
// line. Some engine builds emit noise on earlier lines; only the final line
// is the JSON result.
func parseEngineOutput(stdout []byte) (*protocol.RunError, error) {
	lines := strings.Split(strings.TrimRight(string(stdout), "\n"), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		var result engineResult
		if err := json.Unmarshal([]byte(line), &result); err != nil {
			return nil, fmt.Errorf("decode result line: %w", err)
		}
		return result.Error, nil
	}
	return nil, errors.New("no output")
}

func decodeEngineMessage(raw []byte) string {
	if !utf8.Valid(raw) {
		return "<# encoding error #>"
	}
	return string(raw)
}
