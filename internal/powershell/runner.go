// Package powershell runs scheduler-control scripts through a PowerShell
// child process, one process per call. It is the only place the program
// touches the outside world; a non-zero exit code is data for the caller,
// not an error.
package powershell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// DefaultTimeout bounds a single PowerShell invocation.
const DefaultTimeout = 60 * time.Second

// ErrTimeout is returned when a command exceeds its allotted time. The child
// process is killed; whether its task-store change landed is unknown and the
// caller must re-query.
var ErrTimeout = errors.New("powershell command timed out")

// Result captures one finished invocation.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Runner abstracts the PowerShell boundary so callers can be exercised
// without a live task store.
type Runner interface {
	Run(ctx context.Context, script string) (Result, error)
}

// CommandRunner invokes a PowerShell binary with -NoProfile and a bypassed
// execution policy, passing the script via -Command.
type CommandRunner struct {
	Path    string        // binary name or full path; defaults to powershell.exe
	Timeout time.Duration // per-call limit; defaults to DefaultTimeout
}

// NewCommandRunner fills in defaults for empty fields.
func NewCommandRunner(path string, timeout time.Duration) *CommandRunner {
	if strings.TrimSpace(path) == "" {
		path = "powershell.exe"
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &CommandRunner{Path: path, Timeout: timeout}
}

// Run executes script and waits for it to finish. An expired deadline
// returns ErrTimeout; a process that ran but failed returns a Result with
// its exit code and a nil error.
func (r *CommandRunner) Run(ctx context.Context, script string) (Result, error) {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	path := r.Path
	if path == "" {
		path = "powershell.exe"
	}
	cmd := exec.CommandContext(ctx, path, "-NoProfile", "-ExecutionPolicy", "Bypass", "-Command", script)
	hideWindow(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		if ctx.Err() != nil {
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return res, fmt.Errorf("%w after %s", ErrTimeout, timeout)
			}
			return res, ctx.Err()
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		return res, fmt.Errorf("start %s: %w", path, err)
	}
	return res, nil
}

// Quote renders s as a double-quoted PowerShell string literal. Embedded
// double quotes are doubled; backslashes pass through, which keeps Windows
// paths readable.
func Quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// SingleQuote renders s as a single-quoted PowerShell literal, where only
// embedded single quotes need doubling.
func SingleQuote(s string) string {
	return `'` + strings.ReplaceAll(s, `'`, `''`) + `'`
}
