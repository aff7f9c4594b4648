package scheduler

import (
	"errors"
	"fmt"
	"strings"

	"wintask/internal/powershell"
)

var (
	// ErrAlreadyExists is returned by Create when the name is taken and the
	// descriptor does not allow overwriting.
	ErrAlreadyExists = errors.New("task already exists")

	// ErrNotFound is returned when an operation targets a name the task
	// store does not know.
	ErrNotFound = errors.New("task not found")
)

// ExecError reports a scheduler command that ran to completion but failed.
// It carries the raw exit code and the tool's own message; nothing is
// retried or reinterpreted.
type ExecError struct {
	Op       string
	ExitCode int
	Output   string
}

func (e *ExecError) Error() string {
	if e.Output == "" {
		return fmt.Sprintf("%s: powershell exited with code %d", e.Op, e.ExitCode)
	}
	return fmt.Sprintf("%s: powershell exited with code %d: %s", e.Op, e.ExitCode, e.Output)
}

// newExecError builds an ExecError from a failed result, preferring stderr
// for the message.
func newExecError(op string, res powershell.Result) *ExecError {
	msg := strings.TrimSpace(res.Stderr)
	if msg == "" {
		msg = strings.TrimSpace(res.Stdout)
	}
	return &ExecError{Op: op, ExitCode: res.ExitCode, Output: msg}
}
