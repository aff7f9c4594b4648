package main

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"wintask/internal/powershell"
	"wintask/internal/scheduler"
	"wintask/internal/task"
)

func TestExitCodeMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, 0},
		{"invalid schedule", task.ErrInvalidSchedule, 2},
		{"invalid schedule wrapped", fmt.Errorf("%w: unknown frequency %q (use Once, Daily or Weekly)", task.ErrInvalidSchedule, "Hourly"), 2},
		{"already exists", fmt.Errorf("create %q: %w", "My Task", scheduler.ErrAlreadyExists), 3},
		{"not found", fmt.Errorf("task %q: %w", "My Task", scheduler.ErrNotFound), 4},
		{"exec failure", &scheduler.ExecError{Op: `register "My Task"`, ExitCode: 1, Output: "Access is denied."}, 5},
		{"timeout", fmt.Errorf("%w after %s", powershell.ErrTimeout, 30*time.Second), 6},
		{"unclassified", errors.New("open config: permission denied"), 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := exitCode(tc.err); got != tc.want {
				t.Errorf("exitCode(%v) = %d, want %d", tc.err, got, tc.want)
			}
		})
	}
}
