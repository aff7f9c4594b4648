// Package scheduler is the single point of contact with the Windows task
// store. Every operation issues fresh PowerShell commands and interprets
// their exit codes; no state is cached between calls, so a check and the
// action that follows it can still race with outside changes.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"wintask/internal/logging"
	"wintask/internal/powershell"
	"wintask/internal/task"
)

// Scheduler reconciles task descriptors against the OS task store.
type Scheduler struct {
	runner powershell.Runner
	log    logging.Logger
}

// New wires a Scheduler to a runner. Pass logging.Nop() to silence it.
func New(runner powershell.Runner, log logging.Logger) *Scheduler {
	return &Scheduler{runner: runner, log: log}
}

// runScript executes one script and turns a failure exit code into an
// ExecError.
func (s *Scheduler) runScript(ctx context.Context, op, script string) (powershell.Result, error) {
	start := time.Now()
	res, err := s.runner.Run(ctx, script)
	s.log.Debug("powershell",
		logging.String("op", op),
		logging.Int("exit", res.ExitCode),
		logging.Duration("took", time.Since(start)))
	if err != nil {
		return res, fmt.Errorf("%s: %w", op, err)
	}
	if res.ExitCode != 0 {
		return res, newExecError(op, res)
	}
	return res, nil
}

// Exists reports whether a task with the given name is registered. Exit
// code 1 from the probe means absent; any other failure is a real error.
func (s *Scheduler) Exists(ctx context.Context, name string) (bool, error) {
	res, err := s.runner.Run(ctx, existsScript(name))
	if err != nil {
		return false, fmt.Errorf("exists %q: %w", name, err)
	}
	switch res.ExitCode {
	case 0:
		return true, nil
	case 1:
		return false, nil
	}
	return false, newExecError(fmt.Sprintf("exists %q", name), res)
}

// Create registers the descriptor's task. An existing task with the same
// name is removed first only when the descriptor allows overwriting;
// otherwise the call fails with ErrAlreadyExists and the store is left
// untouched.
func (s *Scheduler) Create(ctx context.Context, d task.Descriptor) error {
	if err := d.Validate(); err != nil {
		return err
	}
	exists, err := s.Exists(ctx, d.Name)
	if err != nil {
		return err
	}
	removeFirst, err := reconcile(exists, d.Overwrite)
	if err != nil {
		return fmt.Errorf("create %q: %w", d.Name, err)
	}
	if removeFirst {
		if _, err := s.runScript(ctx, fmt.Sprintf("replace %q", d.Name), deleteScript(d.Name)); err != nil {
			return err
		}
	}
	if _, err := s.runScript(ctx, fmt.Sprintf("register %q", d.Name), registerScript(d)); err != nil {
		return err
	}
	s.log.Info("task registered",
		logging.String("name", d.Name),
		logging.String("trigger", d.Trigger.Describe()),
		logging.Bool("replaced", removeFirst))
	return nil
}

// Delete unregisters the named task.
func (s *Scheduler) Delete(ctx context.Context, name string) error {
	if err := s.requireExists(ctx, name); err != nil {
		return err
	}
	if _, err := s.runScript(ctx, fmt.Sprintf("delete %q", name), deleteScript(name)); err != nil {
		return err
	}
	s.log.Info("task deleted", logging.String("name", name))
	return nil
}

// Run requests an immediate run of the named task. The scheduler queues the
// run; this does not wait for the task to finish.
func (s *Scheduler) Run(ctx context.Context, name string) error {
	if err := s.requireExists(ctx, name); err != nil {
		return err
	}
	if _, err := s.runScript(ctx, fmt.Sprintf("run %q", name), startScript(name)); err != nil {
		return err
	}
	s.log.Info("task run requested", logging.String("name", name))
	return nil
}

// Stop ends a running instance of the named task.
func (s *Scheduler) Stop(ctx context.Context, name string) error {
	if err := s.requireExists(ctx, name); err != nil {
		return err
	}
	if _, err := s.runScript(ctx, fmt.Sprintf("stop %q", name), stopScript(name)); err != nil {
		return err
	}
	s.log.Info("task stopped", logging.String("name", name))
	return nil
}

// SetEnabled flips the named task between enabled and disabled.
func (s *Scheduler) SetEnabled(ctx context.Context, name string, enabled bool) error {
	if err := s.requireExists(ctx, name); err != nil {
		return err
	}
	op := fmt.Sprintf("enable %q", name)
	if !enabled {
		op = fmt.Sprintf("disable %q", name)
	}
	if _, err := s.runScript(ctx, op, setEnabledScript(name, enabled)); err != nil {
		return err
	}
	s.log.Info("task toggled", logging.String("name", name), logging.Bool("enabled", enabled))
	return nil
}

func (s *Scheduler) requireExists(ctx context.Context, name string) error {
	exists, err := s.Exists(ctx, name)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("task %q: %w", name, ErrNotFound)
	}
	return nil
}
