package scheduler_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"wintask/internal/logging"
	"wintask/internal/powershell"
	"wintask/internal/scheduler"
	"wintask/internal/task"
)

// fakeRunner records every script and replays canned results in order.
type fakeRunner struct {
	scripts []string
	results []powershell.Result
	errs    []error
}

func (f *fakeRunner) Run(_ context.Context, script string) (powershell.Result, error) {
	i := len(f.scripts)
	f.scripts = append(f.scripts, script)
	var res powershell.Result
	if i < len(f.results) {
		res = f.results[i]
	}
	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	return res, err
}

func ok() powershell.Result { return powershell.Result{} }

func exit(code int) powershell.Result { return powershell.Result{ExitCode: code} }

func newScheduler(f *fakeRunner) *scheduler.Scheduler {
	return scheduler.New(f, logging.Nop())
}

func descriptor(t *testing.T, overwrite bool) task.Descriptor {
	t.Helper()
	trig, err := task.NewTrigger(task.FreqDaily, "22:00", nil)
	if err != nil {
		t.Fatal(err)
	}
	return task.Descriptor{
		Name:        "My Task",
		Interpreter: `C:\Python312\python.exe`,
		Script:      `C:\Scripts\train.py`,
		Args:        []string{"--samples", "100"},
		Trigger:     trig,
		Overwrite:   overwrite,
	}
}

func TestCreateOnFreeName(t *testing.T) {
	f := &fakeRunner{results: []powershell.Result{exit(1), ok()}}
	s := newScheduler(f)

	if err := s.Create(context.Background(), descriptor(t, false)); err != nil {
		t.Fatal(err)
	}
	if len(f.scripts) != 2 {
		t.Fatalf("issued %d commands, want 2 (probe, register): %q", len(f.scripts), f.scripts)
	}
	if !strings.Contains(f.scripts[0], "Get-ScheduledTask") {
		t.Errorf("first command is not the existence probe: %s", f.scripts[0])
	}
	if !strings.Contains(f.scripts[1], "Register-ScheduledTask") {
		t.Errorf("second command is not the registration: %s", f.scripts[1])
	}
	if strings.Contains(f.scripts[1], "Unregister-ScheduledTask") {
		t.Error("registration must not delete anything on a free name")
	}
}

func TestCreateCollisionWithoutOverwrite(t *testing.T) {
	f := &fakeRunner{results: []powershell.Result{exit(0)}}
	s := newScheduler(f)

	err := s.Create(context.Background(), descriptor(t, false))
	if !errors.Is(err, scheduler.ErrAlreadyExists) {
		t.Fatalf("err = %v, want ErrAlreadyExists", err)
	}
	// Nothing after the probe: the store is untouched.
	if len(f.scripts) != 1 {
		t.Fatalf("issued %d commands, want only the probe: %q", len(f.scripts), f.scripts)
	}
}

func TestCreateOverwriteReplacesExisting(t *testing.T) {
	f := &fakeRunner{results: []powershell.Result{exit(0), ok(), ok()}}
	s := newScheduler(f)

	if err := s.Create(context.Background(), descriptor(t, true)); err != nil {
		t.Fatal(err)
	}
	if len(f.scripts) != 3 {
		t.Fatalf("issued %d commands, want 3 (probe, delete, register): %q", len(f.scripts), f.scripts)
	}
	if !strings.Contains(f.scripts[1], "Unregister-ScheduledTask") {
		t.Errorf("second command should delete the old task: %s", f.scripts[1])
	}
	if !strings.Contains(f.scripts[2], "Register-ScheduledTask") {
		t.Errorf("third command should register: %s", f.scripts[2])
	}
}

func TestCreateRejectsInvalidDescriptorBeforeTouchingStore(t *testing.T) {
	f := &fakeRunner{}
	s := newScheduler(f)

	d := descriptor(t, false)
	d.Name = ""
	if err := s.Create(context.Background(), d); err == nil {
		t.Fatal("expected validation error")
	}
	if len(f.scripts) != 0 {
		t.Fatalf("invalid descriptor reached the store: %q", f.scripts)
	}
}

func TestCreateSurfacesRegisterFailure(t *testing.T) {
	f := &fakeRunner{results: []powershell.Result{
		exit(1),
		{ExitCode: 1, Stderr: "Access is denied."},
	}}
	s := newScheduler(f)

	err := s.Create(context.Background(), descriptor(t, false))
	var execErr *scheduler.ExecError
	if !errors.As(err, &execErr) {
		t.Fatalf("err = %v, want ExecError", err)
	}
	if execErr.ExitCode != 1 || !strings.Contains(execErr.Output, "Access is denied") {
		t.Errorf("unexpected ExecError: %+v", execErr)
	}
}

func TestExistsClassification(t *testing.T) {
	cases := []struct {
		name    string
		result  powershell.Result
		want    bool
		wantErr bool
		execErr bool
	}{
		{"present", exit(0), true, false, false},
		{"absent", exit(1), false, false, false},
		{"broken", powershell.Result{ExitCode: 5, Stderr: "boom"}, false, true, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := &fakeRunner{results: []powershell.Result{tc.result}}
			s := newScheduler(f)
			got, err := s.Exists(context.Background(), "My Task")
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				var execErr *scheduler.ExecError
				if tc.execErr && !errors.As(err, &execErr) {
					t.Fatalf("err = %v, want ExecError", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != tc.want {
				t.Errorf("Exists = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestMutationsRequireExistingTask(t *testing.T) {
	ops := []struct {
		name string
		call func(*scheduler.Scheduler) error
	}{
		{"delete", func(s *scheduler.Scheduler) error { return s.Delete(context.Background(), "ghost") }},
		{"run", func(s *scheduler.Scheduler) error { return s.Run(context.Background(), "ghost") }},
		{"stop", func(s *scheduler.Scheduler) error { return s.Stop(context.Background(), "ghost") }},
		{"enable", func(s *scheduler.Scheduler) error { return s.SetEnabled(context.Background(), "ghost", true) }},
		{"disable", func(s *scheduler.Scheduler) error { return s.SetEnabled(context.Background(), "ghost", false) }},
	}
	for _, op := range ops {
		t.Run(op.name, func(t *testing.T) {
			f := &fakeRunner{results: []powershell.Result{exit(1)}}
			s := newScheduler(f)
			err := op.call(s)
			if !errors.Is(err, scheduler.ErrNotFound) {
				t.Fatalf("err = %v, want ErrNotFound", err)
			}
			if len(f.scripts) != 1 {
				t.Fatalf("issued %d commands, want only the probe: %q", len(f.scripts), f.scripts)
			}
		})
	}
}

func TestDeleteIssuesUnregister(t *testing.T) {
	f := &fakeRunner{results: []powershell.Result{exit(0), ok()}}
	s := newScheduler(f)
	if err := s.Delete(context.Background(), "My Task"); err != nil {
		t.Fatal(err)
	}
	want := `Unregister-ScheduledTask -TaskName "My Task" -Confirm:$false`
	if f.scripts[1] != want {
		t.Errorf("delete command\n got %s\nwant %s", f.scripts[1], want)
	}
}

func TestRunStopToggleCommands(t *testing.T) {
	cases := []struct {
		name string
		call func(*scheduler.Scheduler) error
		want string
	}{
		{
			"run",
			func(s *scheduler.Scheduler) error { return s.Run(context.Background(), "My Task") },
			`Start-ScheduledTask -TaskName "My Task"`,
		},
		{
			"stop",
			func(s *scheduler.Scheduler) error { return s.Stop(context.Background(), "My Task") },
			`Stop-ScheduledTask -TaskName "My Task" -Confirm:$false`,
		},
		{
			"enable",
			func(s *scheduler.Scheduler) error { return s.SetEnabled(context.Background(), "My Task", true) },
			`Enable-ScheduledTask -TaskName "My Task"`,
		},
		{
			"disable",
			func(s *scheduler.Scheduler) error { return s.SetEnabled(context.Background(), "My Task", false) },
			`Disable-ScheduledTask -TaskName "My Task"`,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := &fakeRunner{results: []powershell.Result{exit(0), ok()}}
			s := newScheduler(f)
			if err := tc.call(s); err != nil {
				t.Fatal(err)
			}
			if f.scripts[1] != tc.want {
				t.Errorf("command\n got %s\nwant %s", f.scripts[1], tc.want)
			}
		})
	}
}

func TestTimeoutPropagates(t *testing.T) {
	wrapped := fmt.Errorf("%w after 60s", powershell.ErrTimeout)
	f := &fakeRunner{errs: []error{wrapped}}
	s := newScheduler(f)

	_, err := s.Exists(context.Background(), "My Task")
	if !errors.Is(err, powershell.ErrTimeout) {
		t.Fatalf("err = %v, want ErrTimeout", err)
	}
}
