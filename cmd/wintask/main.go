package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"wintask/internal/cli"
	"wintask/internal/config"
	"wintask/internal/logging"
	"wintask/internal/powershell"
	"wintask/internal/scheduler"
	"wintask/internal/task"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(0)
	}

	switch os.Args[1] {
	case "add":
		cmdAdd(os.Args[2:])
	case "delete":
		cmdName(os.Args[2:], "delete", "Deleted", func(a *app, ctx context.Context, name string) error {
			return a.sched.Delete(ctx, name)
		})
	case "run":
		cmdName(os.Args[2:], "run", "Started", func(a *app, ctx context.Context, name string) error {
			return a.sched.Run(ctx, name)
		})
	case "stop":
		cmdName(os.Args[2:], "stop", "Stopped", func(a *app, ctx context.Context, name string) error {
			return a.sched.Stop(ctx, name)
		})
	case "enable":
		cmdName(os.Args[2:], "enable", "Enabled", func(a *app, ctx context.Context, name string) error {
			return a.sched.SetEnabled(ctx, name, true)
		})
	case "disable":
		cmdName(os.Args[2:], "disable", "Disabled", func(a *app, ctx context.Context, name string) error {
			return a.sched.SetEnabled(ctx, name, false)
		})
	case "exists":
		cmdExists(os.Args[2:])
	case "list":
		cmdList(os.Args[2:])
	case "preview":
		cmdPreview(os.Args[2:])
	case "browse":
		cmdBrowse(os.Args[2:])
	case "status":
		cmdStatus()
	case "init":
		cli.RunInit()
	case "version", "--version", "-v":
		fmt.Println(cli.TitleStyle.Render(
			fmt.Sprintf("  %s wintask v%s", cli.Logo, cli.Version),
		))
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	dim := cli.DimStyle.Render
	fmt.Println()
	fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("  %s wintask", cli.Logo)) + dim(" — Windows task scheduler for Python scripts"))
	fmt.Println()
	fmt.Println("  " + cli.BoldStyle.Render("Usage"))
	fmt.Println()
	fmt.Printf("    wintask %-14s %s\n", "add", dim("Register a task (--name --script --at ...)"))
	fmt.Printf("    wintask %-14s %s\n", "delete", dim("Unregister a task (--name)"))
	fmt.Printf("    wintask %-14s %s\n", "run", dim("Start a task now (--name)"))
	fmt.Printf("    wintask %-14s %s\n", "stop", dim("Stop a running task (--name)"))
	fmt.Printf("    wintask %-14s %s\n", "enable", dim("Enable a task (--name)"))
	fmt.Printf("    wintask %-14s %s\n", "disable", dim("Disable a task (--name)"))
	fmt.Printf("    wintask %-14s %s\n", "exists", dim("Probe for a task, exit 0/1 (--name)"))
	fmt.Printf("    wintask %-14s %s\n", "list", dim("List tasks (--python-only --author --contains --json)"))
	fmt.Printf("    wintask %-14s %s\n", "preview", dim("Show upcoming runs for a schedule"))
	fmt.Printf("    wintask %-14s %s\n", "browse", dim("Interactive task browser"))
	fmt.Printf("    wintask %-14s %s\n", "status", dim("Show configuration"))
	fmt.Printf("    wintask %-14s %s\n", "init", dim("Create or refresh the config file"))
	fmt.Printf("    wintask %-14s %s\n", "version", dim("Show version"))
	fmt.Println()
	fmt.Println(dim("  Schedules: --frequency Once --at 22:00 --on 2026-11-10"))
	fmt.Println(dim("             --frequency Daily --at 07:30"))
	fmt.Println(dim("             --frequency Weekly --at 08:00 --on Monday,Friday"))
	fmt.Println()
}

// --- app wiring ---

type app struct {
	cfg       *config.Config
	log       logging.Logger
	sched     *scheduler.Scheduler
	closeLogs func()
}

func newApp() *app {
	cfg := mustLoadConfig()
	log, closeLogs := logging.Setup(logging.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		File: logging.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.LogFilePath(),
		},
	})
	runner := powershell.NewCommandRunner(cfg.PowerShell.Path, cfg.PowerShell.Timeout.Std())
	return &app{
		cfg:       cfg,
		log:       log,
		sched:     scheduler.New(runner, log),
		closeLogs: closeLogs,
	}
}

func (a *app) done() {
	a.closeLogs()
}

// fail prints the error and exits with its mapped code. Logs are flushed
// first because os.Exit skips deferred calls.
func (a *app) fail(err error) {
	a.log.Error("command failed", logging.Err(err))
	a.closeLogs()
	fmt.Fprintln(os.Stderr, cli.ErrStyle.Render("  Error: "+err.Error()))
	os.Exit(exitCode(err))
}

// exitCode maps error kinds onto distinct process exit codes so scripts can
// branch without parsing messages.
func exitCode(err error) int {
	var execErr *scheduler.ExecError
	switch {
	case err == nil:
		return 0
	case errors.Is(err, task.ErrInvalidSchedule):
		return 2
	case errors.Is(err, scheduler.ErrAlreadyExists):
		return 3
	case errors.Is(err, scheduler.ErrNotFound):
		return 4
	case errors.As(err, &execErr):
		return 5
	case errors.Is(err, powershell.ErrTimeout):
		return 6
	}
	return 1
}

func mustLoadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", err)
	}
	return cfg
}

func usageError(msg string) {
	fmt.Fprintln(os.Stderr, cli.ErrStyle.Render("  Error: "+msg))
	fmt.Fprintln(os.Stderr, cli.DimStyle.Render("  Run wintask help for usage"))
	os.Exit(1)
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	return fs
}

// splitList splits a comma-separated flag value, dropping empty parts.
func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// --- add command ---

func cmdAdd(args []string) {
	fs := newFlagSet("add")
	name := fs.String("name", "", "task name")
	script := fs.String("script", "", "path to the Python script")
	python := fs.String("python", "", "path to python.exe (default: defaults.python from config)")
	frequency := fs.String("frequency", "Daily", "Once, Daily or Weekly")
	at := fs.String("at", "", "time of day, HH:MM or HH:MM:SS")
	on := fs.String("on", "", "date (Once) or comma-separated weekdays (Weekly)")
	description := fs.String("description", "", "task description")
	user := fs.String("user", "", "account to run as")
	password := fs.String("password", "", "password for --user")
	overwrite := fs.Bool("overwrite", false, "replace an existing task with the same name")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if *name == "" {
		usageError("--name is required")
	}
	if *script == "" {
		usageError("--script is required")
	}
	if *at == "" {
		usageError("--at is required")
	}

	a := newApp()

	interp := *python
	if interp == "" {
		interp = a.cfg.PythonPath()
	}
	if interp == "" {
		a.fail(errors.New("no interpreter: pass --python or set defaults.python in the config"))
	}

	freq, err := task.ParseFrequency(*frequency)
	if err != nil {
		a.fail(err)
	}
	trig, err := task.NewTrigger(freq, *at, splitList(*on))
	if err != nil {
		a.fail(err)
	}

	desc := *description
	if desc == "" {
		desc = a.cfg.Defaults.Description
	}

	d := task.Descriptor{
		Name:        *name,
		Interpreter: interp,
		Script:      *script,
		Args:        fs.Args(),
		Trigger:     trig,
		Description: desc,
		User:        *user,
		Password:    *password,
		Overwrite:   *overwrite,
	}

	if err := a.sched.Create(context.Background(), d); err != nil {
		a.fail(err)
	}

	fmt.Println()
	fmt.Println("  " + cli.OkStyle.Render("✓") + " Task " + cli.BoldStyle.Render(*name) + " registered")
	fmt.Println("  " + cli.DimStyle.Render(trig.Describe()))
	printNextRuns(trig, 3)
	fmt.Println()
	a.done()
}

// --- name-only commands ---

func cmdName(args []string, verb, done string, call func(*app, context.Context, string) error) {
	fs := newFlagSet(verb)
	name := fs.String("name", "", "task name")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if *name == "" {
		usageError("--name is required")
	}

	a := newApp()
	if err := call(a, context.Background(), *name); err != nil {
		a.fail(err)
	}
	fmt.Println("  " + cli.OkStyle.Render("✓") + " " + done + " " + cli.BoldStyle.Render(*name))
	a.done()
}

// --- exists command ---

func cmdExists(args []string) {
	fs := newFlagSet("exists")
	name := fs.String("name", "", "task name")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if *name == "" {
		usageError("--name is required")
	}

	a := newApp()
	exists, err := a.sched.Exists(context.Background(), *name)
	if err != nil {
		a.fail(err)
	}
	a.done()
	if exists {
		fmt.Println("yes")
		os.Exit(0)
	}
	fmt.Println("no")
	os.Exit(1)
}

// --- list command ---

func cmdList(args []string) {
	fs := newFlagSet("list")
	pythonOnly := fs.Bool("python-only", false, "only tasks that run Python")
	author := fs.String("author", "", "exact author match")
	contains := fs.String("contains", "", "substring of the task name")
	asJSON := fs.Bool("json", false, "emit JSON instead of a table")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	a := newApp()
	tasks, err := a.sched.List(context.Background(), scheduler.ListOptions{
		PythonOnly:   *pythonOnly,
		Author:       *author,
		NameContains: *contains,
	})
	if err != nil {
		a.fail(err)
	}

	if *asJSON {
		out, err := json.MarshalIndent(tasks, "", "  ")
		if err != nil {
			a.fail(err)
		}
		fmt.Println(string(out))
	} else {
		fmt.Println()
		fmt.Print(cli.RenderTaskList(tasks))
		fmt.Println()
	}
	a.done()
}

// --- preview command ---

func cmdPreview(args []string) {
	fs := newFlagSet("preview")
	frequency := fs.String("frequency", "Daily", "Once, Daily or Weekly")
	at := fs.String("at", "", "time of day, HH:MM or HH:MM:SS")
	on := fs.String("on", "", "date (Once) or comma-separated weekdays (Weekly)")
	count := fs.Int("count", 5, "how many upcoming runs to show")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if *at == "" {
		usageError("--at is required")
	}

	freq, err := task.ParseFrequency(*frequency)
	if err != nil {
		fmt.Fprintln(os.Stderr, cli.ErrStyle.Render("  Error: "+err.Error()))
		os.Exit(exitCode(err))
	}
	trig, err := task.NewTrigger(freq, *at, splitList(*on))
	if err != nil {
		fmt.Fprintln(os.Stderr, cli.ErrStyle.Render("  Error: "+err.Error()))
		os.Exit(exitCode(err))
	}

	fmt.Println()
	fmt.Println("  " + cli.BoldStyle.Render(trig.Describe()))
	printNextRuns(trig, *count)
	fmt.Println()
}

func printNextRuns(trig task.Trigger, n int) {
	runs := trig.NextRuns(time.Now(), n)
	if len(runs) == 0 {
		fmt.Println("  " + cli.DimStyle.Render("no upcoming runs"))
		return
	}
	for _, r := range runs {
		fmt.Println("    " + cli.DimStyle.Render(r.Format("Mon 02 Jan 2006 15:04:05")))
	}
}

// --- browse command ---

func cmdBrowse(args []string) {
	a := newApp()

	fs := newFlagSet("browse")
	pythonOnly := fs.Bool("python-only", a.cfg.Browse.PythonOnly, "start with the Python filter on")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if err := cli.RunBrowse(context.Background(), a.sched, *pythonOnly); err != nil {
		a.fail(err)
	}
	a.done()
}

// --- status command ---

func cmdStatus() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", err)
	}
	cli.RunStatus(cfg)
}
