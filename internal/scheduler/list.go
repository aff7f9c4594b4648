package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"wintask/internal/logging"
)

// TaskState is the scheduler's own state for a registered task.
type TaskState string

const (
	StateUnknown  TaskState = "Unknown"
	StateDisabled TaskState = "Disabled"
	StateQueued   TaskState = "Queued"
	StateReady    TaskState = "Ready"
	StateRunning  TaskState = "Running"
)

// Numeric TASK_STATE values as the scheduler serializes them.
var stateByNumber = map[int64]TaskState{
	0: StateUnknown,
	1: StateDisabled,
	2: StateQueued,
	3: StateReady,
	4: StateRunning,
}

// Well-known last-run result codes. Anything else renders as a raw code.
var resultText = map[int64]string{
	0:      "Succeeded",
	267000: "No more runs",
	267002: "Disabled",
	267008: "Queued",
	267009: "Running",
	267010: "Ready",
	267011: "Not executed yet",
}

// Action is one executable step of a registered task.
type Action struct {
	Command          string `json:"command"`
	Arguments        string `json:"arguments"`
	WorkingDirectory string `json:"workingDirectory,omitempty"`
}

// TaskSummary is one row of the task listing. Times are zero when the
// scheduler has none to report.
type TaskSummary struct {
	Name        string    `json:"name"`
	State       TaskState `json:"state"`
	Triggers    string    `json:"triggers,omitempty"`
	NextRun     time.Time `json:"nextRun,omitzero"`
	LastRun     time.Time `json:"lastRun,omitzero"`
	LastResult  int64     `json:"lastResult"`
	Author      string    `json:"author,omitempty"`
	Created     string    `json:"created,omitempty"`
	Description string    `json:"description,omitempty"`
	Actions     []Action  `json:"actions,omitempty"`
}

// LastResultText renders the last-run result as a short label.
func (t TaskSummary) LastResultText() string {
	if s, ok := resultText[t.LastResult]; ok {
		return s
	}
	return fmt.Sprintf("Code %d", t.LastResult)
}

// IsPython reports whether any action looks like a Python invocation, by
// interpreter path or .py argument. A substring heuristic, nothing more.
func (t TaskSummary) IsPython() bool {
	for _, a := range t.Actions {
		if isPythonAction(a) {
			return true
		}
	}
	return false
}

func isPythonAction(a Action) bool {
	cmd := strings.ToLower(a.Command)
	args := strings.ToLower(a.Arguments)
	return strings.HasSuffix(cmd, "python.exe") ||
		strings.Contains(cmd, `\python`) ||
		strings.Contains(cmd, "/python") ||
		strings.HasSuffix(args, ".py") ||
		strings.HasSuffix(args, `.py"`) ||
		strings.Contains(args, ".py ")
}

// ListOptions narrows List output. The zero value returns every task.
type ListOptions struct {
	PythonOnly   bool   // keep only tasks whose action looks like Python
	Author       string // exact author match, case-insensitive
	NameContains string // substring match on the task name, case-insensitive
}

func (o ListOptions) match(t TaskSummary) bool {
	if o.Author != "" && !strings.EqualFold(o.Author, t.Author) {
		return false
	}
	if o.NameContains != "" && !strings.Contains(strings.ToLower(t.Name), strings.ToLower(o.NameContains)) {
		return false
	}
	if o.PythonOnly && !t.IsPython() {
		return false
	}
	return true
}

// List queries the task store and returns the tasks passing opts, in the
// order the scheduler reported them.
func (s *Scheduler) List(ctx context.Context, opts ListOptions) ([]TaskSummary, error) {
	res, err := s.runScript(ctx, "list", listScript)
	if err != nil {
		return nil, err
	}
	all, err := parseTaskList(res.Stdout)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	out := make([]TaskSummary, 0, len(all))
	for _, t := range all {
		if opts.match(t) {
			out = append(out, t)
		}
	}
	s.log.Debug("tasks listed", logging.Int("total", len(all)), logging.Int("kept", len(out)))
	return out, nil
}

// --- JSON decoding ---

// rawTask mirrors the JSON the list script emits. Status and LastRunResult
// arrive as numbers or strings depending on the PowerShell edition, so both
// decode from raw messages.
type rawTask struct {
	Name          string          `json:"Name"`
	Status        json.RawMessage `json:"Status"`
	NextRunTime   string          `json:"NextRunTime"`
	LastRunTime   string          `json:"LastRunTime"`
	LastRunResult json.RawMessage `json:"LastRunResult"`
	Author        string          `json:"Author"`
	Created       string          `json:"Created"`
	Description   string          `json:"Description"`
	Triggers      string          `json:"Triggers"`
	Actions       rawActions      `json:"Actions"`
}

type rawAction struct {
	Command          string `json:"Command"`
	Arguments        string `json:"Arguments"`
	WorkingDirectory string `json:"WorkingDirectory"`
}

// rawActions tolerates ConvertTo-Json collapsing a one-element array into a
// bare object.
type rawActions []rawAction

func (a *rawActions) UnmarshalJSON(data []byte) error {
	var list []rawAction
	if err := json.Unmarshal(data, &list); err == nil {
		*a = list
		return nil
	}
	var one rawAction
	if err := json.Unmarshal(data, &one); err != nil {
		return err
	}
	*a = rawActions{one}
	return nil
}

// parseTaskList decodes the list script's stdout. An empty store emits
// nothing; a single task arrives as a bare object instead of an array.
func parseTaskList(stdout string) ([]TaskSummary, error) {
	txt := strings.TrimSpace(stdout)
	if txt == "" {
		return nil, nil
	}
	var raws []rawTask
	if err := json.Unmarshal([]byte(txt), &raws); err != nil {
		var one rawTask
		if err := json.Unmarshal([]byte(txt), &one); err != nil {
			return nil, fmt.Errorf("decode task json: %w", err)
		}
		raws = []rawTask{one}
	}
	out := make([]TaskSummary, 0, len(raws))
	for _, r := range raws {
		t := TaskSummary{
			Name:        r.Name,
			State:       normalizeState(r.Status),
			Triggers:    r.Triggers,
			NextRun:     parseTaskTime(r.NextRunTime),
			LastRun:     parseTaskTime(r.LastRunTime),
			LastResult:  rawInt(r.LastRunResult),
			Author:      r.Author,
			Created:     r.Created,
			Description: r.Description,
		}
		for _, a := range r.Actions {
			t.Actions = append(t.Actions, Action{
				Command:          a.Command,
				Arguments:        a.Arguments,
				WorkingDirectory: a.WorkingDirectory,
			})
		}
		out = append(out, t)
	}
	return out, nil
}

// normalizeState maps a raw status, numeric or named, onto a TaskState.
func normalizeState(raw json.RawMessage) TaskState {
	if len(raw) == 0 {
		return StateUnknown
	}
	if n, ok := rawIntOK(raw); ok {
		if st, ok := stateByNumber[n]; ok {
			return st
		}
		return StateUnknown
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return StateUnknown
	}
	switch TaskState(s) {
	case StateDisabled, StateQueued, StateReady, StateRunning:
		return TaskState(s)
	}
	return StateUnknown
}

// rawInt decodes a JSON number or numeric string, returning 0 otherwise.
func rawInt(raw json.RawMessage) int64 {
	n, _ := rawIntOK(raw)
	return n
}

func rawIntOK(raw json.RawMessage) (int64, bool) {
	var n int64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
			return n, true
		}
	}
	return 0, false
}

// taskTimeLayout matches the dd/MM/yyyy HH:mm:ss strings the list script
// emits.
const taskTimeLayout = "02/01/2006 15:04:05"

// parseTaskTime parses a scheduler timestamp in local time, zero on empty
// or malformed input.
func parseTaskTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	t, err := time.ParseInLocation(taskTimeLayout, s, time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}
