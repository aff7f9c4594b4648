package task

import (
	"errors"
	"strings"
)

// DefaultDescription is used when a descriptor carries no description.
const DefaultDescription = "Scheduled Python script"

// Descriptor is the full intent for one scheduled task: what to run, when,
// and as whom. It exists only for the duration of a create call; the
// scheduler's own store is the durable record.
type Descriptor struct {
	Name        string
	Interpreter string // path to the interpreter binary, typically python.exe
	Script      string // path to the script the interpreter runs
	Args        []string
	Trigger     Trigger
	Description string
	User        string // optional run-as account
	Password    string // only used together with User
	Overwrite   bool   // replace an existing task with the same name
}

// Validate checks the fields the scheduler cannot register without.
func (d Descriptor) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return errors.New("task name is required")
	}
	if strings.TrimSpace(d.Interpreter) == "" {
		return errors.New("interpreter path is required")
	}
	if strings.TrimSpace(d.Script) == "" {
		return errors.New("script path is required")
	}
	if d.Trigger.IsZero() {
		return errors.New("trigger is required")
	}
	return nil
}

// EffectiveDescription returns the description to register, falling back to
// DefaultDescription.
func (d Descriptor) EffectiveDescription() string {
	if strings.TrimSpace(d.Description) == "" {
		return DefaultDescription
	}
	return d.Description
}
