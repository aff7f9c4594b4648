package task

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"wintask/internal/powershell"
)

// Frequency selects one of the three supported trigger shapes.
type Frequency string

const (
	FreqOnce   Frequency = "Once"
	FreqDaily  Frequency = "Daily"
	FreqWeekly Frequency = "Weekly"
)

// ParseFrequency maps user input onto a Frequency, case-insensitively.
func ParseFrequency(s string) (Frequency, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "once":
		return FreqOnce, nil
	case "daily":
		return FreqDaily, nil
	case "weekly":
		return FreqWeekly, nil
	}
	return "", fmt.Errorf("%w: unknown frequency %q (use Once, Daily or Weekly)", ErrInvalidSchedule, s)
}

// --- Time of day ---

var reTimeOfDay = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::(\d{2}))?$`)

// TimeOfDay is a wall-clock time within a day, with optional seconds.
type TimeOfDay struct {
	Hour        int
	Minute      int
	Second      int
	WithSeconds bool
}

// ParseTimeOfDay parses "HH:MM" or "HH:MM:SS". Hours may omit the leading
// zero; the parsed value renders zero-padded.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	m := reTimeOfDay.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return TimeOfDay{}, fmt.Errorf("%w: time %q must be HH:MM or HH:MM:SS", ErrInvalidSchedule, s)
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	tod := TimeOfDay{Hour: hour, Minute: minute}
	if m[3] != "" {
		second, _ := strconv.Atoi(m[3])
		tod.Second = second
		tod.WithSeconds = true
	}
	if err := tod.validate(); err != nil {
		return TimeOfDay{}, err
	}
	return tod, nil
}

func (t TimeOfDay) validate() error {
	if t.Hour < 0 || t.Hour > 23 || t.Minute < 0 || t.Minute > 59 || t.Second < 0 || t.Second > 59 {
		return fmt.Errorf("%w: time %q out of range", ErrInvalidSchedule, t)
	}
	return nil
}

func (t TimeOfDay) String() string {
	if t.WithSeconds {
		return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
	}
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// --- Weekdays ---

var weekdayByName = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// parseWeekdays resolves full weekday names, case-insensitively.
func parseWeekdays(names []string) ([]time.Weekday, error) {
	days := make([]time.Weekday, 0, len(names))
	for _, name := range names {
		day, ok := weekdayByName[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, fmt.Errorf("%w: unknown weekday %q (use full names, Monday through Sunday)", ErrInvalidSchedule, name)
		}
		days = append(days, day)
	}
	return days, nil
}

// --- Trigger ---

// Trigger describes when a task fires. The zero value is invalid; values
// come from the Once, Daily and Weekly constructors, which reject shapes the
// scheduler cannot express, or from NewTrigger for string input.
type Trigger struct {
	freq Frequency
	at   TimeOfDay
	date time.Time      // Once only
	days []time.Weekday // Weekly only
}

// Once builds a trigger that fires a single time, on date at the given time
// of day.
func Once(date time.Time, at TimeOfDay) (Trigger, error) {
	if err := at.validate(); err != nil {
		return Trigger{}, err
	}
	if date.IsZero() {
		return Trigger{}, fmt.Errorf("%w: Once needs a date", ErrInvalidSchedule)
	}
	return Trigger{freq: FreqOnce, at: at, date: date}, nil
}

// Daily builds a trigger that fires every day at the given time of day.
func Daily(at TimeOfDay) (Trigger, error) {
	if err := at.validate(); err != nil {
		return Trigger{}, err
	}
	return Trigger{freq: FreqDaily, at: at}, nil
}

// Weekly builds a trigger that fires on each of days at the given time of
// day. Duplicates collapse, keeping first-occurrence order; at least one day
// is required.
func Weekly(days []time.Weekday, at TimeOfDay) (Trigger, error) {
	if err := at.validate(); err != nil {
		return Trigger{}, err
	}
	if len(days) == 0 {
		return Trigger{}, fmt.Errorf("%w: Weekly needs at least one weekday", ErrInvalidSchedule)
	}
	seen := make(map[time.Weekday]bool, len(days))
	kept := make([]time.Weekday, 0, len(days))
	for _, d := range days {
		if d < time.Sunday || d > time.Saturday {
			return Trigger{}, fmt.Errorf("%w: weekday %d out of range", ErrInvalidSchedule, int(d))
		}
		if seen[d] {
			continue
		}
		seen[d] = true
		kept = append(kept, d)
	}
	return Trigger{freq: FreqWeekly, at: at, days: kept}, nil
}

// NewTrigger parses the string forms of a schedule and builds the matching
// trigger. The meaning of on depends on freq: a single YYYY-MM-DD date for
// Once, weekday names for Weekly, and nothing for Daily.
func NewTrigger(freq Frequency, at string, on []string) (Trigger, error) {
	tod, err := ParseTimeOfDay(at)
	if err != nil {
		return Trigger{}, err
	}
	switch freq {
	case FreqOnce:
		if len(on) != 1 {
			return Trigger{}, fmt.Errorf("%w: Once needs exactly one YYYY-MM-DD date", ErrInvalidSchedule)
		}
		date, err := time.Parse("2006-01-02", strings.TrimSpace(on[0]))
		if err != nil {
			return Trigger{}, fmt.Errorf("%w: date %q must be YYYY-MM-DD", ErrInvalidSchedule, on[0])
		}
		return Once(date, tod)
	case FreqDaily:
		if len(on) != 0 {
			return Trigger{}, fmt.Errorf("%w: Daily takes no dates or weekdays", ErrInvalidSchedule)
		}
		return Daily(tod)
	case FreqWeekly:
		days, err := parseWeekdays(on)
		if err != nil {
			return Trigger{}, err
		}
		return Weekly(days, tod)
	}
	return Trigger{}, fmt.Errorf("%w: unknown frequency %q (use Once, Daily or Weekly)", ErrInvalidSchedule, string(freq))
}

// IsZero reports whether the trigger was never built.
func (t Trigger) IsZero() bool {
	return t.freq == ""
}

// Frequency returns the trigger's shape.
func (t Trigger) Frequency() Frequency {
	return t.freq
}

// At returns the normalized time of day.
func (t Trigger) At() string {
	return t.at.String()
}

// Date returns the fire date of a Once trigger, zero otherwise.
func (t Trigger) Date() time.Time {
	return t.date
}

// Weekdays returns the fire days of a Weekly trigger in input order.
func (t Trigger) Weekdays() []time.Weekday {
	out := make([]time.Weekday, len(t.days))
	copy(out, t.days)
	return out
}

func (t Trigger) dayNames() string {
	names := make([]string, len(t.days))
	for i, d := range t.days {
		names[i] = d.String()
	}
	return strings.Join(names, ",")
}

// Command renders the New-ScheduledTaskTrigger expression for this trigger.
func (t Trigger) Command() string {
	switch t.freq {
	case FreqOnce:
		at := t.date.Format("2006-01-02") + " " + t.at.String()
		return fmt.Sprintf("New-ScheduledTaskTrigger -Once -At (Get-Date %s)", powershell.Quote(at))
	case FreqWeekly:
		return fmt.Sprintf("New-ScheduledTaskTrigger -Weekly -DaysOfWeek %s -At %s", t.dayNames(), t.at)
	case FreqDaily:
		return fmt.Sprintf("New-ScheduledTaskTrigger -Daily -At %s", t.at)
	}
	return ""
}

// Describe returns a one-line human summary, e.g. "weekly on Monday, Friday
// at 07:30".
func (t Trigger) Describe() string {
	switch t.freq {
	case FreqOnce:
		return fmt.Sprintf("once on %s at %s", t.date.Format("2006-01-02"), t.at)
	case FreqWeekly:
		names := make([]string, len(t.days))
		for i, d := range t.days {
			names[i] = d.String()
		}
		return fmt.Sprintf("weekly on %s at %s", strings.Join(names, ", "), t.at)
	case FreqDaily:
		return fmt.Sprintf("daily at %s", t.at)
	}
	return "unscheduled"
}
