package task

import (
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// previewParser accepts a seconds field so HH:MM:SS triggers keep their
// seconds. It only parses; no scheduler is ever started.
var previewParser = cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// cronSpec derives the 6-field cron expression behind a recurring trigger.
// Once triggers have no cron form and return "".
func (t Trigger) cronSpec() string {
	switch t.freq {
	case FreqDaily:
		return fmt.Sprintf("%d %d %d * * *", t.at.Second, t.at.Minute, t.at.Hour)
	case FreqWeekly:
		days := make([]string, len(t.days))
		for i, d := range t.days {
			days[i] = fmt.Sprintf("%d", int(d))
		}
		return fmt.Sprintf("%d %d %d * * %s", t.at.Second, t.at.Minute, t.at.Hour, strings.Join(days, ","))
	}
	return ""
}

// NextRuns returns up to n upcoming fire times strictly after now, in now's
// location. A Once trigger whose moment has passed yields nothing.
func (t Trigger) NextRuns(now time.Time, n int) []time.Time {
	if n <= 0 || t.IsZero() {
		return nil
	}
	if t.freq == FreqOnce {
		y, m, d := t.date.Date()
		fire := time.Date(y, m, d, t.at.Hour, t.at.Minute, t.at.Second, 0, now.Location())
		if fire.After(now) {
			return []time.Time{fire}
		}
		return nil
	}
	sched, err := previewParser.Parse(t.cronSpec())
	if err != nil {
		return nil
	}
	runs := make([]time.Time, 0, n)
	cur := now
	for i := 0; i < n; i++ {
		cur = sched.Next(cur)
		if cur.IsZero() {
			break
		}
		runs = append(runs, cur)
	}
	return runs
}
