package cli

import (
	"fmt"
	"strings"
	"time"

	"wintask/internal/scheduler"
)

const timeLayout = "02 Jan 2006 15:04"

func formatRunTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(timeLayout)
}

// truncate shortens s to at most width runes, marking the cut with an
// ellipsis. Width zero or less drops the string entirely.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}

// RenderTaskList renders tasks as an aligned text table for plain output.
func RenderTaskList(tasks []scheduler.TaskSummary) string {
	if len(tasks) == 0 {
		return DimStyle.Render("  no matching tasks") + "\n"
	}

	nameW := len("NAME")
	for _, t := range tasks {
		if len(t.Name) > nameW {
			nameW = len(t.Name)
		}
	}
	if nameW > 40 {
		nameW = 40
	}

	var b strings.Builder
	header := fmt.Sprintf("  %-*s  %-9s  %-17s  %-17s  %-16s  %s",
		nameW, "NAME", "STATE", "NEXT RUN", "LAST RUN", "RESULT", "AUTHOR")
	b.WriteString(DimStyle.Render(header) + "\n")
	for _, t := range tasks {
		fmt.Fprintf(&b, "  %-*s  %s  %-17s  %-17s  %-16s  %s\n",
			nameW, truncate(t.Name, nameW),
			stateCell(t.State, 9),
			formatRunTime(t.NextRun),
			formatRunTime(t.LastRun),
			truncate(t.LastResultText(), 16),
			t.Author)
	}
	return b.String()
}

// taskDetailLines renders the fields that do not fit a table row. Values
// are truncated before styling so the escape codes stay intact.
func taskDetailLines(t scheduler.TaskSummary, width int) []string {
	row := func(label, val string) string {
		if width > 12 {
			val = truncate(val, width-10)
		}
		return BoldStyle.Render(label) + val
	}

	var lines []string
	if t.Triggers != "" {
		lines = append(lines, row("Schedule ", t.Triggers))
	}
	if len(t.Actions) > 0 {
		a := t.Actions[0]
		lines = append(lines, row("Command  ", strings.TrimSpace(a.Command+" "+a.Arguments)))
	}
	if t.Description != "" {
		lines = append(lines, row("About    ", t.Description))
	}
	return lines
}
