package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"wintask/internal/scheduler"
)

const Logo = "📅"
const Version = "0.1.0"

var (
	Accent = lipgloss.Color("#00A4EF")
	Subtle = lipgloss.Color("#555555")
	Green  = lipgloss.Color("#04B575")
	Red    = lipgloss.Color("#FF4444")
	Yellow = lipgloss.Color("#F5C518")

	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(Accent)
	BoldStyle  = lipgloss.NewStyle().Bold(true)
	ErrStyle   = lipgloss.NewStyle().Foreground(Red)
	OkStyle    = lipgloss.NewStyle().Foreground(Green).Bold(true)
	WarnStyle  = lipgloss.NewStyle().Foreground(Yellow)
	DimStyle   = lipgloss.NewStyle().Foreground(Subtle)

	readyStyle   = lipgloss.NewStyle().Foreground(Green)
	runningStyle = lipgloss.NewStyle().Foreground(Accent).Bold(true)
)

func StatusBadge(ok bool) string {
	if ok {
		return OkStyle.Render("✓")
	}
	return DimStyle.Render("✗")
}

// stateCell renders a task state padded to width, colored by state. Padding
// happens before styling so ANSI codes do not break column alignment.
func stateCell(st scheduler.TaskState, width int) string {
	s := fmt.Sprintf("%-*s", width, string(st))
	switch st {
	case scheduler.StateReady:
		return readyStyle.Render(s)
	case scheduler.StateRunning:
		return runningStyle.Render(s)
	case scheduler.StateDisabled:
		return WarnStyle.Render(s)
	}
	return DimStyle.Render(s)
}
