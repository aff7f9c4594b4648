package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"wintask/internal/scheduler"
)

// --- message types ---

type tasksLoadedMsg struct {
	tasks []scheduler.TaskSummary
	err   error
}

type taskActionMsg struct {
	verb string
	name string
	err  error
}

// --- browse model ---

type browseModel struct {
	sched *scheduler.Scheduler
	ctx   context.Context

	table   table.Model
	spinner spinner.Model

	tasks      []scheduler.TaskSummary
	pythonOnly bool
	loading    bool

	confirmName string // task pending delete confirmation, "" when none
	status      string
	statusErr   bool

	ready  bool
	width  int
	height int
}

func newBrowseModel(ctx context.Context, sched *scheduler.Scheduler, pythonOnly bool) browseModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(Accent)

	tbl := table.New(table.WithFocused(true))
	st := table.DefaultStyles()
	st.Header = st.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(Subtle).
		BorderBottom(true).
		Bold(true)
	st.Selected = st.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(Accent).
		Bold(false)
	tbl.SetStyles(st)

	return browseModel{
		sched:      sched,
		ctx:        ctx,
		spinner:    sp,
		table:      tbl,
		pythonOnly: pythonOnly,
		loading:    true,
	}
}

func (m browseModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadTasks())
}

func (m browseModel) loadTasks() tea.Cmd {
	sched := m.sched
	ctx := m.ctx
	opts := scheduler.ListOptions{PythonOnly: m.pythonOnly}
	return func() tea.Msg {
		tasks, err := sched.List(ctx, opts)
		return tasksLoadedMsg{tasks: tasks, err: err}
	}
}

func (m browseModel) runAction(verb, name string, do func(context.Context, string) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return taskActionMsg{verb: verb, name: name, err: do(ctx, name)}
	}
}

func (m browseModel) selected() (scheduler.TaskSummary, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.tasks) {
		return scheduler.TaskSummary{}, false
	}
	return m.tasks[i], true
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeTable()
		m.ready = true
		return m, nil

	case tea.KeyMsg:
		// A pending delete swallows every key: y confirms, the rest cancel.
		if m.confirmName != "" {
			name := m.confirmName
			m.confirmName = ""
			if s := msg.String(); s == "y" || s == "Y" {
				m.loading = true
				m.status = ""
				return m, tea.Batch(m.spinner.Tick, m.runAction("deleted", name, m.sched.Delete))
			}
			m.status = "delete cancelled"
			m.statusErr = false
			return m, nil
		}

		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "R":
			m.loading = true
			m.status = ""
			return m, tea.Batch(m.spinner.Tick, m.loadTasks())
		case "p":
			m.pythonOnly = !m.pythonOnly
			m.loading = true
			m.status = ""
			return m, tea.Batch(m.spinner.Tick, m.loadTasks())
		case "r":
			if t, ok := m.selected(); ok {
				m.loading = true
				return m, tea.Batch(m.spinner.Tick, m.runAction("started", t.Name, m.sched.Run))
			}
		case "s":
			if t, ok := m.selected(); ok {
				m.loading = true
				return m, tea.Batch(m.spinner.Tick, m.runAction("stopped", t.Name, m.sched.Stop))
			}
		case "e":
			if t, ok := m.selected(); ok {
				m.loading = true
				return m, tea.Batch(m.spinner.Tick, m.runAction("enabled", t.Name,
					func(ctx context.Context, name string) error { return m.sched.SetEnabled(ctx, name, true) }))
			}
		case "d":
			if t, ok := m.selected(); ok {
				m.loading = true
				return m, tea.Batch(m.spinner.Tick, m.runAction("disabled", t.Name,
					func(ctx context.Context, name string) error { return m.sched.SetEnabled(ctx, name, false) }))
			}
		case "x":
			if t, ok := m.selected(); ok {
				m.confirmName = t.Name
			}
			return m, nil
		}

	case tasksLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.status = msg.err.Error()
			m.statusErr = true
			return m, nil
		}
		m.tasks = msg.tasks
		m.table.SetRows(taskRows(m.tasks))
		if m.table.Cursor() >= len(m.tasks) && len(m.tasks) > 0 {
			m.table.SetCursor(len(m.tasks) - 1)
		}
		return m, nil

	case taskActionMsg:
		if msg.err != nil {
			m.loading = false
			m.status = msg.err.Error()
			m.statusErr = true
			return m, nil
		}
		m.status = fmt.Sprintf("%s %q", msg.verb, msg.name)
		m.statusErr = false
		// Reload so the table reflects the store, not our expectation.
		return m, m.loadTasks()

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// resizeTable fits the columns into the current width, giving the name
// column whatever is left.
func (m *browseModel) resizeTable() {
	const stateW, timeW, resultW, authorW = 10, 17, 16, 18
	nameW := m.width - (stateW + 2*timeW + resultW + authorW) - 12
	if nameW < 12 {
		nameW = 12
	}
	m.table.SetColumns([]table.Column{
		{Title: "Name", Width: nameW},
		{Title: "State", Width: stateW},
		{Title: "Next Run", Width: timeW},
		{Title: "Last Run", Width: timeW},
		{Title: "Result", Width: resultW},
		{Title: "Author", Width: authorW},
	})

	// Header(1) + dividers(2) + detail(4) + status(1) + help(1) + table header(2)
	tableH := m.height - 11
	if tableH < 3 {
		tableH = 3
	}
	m.table.SetHeight(tableH)
	m.table.SetWidth(m.width)
}

func taskRows(tasks []scheduler.TaskSummary) []table.Row {
	rows := make([]table.Row, len(tasks))
	for i, t := range tasks {
		rows[i] = table.Row{
			t.Name,
			string(t.State),
			formatRunTime(t.NextRun),
			formatRunTime(t.LastRun),
			t.LastResultText(),
			t.Author,
		}
	}
	return rows
}

func (m browseModel) View() string {
	if !m.ready {
		return "\n  Loading..."
	}

	filter := "all tasks"
	if m.pythonOnly {
		filter = "python tasks"
	}
	header := TitleStyle.Render(fmt.Sprintf(" %s wintask", Logo)) + DimStyle.Render("  ·  "+filter)
	divider := DimStyle.Render(strings.Repeat("─", m.width))

	var body string
	if m.loading && len(m.tasks) == 0 {
		body = fmt.Sprintf("\n  %s querying the task scheduler...\n", m.spinner.View())
	} else {
		body = m.table.View()
	}

	detail := m.renderDetail()
	status := m.renderStatus()
	help := DimStyle.Render(" r run · s stop · e enable · d disable · x delete · p filter · R refresh · q quit")

	return header + "\n" +
		divider + "\n" +
		body + "\n" +
		divider + "\n" +
		detail +
		status + "\n" +
		help
}

func (m browseModel) renderDetail() string {
	t, ok := m.selected()
	if !ok {
		return strings.Repeat("\n", 4)
	}
	lines := taskDetailLines(t, m.width-2)
	var b strings.Builder
	for i := 0; i < 4; i++ {
		if i < len(lines) {
			b.WriteString(" " + lines[i])
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m browseModel) renderStatus() string {
	if m.confirmName != "" {
		return WarnStyle.Render(fmt.Sprintf(" delete %q? y/n", m.confirmName))
	}
	if m.loading {
		return fmt.Sprintf(" %s working...", m.spinner.View())
	}
	if m.status == "" {
		return ""
	}
	if m.statusErr {
		return ErrStyle.Render(" " + truncate(m.status, m.width-2))
	}
	return OkStyle.Render(" " + truncate(m.status, m.width-2))
}

// RunBrowse starts the interactive task browser.
func RunBrowse(ctx context.Context, sched *scheduler.Scheduler, pythonOnly bool) error {
	m := newBrowseModel(ctx, sched, pythonOnly)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
