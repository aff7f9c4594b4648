package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"wintask/internal/config"
)

// --- init selection model ---

type initChoice int

const (
	choiceUpgrade initChoice = iota
	choiceOverwrite
	choiceSkip
)

type initModel struct {
	choices []string
	cursor  int
	chosen  bool
	choice  initChoice
}

func (m initModel) Init() tea.Cmd { return nil }

func (m initModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			m.choice = choiceSkip
			m.chosen = true
			return m, tea.Quit
		case tea.KeyUp, tea.KeyShiftTab:
			if m.cursor > 0 {
				m.cursor--
			}
		case tea.KeyDown, tea.KeyTab:
			if m.cursor < len(m.choices)-1 {
				m.cursor++
			}
		case tea.KeyEnter:
			m.choice = initChoice(m.cursor)
			m.chosen = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m initModel) View() string {
	if m.chosen {
		return ""
	}

	s := "\n"
	s += fmt.Sprintf("  Config already exists at %s\n\n", DimStyle.Render(config.ConfigPath()))

	for i, choice := range m.choices {
		cursor := "  "
		if i == m.cursor {
			cursor = TitleStyle.Render("❯ ")
		}
		s += "  " + cursor + choice + "\n"
	}

	s += "\n" + DimStyle.Render("  ↑/↓ navigate · enter select · ctrl+c cancel") + "\n"
	return s
}

// RunInit creates or refreshes the config file.
func RunInit() {
	cfgPath := config.ConfigPath()

	fmt.Println()
	fmt.Println(TitleStyle.Render(fmt.Sprintf("  %s wintask Init", Logo)))

	if _, err := os.Stat(cfgPath); err == nil {
		m := initModel{
			choices: []string{
				"Upgrade — add new fields, keep existing values",
				"Overwrite — replace with fresh defaults",
				"Skip — do not modify config",
			},
		}
		p := tea.NewProgram(m)
		final, err := p.Run()
		if err != nil {
			fmt.Println("  " + ErrStyle.Render("Error: "+err.Error()))
			os.Exit(1)
		}
		fm := final.(initModel)

		fmt.Println()
		switch fm.choice {
		case choiceUpgrade:
			if _, err := config.Upgrade(); err != nil {
				fmt.Println("  " + ErrStyle.Render("Error: "+err.Error()))
				os.Exit(1)
			}
			fmt.Println("  " + OkStyle.Render("✓") + " Upgraded config")
		case choiceOverwrite:
			if err := config.Save(config.DefaultConfig()); err != nil {
				fmt.Println("  " + ErrStyle.Render("Error: "+err.Error()))
				os.Exit(1)
			}
			fmt.Println("  " + OkStyle.Render("✓") + " Overwritten config")
		default:
			fmt.Println("  " + DimStyle.Render("Config unchanged"))
		}
	} else {
		if err := config.Save(config.DefaultConfig()); err != nil {
			fmt.Println("  " + ErrStyle.Render("Error: "+err.Error()))
			os.Exit(1)
		}
		fmt.Println()
		fmt.Println("  " + OkStyle.Render("✓") + " Created config at " + DimStyle.Render(cfgPath))
	}

	fmt.Println()
	fmt.Println(OkStyle.Render("  wintask is ready!"))
	fmt.Println()
	fmt.Println(DimStyle.Render("  Next steps:"))
	fmt.Println(DimStyle.Render("  1. Set defaults.python in " + cfgPath))
	fmt.Println(DimStyle.Render(`  2. Add a task: wintask add --name backup --script C:\jobs\backup.py --frequency Daily --at 03:00`))
	fmt.Println(DimStyle.Render("  3. Browse tasks: wintask browse"))
	fmt.Println()
}
