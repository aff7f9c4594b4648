package cli

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"wintask/internal/config"
)

// RunStatus displays the current configuration status with styled output.
func RunStatus(cfg *config.Config) {
	cfgPath := config.ConfigPath()

	fmt.Println()
	fmt.Println(TitleStyle.Render(fmt.Sprintf("  %s wintask Status", Logo)))
	fmt.Println()

	fmt.Printf("  %-12s %s  %s\n", "Config", StatusBadge(fileExists(cfgPath)), DimStyle.Render(cfgPath))

	_, lookErr := exec.LookPath(cfg.PowerShell.Path)
	fmt.Printf("  %-12s %s  %s\n", "PowerShell", StatusBadge(lookErr == nil), DimStyle.Render(cfg.PowerShell.Path))
	fmt.Printf("  %-12s %s\n", "Timeout", cfg.PowerShell.Timeout)

	fmt.Printf("  %-12s %s  %s\n", "Log file", StatusBadge(cfg.Logging.File.Enabled), DimStyle.Render(cfg.LogFilePath()))
	fmt.Println()

	fmt.Println("  " + BoldStyle.Render("Defaults"))
	python := cfg.PythonPath()
	if python == "" {
		fmt.Printf("    %s  Python %s\n", StatusBadge(false), DimStyle.Render("(not set, pass --python)"))
	} else {
		fmt.Printf("    %s  Python %s\n", StatusBadge(fileExists(python)), DimStyle.Render(python))
	}
	fmt.Printf("    %s  Description %s\n", StatusBadge(cfg.Defaults.Description != ""), DimStyle.Render(cfg.Defaults.Description))
	fmt.Println()

	if runtime.GOOS != "windows" {
		fmt.Println("  " + WarnStyle.Render("Scheduler commands need Windows; only preview and init work here."))
		fmt.Println()
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
