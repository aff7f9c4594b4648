package config

import "path/filepath"

// Config is the root configuration for wintask.
type Config struct {
	PowerShell PowerShellConfig `yaml:"powershell"`
	Defaults   DefaultsConfig   `yaml:"defaults"`
	Logging    LoggingConfig    `yaml:"logging"`
	Browse     BrowseConfig     `yaml:"browse"`
}

// PowerShellConfig selects the PowerShell binary and bounds each call.
type PowerShellConfig struct {
	Path    string   `yaml:"path"`    // binary name or full path
	Timeout Duration `yaml:"timeout"` // per-command limit, e.g. "60s"
}

// DefaultsConfig fills descriptor fields the command line omits.
type DefaultsConfig struct {
	Python      string `yaml:"python"`      // interpreter used when --python is not given
	Description string `yaml:"description"` // description for new tasks
}

// LoggingConfig mirrors the logging package's sink selection.
type LoggingConfig struct {
	Level   string        `yaml:"level"`
	Console bool          `yaml:"console"`
	File    LogFileConfig `yaml:"file"`
}

// LogFileConfig controls the JSON log file. An empty path falls back to
// wintask.log in the data directory.
type LogFileConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// BrowseConfig holds interactive browser settings.
type BrowseConfig struct {
	PythonOnly bool `yaml:"pythonOnly"` // start with the Python filter on
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		PowerShell: PowerShellConfig{
			Path:    "powershell.exe",
			Timeout: Seconds(60),
		},
		Defaults: DefaultsConfig{
			Description: "Scheduled Python script",
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  LogFileConfig{Enabled: true},
		},
		Browse: BrowseConfig{
			PythonOnly: true,
		},
	}
}

// LogFilePath returns the configured log file path, expanded, with the
// default under the data directory.
func (c *Config) LogFilePath() string {
	if c.Logging.File.Path != "" {
		return expandHome(c.Logging.File.Path)
	}
	return filepath.Join(DataDir(), "wintask.log")
}

// PythonPath returns the expanded default interpreter path, empty when
// unset.
func (c *Config) PythonPath() string {
	return expandHome(c.Defaults.Python)
}

func expandHome(path string) string {
	if len(path) > 1 && path[:2] == "~/" {
		return filepath.Join(homeDir(), path[2:])
	}
	return path
}
