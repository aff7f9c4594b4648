package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigPath returns the default config file path.
func ConfigPath() string {
	return filepath.Join(homeDir(), ".wintask", "config.yaml")
}

// DataDir returns the wintask data directory, creating it if needed.
func DataDir() string {
	dir := filepath.Join(homeDir(), ".wintask")
	os.MkdirAll(dir, 0o755)
	return dir
}

// Load reads configuration from the default path, falling back to defaults.
func Load() (*Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads configuration from a specific path. A missing file yields
// the defaults; file values overlay them, so omitted keys keep their
// default and explicit values win.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	// Keys set to empty fall back rather than disabling the tool.
	if cfg.PowerShell.Path == "" {
		cfg.PowerShell.Path = "powershell.exe"
	}
	if cfg.PowerShell.Timeout <= 0 {
		cfg.PowerShell.Timeout = Seconds(60)
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	if unknown := unknownKeys(data); len(unknown) > 0 {
		return cfg, fmt.Errorf("unknown config keys: %v", unknown)
	}
	return cfg, nil
}

// Save writes configuration to the default path.
func Save(cfg *Config) error {
	return SaveTo(cfg, ConfigPath())
}

// SaveTo writes configuration to a specific path.
func SaveTo(cfg *Config, path string) error {
	os.MkdirAll(filepath.Dir(path), 0o755)

	out, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0o644)
}

// Upgrade reads the existing config file, deep-merges it on top of the
// defaults (local values win), and saves the result. Fields added since the
// file was written appear with their defaults; user values are preserved.
func Upgrade() (*Config, error) {
	return UpgradeAt(ConfigPath())
}

// UpgradeAt is Upgrade against a specific path.
func UpgradeAt(path string) (*Config, error) {
	defaultData, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return nil, err
	}
	var defaultMap map[string]any
	yaml.Unmarshal(defaultData, &defaultMap)

	localData, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var localMap map[string]any
	if err := yaml.Unmarshal(localData, &localMap); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	merged := deepMerge(defaultMap, localMap)

	// Round-trip through the struct to normalize types and defaults.
	cfg := DefaultConfig()
	reData, _ := yaml.Marshal(merged)
	if err := yaml.Unmarshal(reData, cfg); err != nil {
		return nil, fmt.Errorf("apply merged config: %w", err)
	}

	if err := SaveTo(cfg, path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// deepMerge recursively merges src into dst. Values from src take priority;
// nested maps merge key by key.
func deepMerge(dst, src map[string]any) map[string]any {
	result := make(map[string]any, len(dst))
	for k, v := range dst {
		result[k] = v
	}
	for k, srcVal := range src {
		dstVal, exists := result[k]
		if !exists {
			result[k] = srcVal
			continue
		}
		dstMap, dstOK := dstVal.(map[string]any)
		srcMap, srcOK := srcVal.(map[string]any)
		if dstOK && srcOK {
			result[k] = deepMerge(dstMap, srcMap)
		} else {
			result[k] = srcVal
		}
	}
	return result
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
