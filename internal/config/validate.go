package config

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

var logLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true, "error": true,
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if errs := c.validate(); len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

func (c *Config) validate() []string {
	var errs []string

	if c.PowerShell.Timeout < 0 {
		errs = append(errs, "powershell.timeout must not be negative")
	}
	if c.Logging.Level != "" && !logLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("logging.level %q is not one of trace, debug, info, warn, error", c.Logging.Level))
	}

	return errs
}

// unknownKeys returns the paths of raw config keys that do not correspond
// to known Config fields. Typos surface as errors instead of silently
// keeping a default.
func unknownKeys(data []byte) []string {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil
	}
	result := checkUnknownKeys(raw, reflect.TypeOf(Config{}), "")
	sort.Strings(result)
	return result
}

func checkUnknownKeys(data map[string]any, t reflect.Type, prefix string) []string {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}

	known := yamlFieldMap(t)
	var unknown []string
	for key, val := range data {
		ft, ok := known[key]
		if !ok {
			unknown = append(unknown, joinPath(prefix, key))
			continue
		}
		if nested, ok := val.(map[string]any); ok {
			unknown = append(unknown, checkUnknownKeys(nested, ft, joinPath(prefix, key))...)
		}
	}
	return unknown
}

func yamlFieldMap(t reflect.Type) map[string]reflect.Type {
	m := make(map[string]reflect.Type, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := f.Tag.Get("yaml")
		if tag == "" || tag == "-" {
			continue
		}
		name := strings.Split(tag, ",")[0]
		if name != "" {
			m[name] = f.Type
		}
	}
	return m
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
