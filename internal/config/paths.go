package config

import (
	"os"
	"path/filepath"
)

// Dir returns the configuration directory path (~/.config/todosearch).
// It can be overridden with the TODOSEARCH_CONFIG_DIR environment variable.
func Dir() string {
	if d := os.Getenv("TODOSEARCH_CONFIG_DIR"); d != "" {
		return d
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "todosearch")
	}
	return filepath.Join(home, ".config", "todosearch")
}

// ConfigFile returns the path to the config.yaml file.
func ConfigFile() string {
	return filepath.Join(Dir(), "config.yaml")
}

// LogFile returns the default log file path used when logging is
// enabled without an explicit file.
func LogFile() string {
	return filepath.Join(Dir(), "todosearch.log")
}
