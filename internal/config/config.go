package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/stefanclaw/todosearch/internal/source"
)

// Config holds the application configuration.
type Config struct {
	Source SourceConfig `yaml:"source"`
	Search SearchConfig `yaml:"search"`
	TUI    TUIConfig    `yaml:"tui"`
	Log    LogConfig    `yaml:"log"`
}

// SourceConfig describes the remote record endpoint.
type SourceConfig struct {
	Endpoint string `yaml:"endpoint"`
	Timeout  string `yaml:"timeout"` // e.g., "30s"
}

// SearchConfig holds query input settings.
type SearchConfig struct {
	Delay     string `yaml:"delay"` // debounce quiet period, e.g., "500ms"
	CharLimit int    `yaml:"char_limit"`
}

// TUIConfig holds TUI settings.
type TUIConfig struct {
	Theme    string `yaml:"theme"` // auto, dark or light
	WordWrap int    `yaml:"word_wrap"`
}

// LogConfig holds logging settings. An empty File disables logging.
type LogConfig struct {
	File  string `yaml:"file"`
	Level string `yaml:"level"`
}

// Defaults returns a Config with sensible defaults.
func Defaults() Config {
	return Config{
		Source: SourceConfig{
			Endpoint: source.DefaultEndpoint,
			Timeout:  "30s",
		},
		Search: SearchConfig{
			Delay:     "500ms",
			CharLimit: 200,
		},
		TUI: TUIConfig{
			Theme:    "auto",
			WordWrap: 80,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads the config from disk. If the file doesn't exist, returns defaults.
func Load() (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(ConfigFile())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Defaults(), fmt.Errorf("parsing %s: %w", ConfigFile(), err)
	}

	if _, err := cfg.SearchDelay(); err != nil {
		return Defaults(), err
	}
	if _, err := cfg.SourceTimeout(); err != nil {
		return Defaults(), err
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	if err := os.MkdirAll(Dir(), 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(ConfigFile(), data, 0o644)
}

// IsFirstRun returns true if no config file has been written yet.
func IsFirstRun() bool {
	_, err := os.Stat(ConfigFile())
	return os.IsNotExist(err)
}

// SearchDelay parses the debounce delay. An empty value means no delay.
func (c Config) SearchDelay() (time.Duration, error) {
	if c.Search.Delay == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Search.Delay)
	if err != nil {
		return 0, fmt.Errorf("invalid search.delay %q: %w", c.Search.Delay, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid search.delay %q: must not be negative", c.Search.Delay)
	}
	return d, nil
}

// SourceTimeout parses the HTTP timeout. An empty value means the client default.
func (c Config) SourceTimeout() (time.Duration, error) {
	if c.Source.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Source.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid source.timeout %q: %w", c.Source.Timeout, err)
	}
	return d, nil
}

// LogPath resolves the log file setting. "default" selects LogFile();
// an empty setting disables logging.
func (c Config) LogPath() string {
	switch c.Log.File {
	case "":
		return ""
	case "default":
		return LogFile()
	default:
		return c.Log.File
	}
}
