package config

import "time"

// Config represents the complete NanoUI configuration
type Config struct {
	BaseDir  string        `yaml:"-"`        // Directory containing config file, for resolving relative paths
	Locale   string        `yaml:"locale"`   // BCP 47 tag used for formatting, e.g. "en-GB"
	Timezone string        `yaml:"timezone"` // IANA zone for built-in time variables, or "Local"
	Logging  LoggingConfig `yaml:"logging"`
	REPL     REPLConfig    `yaml:"repl"`
	Watch    WatchConfig   `yaml:"watch"`
	Render   RenderConfig  `yaml:"render"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json or text
	Output string `yaml:"output"` // stderr, stdout, or file path
}

// REPLConfig holds interactive shell settings
type REPLConfig struct {
	HistoryFile string `yaml:"history_file"` // default: ~/.nanoui_history
	Prompt      string `yaml:"prompt"`
}

// WatchConfig holds settings for render -watch
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"` // quiet period before re-rendering (default: 100ms)
}

// RenderConfig holds output settings for the render command
type RenderConfig struct {
	Format string `yaml:"format"` // text or json
	Indent int    `yaml:"indent"` // JSON indent width
}

// Defaults returns a Config with sensible defaults
func Defaults() *Config {
	return &Config{
		Locale:   "en-US",
		Timezone: "Local",
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
			Output: "stderr",
		},
		REPL: REPLConfig{
			Prompt: "nanoui> ",
		},
		Watch: WatchConfig{
			Debounce: 100 * time.Millisecond,
		},
		Render: RenderConfig{
			Format: "text",
			Indent: 2,
		},
	}
}

// Location returns the configured time zone.
func (c *Config) Location() (*time.Location, error) {
	switch c.Timezone {
	case "", "Local", "local":
		return time.Local, nil
	case "UTC", "utc":
		return time.UTC, nil
	}
	return time.LoadLocation(c.Timezone)
}
