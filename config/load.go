package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	nerrors "github.com/sambeau/nanoui/pkg/nanoui/errors"
)

// Load reads configuration from a file with ENV interpolation.
// If configPath is empty, it searches default locations; finding nothing
// there is not an error and yields Defaults().
func Load(configPath string, getenv func(string) string) (*Config, error) {
	cfg, _, err := LoadWithPath(configPath, getenv)
	return cfg, err
}

// LoadWithPath reads configuration and returns both the config and the
// resolved path. The path is empty when defaults were used.
func LoadWithPath(configPath string, getenv func(string) string) (*Config, string, error) {
	path, err := resolveConfigPath(configPath, getenv)
	if err != nil {
		return nil, "", err
	}
	if path == "" {
		cfg := Defaults()
		if wd, err := os.Getwd(); err == nil {
			cfg.BaseDir = wd
		}
		return cfg, "", nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to resolve config path: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read config: %w", err)
	}

	cfg, err := Parse(data, getenv)
	if err != nil {
		var nerr *nerrors.NanoError
		if errors.As(err, &nerr) {
			return nil, "", nerr.WithFile(absPath)
		}
		return nil, "", err
	}
	cfg.BaseDir = filepath.Dir(absPath)

	if h := cfg.REPL.HistoryFile; h != "" && !strings.HasPrefix(h, "~") && !filepath.IsAbs(h) {
		cfg.REPL.HistoryFile = filepath.Join(cfg.BaseDir, h)
	}
	if o := cfg.Logging.Output; o != "" && o != "stderr" && o != "stdout" && !filepath.IsAbs(o) {
		cfg.Logging.Output = filepath.Join(cfg.BaseDir, o)
	}

	return cfg, absPath, nil
}

// Parse decodes YAML configuration over Defaults() and validates it.
func Parse(data []byte, getenv func(string) string) (*Config, error) {
	data = interpolateEnv(data, getenv)

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, nerrors.Wrap("CFG-0002", err, nil)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolveConfigPath finds the config file to use.
// Search order: explicit path > NANOUI_CONFIG env > ./nanoui.yaml > ~/.config/nanoui/nanoui.yaml
func resolveConfigPath(explicit string, getenv func(string) string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", nerrors.New("CFG-0001", map[string]any{"Path": explicit})
		}
		return explicit, nil
	}

	if envPath := getenv("NANOUI_CONFIG"); envPath != "" {
		if _, err := os.Stat(envPath); err != nil {
			return "", nerrors.New("CFG-0001", map[string]any{"Path": envPath})
		}
		return envPath, nil
	}

	if _, err := os.Stat("nanoui.yaml"); err == nil {
		return "nanoui.yaml", nil
	}

	home, err := os.UserHomeDir()
	if err == nil {
		xdgPath := filepath.Join(home, ".config", "nanoui", "nanoui.yaml")
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath, nil
		}
	}

	return "", nil
}

// envPattern matches ${VAR} or ${VAR:-default}
var envPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// interpolateEnv replaces ${VAR} and ${VAR:-default} patterns with environment values.
func interpolateEnv(data []byte, getenv func(string) string) []byte {
	return envPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		parts := envPattern.FindSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		varName := string(parts[1])
		value := getenv(varName)

		if value == "" && len(parts) >= 3 && len(parts[2]) > 0 {
			value = string(parts[2])
		}

		return []byte(value)
	})
}

// Validate checks the configuration and reports every problem at once.
func Validate(cfg *Config) error {
	var errs []string

	if _, err := language.Parse(cfg.Locale); err != nil {
		errs = append(errs, fmt.Sprintf("invalid locale: %q", cfg.Locale))
	}
	if _, err := cfg.Location(); err != nil {
		errs = append(errs, fmt.Sprintf("invalid timezone: %q", cfg.Timezone))
	}

	switch strings.ToLower(cfg.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("invalid logging.level: %q (must be debug, info, warn or error)", cfg.Logging.Level))
	}
	switch strings.ToLower(cfg.Logging.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Sprintf("invalid logging.format: %q (must be text or json)", cfg.Logging.Format))
	}

	switch strings.ToLower(cfg.Render.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Sprintf("invalid render.format: %q (must be text or json)", cfg.Render.Format))
	}
	if cfg.Render.Indent < 0 || cfg.Render.Indent > 8 {
		errs = append(errs, fmt.Sprintf("invalid render.indent: %d (must be 0-8)", cfg.Render.Indent))
	}

	if cfg.Watch.Debounce < 0 {
		errs = append(errs, fmt.Sprintf("invalid watch.debounce: %s (must not be negative)", cfg.Watch.Debounce))
	}

	if len(errs) > 0 {
		return nerrors.New("CFG-0003", map[string]any{"Reasons": strings.Join(errs, "\n  - ")})
	}
	return nil
}
