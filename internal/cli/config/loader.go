package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/leapstack-labs/fixpq/internal/filter"
)

// loggerKey is used to store logger in context.
type loggerKey struct{}

// configKey is used to store config in context.
type configKey struct{}

// maxUpwardSearchLevels limits how far up the directory tree to search for config files.
const maxUpwardSearchLevels = 10

var configNames = []string{"fixpq.yaml", "fixpq.yml"}

// Package-level koanf instance and config file tracking
var (
	k              = koanf.New(".")
	configFileUsed string
)

// flagKeys maps flag names whose config key is not the snake_case flag name.
var flagKeys = map[string]string{
	"state":   "history.path",
	"history": "history.enabled",
	"drop":    "drop_lines",
	"addr":    "server.addr",
	"output":  "", // fix --out is a path, not the output format
	"out":     "",
	"file":    "",
	"config":  "",
	"dry-run": "",
	"watch":   "",
	"limit":   "",
}

// nestedEnvPrefixes are the config sections reachable from the environment:
// FIXPQ_HISTORY_PATH -> history.path.
var nestedEnvPrefixes = []string{"history_", "server_"}

// findConfigFile finds the config file to use.
// Priority: explicit path > fixpq.yaml > fixpq.yml, searching upward from CWD.
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	dir := cwd
	for i := 0; i < maxUpwardSearchLevels; i++ {
		for _, name := range configNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		dir = parent
	}
	return ""
}

// resolvePathRelativeTo resolves a path relative to baseDir if it's not absolute.
// Returns the path unchanged if it's empty, already absolute or :memory:.
func resolvePathRelativeTo(path, baseDir string) string {
	if path == "" || path == ":memory:" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// envKey transforms FIXPQ_MAX_TEXT_LEN -> max_text_len and
// FIXPQ_HISTORY_ENABLED -> history.enabled.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	for _, prefix := range nestedEnvPrefixes {
		if strings.HasPrefix(key, prefix) {
			return strings.TrimSuffix(prefix, "_") + "." + strings.TrimPrefix(key, prefix)
		}
	}
	return key
}

// ResetConfig resets the koanf instance. Used for testing.
func ResetConfig() {
	k = koanf.New(".")
	configFileUsed = ""
}

// LoadConfig loads configuration from file, environment variables, and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	// Reset koanf for fresh load
	k = koanf.New(".")

	// 1. Load defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"encoding":        DefaultEncoding,
		"format":          DefaultOutput,
		"verbose":         false,
		"drop_lines":      filter.DefaultDropLines,
		"max_text_len":    0,
		"jobs":            DefaultJobs,
		"history.enabled": false,
		"history.path":    DefaultHistoryFile,
		"server.addr":     DefaultServerAddr,
		"server.max_body": DefaultMaxBody,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Find and load config file
	configFileUsed = findConfigFile(cfgFile)
	baseDir, _ := os.Getwd()
	if configFileUsed != "" {
		if err := k.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFileUsed, err)
		}
		if abs, err := filepath.Abs(configFileUsed); err == nil {
			baseDir = filepath.Dir(abs)
		}
	}

	// 3. Load environment variables (FIXPQ_ prefix)
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Load flags (highest priority - overrides env vars and config file)
	var flagHistoryPath string
	if flags != nil {
		if flags.Changed("state") {
			if v, _ := flags.GetString("state"); v != "" {
				flagHistoryPath, _ = filepath.Abs(v)
			}
		}

		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			// Only load flags that were explicitly set
			if !f.Changed {
				return "", nil
			}
			key, mapped := flagKeys[f.Name]
			if !mapped {
				// Transform kebab-case to snake_case for config keys
				key = strings.ReplaceAll(f.Name, "-", "_")
			}
			if key == "" {
				return "", nil
			}
			if f.Name == "drop" {
				// A repeatable string array; values may contain commas.
				v, _ := flags.GetStringArray("drop")
				return key, v
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// 6. Resolve the history path: flags relative to CWD, everything else
	// relative to the config file.
	if flagHistoryPath != "" {
		cfg.History.Path = flagHistoryPath
	} else {
		cfg.History.Path = resolvePathRelativeTo(cfg.History.Path, baseDir)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// GetConfigFileUsed returns the path to the config file being used, if any.
func GetConfigFileUsed() string {
	return configFileUsed
}

// LoggerKey returns the context key used for storing the logger.
// This allows the commands package to retrieve the logger from context
// without creating an import cycle with the cli package.
func LoggerKey() interface{} {
	return loggerKey{}
}

// WithLogger returns a copy of ctx carrying logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// WithConfig returns a copy of ctx carrying cfg.
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// GetConfig retrieves the config from the command context, or the defaults
// when none was loaded.
func GetConfig(ctx context.Context) *Config {
	if ctx != nil {
		if c, ok := ctx.Value(configKey{}).(*Config); ok {
			return c
		}
	}
	return Default()
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return slog.New(slog.DiscardHandler)
	}
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	// Return discard logger as safe fallback
	return slog.New(slog.DiscardHandler)
}
