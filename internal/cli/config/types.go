// Package config provides configuration management for the fixpq CLI.
package config

import "github.com/leapstack-labs/fixpq/internal/filter"

// HistoryConfig controls the run history store.
type HistoryConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"`
}

// ServerConfig holds configuration for the API server.
type ServerConfig struct {
	Addr    string `koanf:"addr"`
	MaxBody int64  `koanf:"max_body"`
}

// Config holds all CLI configuration options.
type Config struct {
	Encoding     string        `koanf:"encoding"`
	OutputFormat string        `koanf:"format"`
	Verbose      bool          `koanf:"verbose"`
	DropLines    []string      `koanf:"drop_lines"`
	MaxTextLen   int           `koanf:"max_text_len"`
	Jobs         int           `koanf:"jobs"`
	History      HistoryConfig `koanf:"history"`
	Server       ServerConfig  `koanf:"server"`
}

// Default configuration values
const (
	DefaultEncoding    = "utf-8"
	DefaultOutput      = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultHistoryFile = ".fixpq/history.db"
	DefaultServerAddr  = "127.0.0.1:8080"
	DefaultMaxBody     = 8 << 20
	DefaultJobs        = 4

	// EnvPrefix prefixes every environment variable read as configuration.
	EnvPrefix = "FIXPQ_"
)

// Default returns a Config populated with default values.
func Default() *Config {
	return &Config{
		Encoding:     DefaultEncoding,
		OutputFormat: DefaultOutput,
		DropLines:    append([]string(nil), filter.DefaultDropLines...),
		Jobs:         DefaultJobs,
		History:      HistoryConfig{Path: DefaultHistoryFile},
		Server:       ServerConfig{Addr: DefaultServerAddr, MaxBody: DefaultMaxBody},
	}
}
