package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/fixpq/internal/filter"
)

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		return Config{
			Encoding:     DefaultEncoding,
			OutputFormat: DefaultOutput,
			Jobs:         DefaultJobs,
			History:      HistoryConfig{Path: DefaultHistoryFile},
		}
	}

	tests := []struct {
		name      string
		mutate    func(*Config)
		errSubstr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "yaml format", mutate: func(c *Config) { c.OutputFormat = "yaml" }},
		{name: "format is case-insensitive", mutate: func(c *Config) { c.OutputFormat = "JSON" }},
		{name: "latin1 encoding", mutate: func(c *Config) { c.Encoding = "latin1" }},
		{
			name:      "unknown format",
			mutate:    func(c *Config) { c.OutputFormat = "xml" },
			errSubstr: "invalid format",
		},
		{
			name:      "unknown encoding",
			mutate:    func(c *Config) { c.Encoding = "ebcdic-9000" },
			errSubstr: "unsupported encoding",
		},
		{
			name:      "negative text budget",
			mutate:    func(c *Config) { c.MaxTextLen = -1 },
			errSubstr: "max_text_len",
		},
		{
			name:      "zero jobs",
			mutate:    func(c *Config) { c.Jobs = 0 },
			errSubstr: "jobs must be at least 1",
		},
		{
			name: "history enabled without path",
			mutate: func(c *Config) {
				c.History.Enabled = true
				c.History.Path = ""
			},
			errSubstr: "history.path is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.errSubstr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

// newFlagSet mirrors the persistent and command flags the CLI registers.
func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("config", "", "")
	fs.String("format", "", "")
	fs.String("encoding", "", "")
	fs.BoolP("verbose", "v", false, "")
	fs.Bool("history", false, "")
	fs.String("state", "", "")
	fs.Int("max-text-len", 0, "")
	fs.Int("jobs", 0, "")
	fs.StringArray("drop", nil, "")
	fs.String("addr", "", "")
	fs.StringP("file", "f", "", "")
	fs.StringP("out", "o", "", "")
	return fs
}

func chdirTemp(t *testing.T) string {
	t.Helper()
	ResetConfig()
	dir := t.TempDir()
	t.Chdir(dir)
	cwd, err := os.Getwd()
	require.NoError(t, err)
	return cwd
}

func TestLoadConfig_Defaults(t *testing.T) {
	cwd := chdirTemp(t)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultEncoding, cfg.Encoding)
	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.False(t, cfg.Verbose)
	assert.Equal(t, filter.DefaultDropLines, cfg.DropLines)
	assert.Zero(t, cfg.MaxTextLen)
	assert.Equal(t, DefaultJobs, cfg.Jobs)
	assert.False(t, cfg.History.Enabled)
	assert.Equal(t, filepath.Join(cwd, DefaultHistoryFile), cfg.History.Path)
	assert.Equal(t, DefaultServerAddr, cfg.Server.Addr)
	assert.Equal(t, int64(DefaultMaxBody), cfg.Server.MaxBody)
	assert.Empty(t, GetConfigFileUsed())
}

func TestLoadConfig_File(t *testing.T) {
	cwd := chdirTemp(t)

	content := `encoding: latin1
format: json
drop_lines:
  - "    AS integer"
  - "    AS bigint"
max_text_len: 4096
history:
  enabled: true
  path: state/runs.db
server:
  addr: ":9090"
`
	require.NoError(t, os.WriteFile("fixpq.yaml", []byte(content), 0o600))

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(cwd, "fixpq.yaml"), GetConfigFileUsed())
	assert.Equal(t, "latin1", cfg.Encoding)
	assert.Equal(t, "json", cfg.OutputFormat)
	assert.Equal(t, []string{"    AS integer", "    AS bigint"}, cfg.DropLines)
	assert.Equal(t, 4096, cfg.MaxTextLen)
	assert.True(t, cfg.History.Enabled)
	assert.Equal(t, filepath.Join(cwd, "state", "runs.db"), cfg.History.Path)
	assert.Equal(t, ":9090", cfg.Server.Addr)
}

func TestLoadConfig_FoundInParent(t *testing.T) {
	cwd := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(cwd, "fixpq.yml"), []byte("jobs: 2\n"), 0o600))

	sub := filepath.Join(cwd, "a", "b")
	require.NoError(t, os.MkdirAll(sub, 0o750))
	t.Chdir(sub)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Jobs)
	assert.Equal(t, filepath.Join(cwd, "fixpq.yml"), GetConfigFileUsed())
	// Relative paths resolve against the config file, not the working directory.
	assert.Equal(t, filepath.Join(cwd, DefaultHistoryFile), cfg.History.Path)
}

func TestLoadConfig_ExplicitFileMissing(t *testing.T) {
	chdirTemp(t)

	_, err := LoadConfig("does-not-exist.yaml", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoadConfig_InvalidValue(t *testing.T) {
	chdirTemp(t)
	require.NoError(t, os.WriteFile("fixpq.yaml", []byte("format: xml\n"), 0o600))

	_, err := LoadConfig("", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestLoadConfig_Env(t *testing.T) {
	chdirTemp(t)
	require.NoError(t, os.WriteFile("fixpq.yaml", []byte("format: json\nmax_text_len: 10\n"), 0o600))

	t.Setenv("FIXPQ_FORMAT", "yaml")
	t.Setenv("FIXPQ_MAX_TEXT_LEN", "64")
	t.Setenv("FIXPQ_HISTORY_ENABLED", "true")
	t.Setenv("FIXPQ_SERVER_ADDR", "0.0.0.0:7000")

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, "yaml", cfg.OutputFormat)
	assert.Equal(t, 64, cfg.MaxTextLen)
	assert.True(t, cfg.History.Enabled)
	assert.Equal(t, "0.0.0.0:7000", cfg.Server.Addr)
}

func TestLoadConfig_FlagsWin(t *testing.T) {
	cwd := chdirTemp(t)
	require.NoError(t, os.WriteFile("fixpq.yaml", []byte("format: json\njobs: 2\n"), 0o600))
	t.Setenv("FIXPQ_FORMAT", "yaml")

	fs := newFlagSet()
	require.NoError(t, fs.Parse([]string{
		"--format", "markdown",
		"--max-text-len", "32",
		"--history",
		"--state", "runs.db",
		"--drop", "-- a, b",
		"--drop", "    AS integer",
		"--addr", ":1234",
		"-f", "dump.sql",
		"-o", "fixed.sql",
		"-v",
	}))

	cfg, err := LoadConfig("", fs)
	require.NoError(t, err)
	assert.Equal(t, "markdown", cfg.OutputFormat)
	assert.Equal(t, 32, cfg.MaxTextLen)
	assert.Equal(t, 2, cfg.Jobs, "unchanged flags must not override the file")
	assert.True(t, cfg.Verbose)
	assert.True(t, cfg.History.Enabled)
	assert.Equal(t, filepath.Join(cwd, "runs.db"), cfg.History.Path)
	assert.Equal(t, []string{"-- a, b", "    AS integer"}, cfg.DropLines)
	assert.Equal(t, ":1234", cfg.Server.Addr)
	assert.Equal(t, DefaultEncoding, cfg.Encoding)
}

func TestEnvKey(t *testing.T) {
	tests := map[string]string{
		"FIXPQ_FORMAT":          "format",
		"FIXPQ_MAX_TEXT_LEN":    "max_text_len",
		"FIXPQ_HISTORY_ENABLED": "history.enabled",
		"FIXPQ_HISTORY_PATH":    "history.path",
		"FIXPQ_SERVER_MAX_BODY": "server.max_body",
	}
	for in, want := range tests {
		assert.Equal(t, want, envKey(in), in)
	}
}

func TestResolvePathRelativeTo(t *testing.T) {
	assert.Equal(t, "", resolvePathRelativeTo("", "/base"))
	assert.Equal(t, ":memory:", resolvePathRelativeTo(":memory:", "/base"))
	assert.Equal(t, "/abs/x.db", resolvePathRelativeTo("/abs/x.db", "/base"))
	assert.Equal(t, filepath.Join("/base", "x.db"), resolvePathRelativeTo("x.db", "/base"))
}

func TestGetLogger(t *testing.T) {
	//nolint:staticcheck // nil context is the case under test
	assert.NotNil(t, GetLogger(nil))
	assert.NotNil(t, GetLogger(context.Background()))

	logger := slog.New(slog.DiscardHandler)
	ctx := WithLogger(context.Background(), logger)
	assert.Same(t, logger, GetLogger(ctx))
	assert.Equal(t, logger, ctx.Value(LoggerKey()))
}

func TestGetConfig(t *testing.T) {
	assert.Equal(t, Default(), GetConfig(context.Background()))

	cfg := &Config{Encoding: "latin1"}
	assert.Same(t, cfg, GetConfig(WithConfig(context.Background(), cfg)))
}

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}
