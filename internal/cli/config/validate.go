package config

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/fixpq/pkg/parser"
)

var validFormats = map[string]bool{
	"auto":     true,
	"text":     true,
	"json":     true,
	"yaml":     true,
	"markdown": true,
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if !validFormats[strings.ToLower(c.OutputFormat)] {
		return fmt.Errorf("invalid format %q (expected auto, text, json, yaml or markdown)", c.OutputFormat)
	}
	if _, err := parser.LookupEncoding(c.Encoding); err != nil {
		return err
	}
	if c.MaxTextLen < 0 {
		return fmt.Errorf("max_text_len must not be negative, got %d", c.MaxTextLen)
	}
	if c.Jobs < 1 {
		return fmt.Errorf("jobs must be at least 1, got %d", c.Jobs)
	}
	if c.History.Enabled && c.History.Path == "" {
		return fmt.Errorf("history.path is required when history is enabled")
	}
	return nil
}
