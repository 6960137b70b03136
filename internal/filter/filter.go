// Package filter removes lines from a SQL dump that an older server cannot
// load. Matching is on whole lines, without the line terminator.
package filter

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// DefaultDropLines lists the lines removed when no drop list is configured.
// PostgreSQL 9.6 rejects the "AS integer" clause newer pg_dump versions emit
// for sequences.
var DefaultDropLines = []string{"    AS integer"}

// Stats summarizes one filter pass.
type Stats struct {
	Lines   int
	Dropped int
}

// Filter copies lines, skipping the ones listed in Drop.
type Filter struct {
	Drop   []string
	Logger *slog.Logger
}

// New creates a Filter. An empty drop list selects DefaultDropLines.
func New(drop []string, logger *slog.Logger) *Filter {
	if len(drop) == 0 {
		drop = DefaultDropLines
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Filter{Drop: drop, Logger: logger}
}

func (f *Filter) logger() *slog.Logger {
	if f.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return f.Logger
}

func (f *Filter) drops(line string) bool {
	content := strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
	for _, d := range f.Drop {
		if content == d {
			return true
		}
	}
	return false
}

// Apply copies r to w line by line, leaving out dropped lines. Kept lines are
// written unchanged, terminators included. A nil w counts without writing.
func (f *Filter) Apply(ctx context.Context, r io.Reader, w io.Writer) (Stats, error) {
	var stats Stats
	br := bufio.NewReader(r)
	logger := f.logger()

	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		line, err := br.ReadString('\n')
		if line != "" {
			stats.Lines++
			if f.drops(line) {
				stats.Dropped++
				logger.Info("dropping line",
					slog.Int("line", stats.Lines),
					slog.String("text", strings.TrimRight(line, "\r\n")))
			} else if w != nil {
				if _, werr := io.WriteString(w, line); werr != nil {
					return stats, fmt.Errorf("failed to write line %d: %w", stats.Lines, werr)
				}
			}
		}
		if errors.Is(err, io.EOF) {
			return stats, nil
		}
		if err != nil {
			return stats, fmt.Errorf("failed to read line %d: %w", stats.Lines+1, err)
		}
	}
}

// FixFile filters the file at in and writes the result to out. The input is
// fully read before out is opened, so in and out may name the same file.
// With dry set nothing is written.
func (f *Filter) FixFile(ctx context.Context, in, out string, dry bool) (Stats, error) {
	data, err := os.ReadFile(in) //nolint:gosec // path comes from the user
	if err != nil {
		return Stats{}, fmt.Errorf("file not found: %s: %w", in, err)
	}

	if dry {
		return f.Apply(ctx, bytes.NewReader(data), nil)
	}

	var buf bytes.Buffer
	stats, err := f.Apply(ctx, bytes.NewReader(data), &buf)
	if err != nil {
		return stats, err
	}

	if out == "" {
		out = in
	}
	if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil { //nolint:gosec // dump files are not secret
		return stats, fmt.Errorf("cannot open file to write: %s: %w", out, err)
	}

	f.logger().Debug("fixed file",
		slog.String("input", in),
		slog.String("output", out),
		slog.Int("lines", stats.Lines),
		slog.Int("dropped", stats.Dropped))
	return stats, nil
}
