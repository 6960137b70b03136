package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/fixpq/internal/cli/output"
	"github.com/leapstack-labs/fixpq/internal/filter"
	"github.com/leapstack-labs/fixpq/internal/state"
)

// ErrMissingFile is returned when fix runs without --file.
var ErrMissingFile = errors.New("an input file is required (--file)")

// FixOptions holds options for the fix command.
type FixOptions struct {
	File   string
	Out    string
	DryRun bool
	Watch  bool
	Drop   []string
}

// FixOutput is the JSON/YAML form of a fix result.
type FixOutput struct {
	Input   string `json:"input" yaml:"input"`
	Output  string `json:"output" yaml:"output"`
	Lines   int    `json:"lines" yaml:"lines"`
	Dropped int    `json:"dropped" yaml:"dropped"`
	DryRun  bool   `json:"dry_run" yaml:"dry_run"`
}

// NewFixCommand creates the fix command.
func NewFixCommand() *cobra.Command {
	opts := &FixOptions{}

	cmd := &cobra.Command{
		Use:   "fix",
		Short: "Remove known-bad lines from a SQL dump",
		Long: `Copy a SQL dump line by line, dropping every line that exactly matches an
entry of the drop list (by default the "    AS integer" line emitted for
sequences by newer pg_dump versions).

The input is read completely before anything is written, so the output may
be the input file itself, which is the default.`,
		Example: `  # Fix a dump in place
  fixpq fix -f dump.sql

  # Write the result elsewhere
  fixpq fix -f dump.sql -o fixed.sql

  # Show what would be dropped
  fixpq fix -f dump.sql --dry-run -v

  # Drop custom lines and keep fixing on every change
  fixpq fix -f dump.sql --drop "    AS bigint" --watch`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.File == "" {
				_ = cmd.Help()
				return ErrMissingFile
			}
			return runFix(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "Input SQL dump")
	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "Output file (default: the input file)")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Report dropped lines without writing")
	cmd.Flags().BoolVar(&opts.Watch, "watch", false, "Fix again whenever the input changes")
	cmd.Flags().StringArrayVar(&opts.Drop, "drop", nil, "Line to drop (repeatable, replaces the configured list)")

	return cmd
}

func runFix(cmd *cobra.Command, opts *FixOptions) error {
	cc, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	drop := cc.Cfg.DropLines
	if cmd.Flags().Changed("drop") {
		drop = opts.Drop
	}
	f := filter.New(drop, cc.Logger)

	out := opts.Out
	if out == "" {
		out = opts.File
	}

	ctx := cmd.Context()
	if err := fixOnce(ctx, cc, f, opts.File, out, opts.DryRun); err != nil {
		return err
	}
	if !opts.Watch {
		return nil
	}

	ctx, stop := notifyContext(ctx)
	defer stop()
	cc.Renderer.Muted(fmt.Sprintf("Watching %s (Ctrl+C to stop)", opts.File))
	return watchFile(ctx, opts.File, cc.Logger, func() error {
		return fixOnce(ctx, cc, f, opts.File, out, opts.DryRun)
	})
}

func fixOnce(ctx context.Context, cc *CommandContext, f *filter.Filter, in, out string, dry bool) error {
	finish := cc.StartRun(ctx, "fix", in)
	stats, err := f.FixFile(ctx, in, out, dry)
	result := state.RunResult{Output: out, Dropped: stats.Dropped, Err: err}
	if dry {
		result.Output = ""
	}
	finish(result)
	if err != nil {
		return err
	}

	r := cc.Renderer
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(fixOutput(in, out, dry, stats))
	case output.ModeYAML:
		return r.YAML(fixOutput(in, out, dry, stats))
	}

	r.KeyValue("input", in)
	if dry {
		r.KeyValue("output", "(dry run, nothing written)")
	} else {
		r.KeyValue("output", out)
	}
	r.Muted(fmt.Sprintf("%d of %d lines dropped", stats.Dropped, stats.Lines))
	return nil
}

func fixOutput(in, out string, dry bool, stats filter.Stats) FixOutput {
	return FixOutput{Input: in, Output: out, Lines: stats.Lines, Dropped: stats.Dropped, DryRun: dry}
}
