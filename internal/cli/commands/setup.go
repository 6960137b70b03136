package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/fixpq/internal/cli/config"
	"github.com/leapstack-labs/fixpq/internal/cli/output"
	"github.com/leapstack-labs/fixpq/internal/state"
	"github.com/leapstack-labs/fixpq/pkg/parser"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
	// Store is nil unless run history is enabled.
	Store state.Store
}

// NewCommandContext creates a CommandContext, opening the history store when
// it is enabled. The cleanup function must be called (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cc := NewCommandContextWithoutStore(cmd)
	if !cc.Cfg.History.Enabled {
		return cc, func() {}, nil
	}

	store, err := state.Open(cmd.Context(), cc.Cfg.History.Path, cc.Logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open history: %w", err)
	}
	cc.Store = store

	cleanup := func() {
		_ = store.Close()
	}
	return cc, cleanup, nil
}

// NewCommandContextWithoutStore creates a CommandContext without a history store.
func NewCommandContextWithoutStore(cmd *cobra.Command) *CommandContext {
	cfg := config.GetConfig(cmd.Context())
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat)),
	}
}

// ParseOptions returns the parser options derived from the configuration.
func (cc *CommandContext) ParseOptions() []parser.Option {
	return []parser.Option{
		parser.WithLogger(cc.Logger),
		parser.WithMaxTextLen(cc.Cfg.MaxTextLen),
	}
}

// StartRun records the start of a run and returns the function that
// completes it. Without a store both are no-ops. History failures are
// logged, not returned.
func (cc *CommandContext) StartRun(ctx context.Context, command, input string) func(state.RunResult) {
	if cc.Store == nil {
		return func(state.RunResult) {}
	}
	run, err := cc.Store.CreateRun(ctx, command, input)
	if err != nil {
		cc.Logger.Warn("failed to record run", "command", command, "input", input, "error", err)
		return func(state.RunResult) {}
	}
	return func(result state.RunResult) {
		if err := cc.Store.CompleteRun(context.WithoutCancel(ctx), run.ID, result); err != nil {
			cc.Logger.Warn("failed to complete run", "id", run.ID, "error", err)
		}
	}
}

// parseFailure formats a failed parse as file:line:col: message.
func parseFailure(file string, err error) error {
	var perr *parser.Error
	if errors.As(err, &perr) {
		return fmt.Errorf("%s:%d:%d: %s", file, perr.Pos.Line, perr.Pos.Column, perr.Message)
	}
	return fmt.Errorf("%s: %w", file, err)
}
