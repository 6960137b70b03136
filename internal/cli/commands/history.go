package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/fixpq/internal/cli/output"
	"github.com/leapstack-labs/fixpq/internal/state"
)

// RunOutput is the JSON/YAML form of a recorded run.
type RunOutput struct {
	ID          string     `json:"id" yaml:"id"`
	Command     string     `json:"command" yaml:"command"`
	Input       string     `json:"input" yaml:"input"`
	Output      string     `json:"output,omitempty" yaml:"output,omitempty"`
	Status      string     `json:"status" yaml:"status"`
	Tokens      int        `json:"tokens" yaml:"tokens"`
	Nodes       int        `json:"nodes" yaml:"nodes"`
	Dropped     int        `json:"dropped" yaml:"dropped"`
	Error       string     `json:"error,omitempty" yaml:"error,omitempty"`
	StartedAt   time.Time  `json:"started_at" yaml:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" yaml:"completed_at,omitempty"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs",
		Long: `List the runs recorded in the history database, newest first.
Runs are recorded by fix, parse, check and the HTTP API when history is enabled.`,
		Example: `  fixpq history
  fixpq history --limit 5 --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHistory(cmd, limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs (0 for all)")

	return cmd
}

func runHistory(cmd *cobra.Command, limit int) error {
	cc := NewCommandContextWithoutStore(cmd)
	r := cc.Renderer

	path := cc.Cfg.History.Path
	if path != state.MemoryPath && !fileExists(path) {
		r.Warning(fmt.Sprintf("No history recorded at %s (enable it with --history)", path))
		return nil
	}

	store, err := state.Open(cmd.Context(), path, cc.Logger)
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer func() { _ = store.Close() }()

	runs, err := store.ListRuns(cmd.Context(), limit)
	if err != nil {
		return err
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(runOutputs(runs))
	case output.ModeYAML:
		return r.YAML(runOutputs(runs))
	}
	renderRunsTable(r, runs)
	return nil
}

func runOutputs(runs []*state.Run) []RunOutput {
	out := make([]RunOutput, 0, len(runs))
	for _, run := range runs {
		out = append(out, RunOutput{
			ID:          run.ID,
			Command:     run.Command,
			Input:       run.Input,
			Output:      run.Output,
			Status:      string(run.Status),
			Tokens:      run.Tokens,
			Nodes:       run.Nodes,
			Dropped:     run.Dropped,
			Error:       run.Error,
			StartedAt:   run.StartedAt,
			CompletedAt: run.CompletedAt,
		})
	}
	return out
}

func renderRunsTable(r *output.Renderer, runs []*state.Run) {
	t := table.NewWriter()
	t.SetOutputMirror(r.Out())
	t.AppendHeader(table.Row{"ID", "Command", "Input", "Status", "Tokens", "Nodes", "Dropped", "Started", "Duration"})
	for _, run := range runs {
		t.AppendRow(table.Row{
			shortID(run.ID),
			run.Command,
			run.Input,
			run.Status,
			run.Tokens,
			run.Nodes,
			run.Dropped,
			run.StartedAt.Local().Format(time.DateTime),
			run.Duration().Round(time.Millisecond),
		})
	}
	t.AppendFooter(table.Row{fmt.Sprintf("(%d runs)", len(runs))})

	if r.EffectiveMode() == output.ModeMarkdown {
		t.RenderMarkdown()
		return
	}
	t.SetStyle(table.StyleLight)
	t.Render()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// fileExists reports whether path names an existing regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
