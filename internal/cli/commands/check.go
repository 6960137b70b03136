package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/fixpq/internal/cli/output"
)

// CheckResult is the outcome of checking one file.
type CheckResult struct {
	File   string `json:"file" yaml:"file"`
	OK     bool   `json:"ok" yaml:"ok"`
	Tokens int    `json:"tokens" yaml:"tokens"`
	Nodes  int    `json:"nodes" yaml:"nodes"`
	Error  string `json:"error,omitempty" yaml:"error,omitempty"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	var jobs int

	cmd := &cobra.Command{
		Use:   "check <file>...",
		Short: "Parse many SQL files and report which ones fail",
		Long: `Parse SQL files concurrently and print one line per file.
The command fails if any file fails to parse.`,
		Example: `  fixpq check dumps/*.sql
  fixpq check --jobs 8 --format json dumps/*.sql`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, jobs)
		},
	}

	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "Files parsed in parallel (default: config jobs)")

	return cmd
}

func runCheck(cmd *cobra.Command, files []string, jobs int) error {
	cc, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	if jobs <= 0 {
		jobs = cc.Cfg.Jobs
	}

	results := make([]CheckResult, len(files))
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(jobs)
	for i, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = CheckResult{File: file}
			doc, err := parseFile(ctx, cc, file)
			if err != nil {
				results[i].Error = err.Error()
				return nil
			}
			results[i].OK = true
			results[i].Tokens = doc.Tokens
			results[i].Nodes = doc.Nodes
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	failed := 0
	for _, res := range results {
		if !res.OK {
			failed++
		}
	}

	r := cc.Renderer
	switch r.EffectiveMode() {
	case output.ModeJSON:
		if err := r.JSON(results); err != nil {
			return err
		}
	case output.ModeYAML:
		if err := r.YAML(results); err != nil {
			return err
		}
	default:
		renderCheckText(r, results)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed to parse", failed, len(files))
	}
	return nil
}

func renderCheckText(r *output.Renderer, results []CheckResult) {
	styles := r.Styles()
	for _, res := range results {
		if res.OK {
			r.Printf("%s %s %s\n", styles.Success.Render("ok  "), res.File,
				styles.Muted.Render(fmt.Sprintf("(%d nodes)", res.Nodes)))
			continue
		}
		r.Printf("%s %s\n", styles.Error.Render("FAIL"), res.Error)
	}
}
