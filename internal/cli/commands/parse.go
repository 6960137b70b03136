package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/fixpq/internal/cli/output"
	"github.com/leapstack-labs/fixpq/internal/state"
	"github.com/leapstack-labs/fixpq/pkg/ast"
	"github.com/leapstack-labs/fixpq/pkg/format"
	"github.com/leapstack-labs/fixpq/pkg/parser"
)

// ParseOutput is the JSON/YAML form of one parsed file.
type ParseOutput struct {
	File     string          `json:"file" yaml:"file"`
	Status   string          `json:"status" yaml:"status"`
	Tokens   int             `json:"tokens" yaml:"tokens"`
	Nodes    int             `json:"nodes" yaml:"nodes"`
	Tree     *format.TreeDoc `json:"tree" yaml:"tree"`
	Comments []string        `json:"comments,omitempty" yaml:"comments,omitempty"`
}

// NewParseCommand creates the parse command.
func NewParseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <file>...",
		Short: "Reduce SQL files to trees and print them",
		Long: `Tokenize SQL files, reduce the tokens to a tree and print it.

The first error stops the command and is reported as file:line:column: message.`,
		Example: `  fixpq parse schema.sql
  fixpq parse --format yaml schema.sql
  fixpq parse --max-text-len 4096 big.sql`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args)
		},
	}
}

func runParse(cmd *cobra.Command, files []string) error {
	cc, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	r := cc.Renderer
	docs := make([]ParseOutput, 0, len(files))
	for _, file := range files {
		doc, err := parseFile(cmd.Context(), cc, file)
		if err != nil {
			return err
		}

		switch r.EffectiveMode() {
		case output.ModeJSON, output.ModeYAML:
			docs = append(docs, doc.ParseOutput)
		case output.ModeMarkdown:
			r.Header(2, file)
			r.Println()
			r.Println("```")
			if err := format.TreeText(r.Out(), doc.tree); err != nil {
				return err
			}
			r.Println("```")
			r.Println()
		default:
			r.Header(1, file)
			if err := format.TreeText(r.Out(), doc.tree); err != nil {
				return err
			}
			r.Muted(fmt.Sprintf("%d tokens, %d nodes", doc.Tokens, doc.Nodes))
		}
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(docs)
	case output.ModeYAML:
		return r.YAML(docs)
	}
	return nil
}

type parsedFile struct {
	ParseOutput
	tree *ast.Node
}

// parseFile tokenizes and parses one file, recording the run.
func parseFile(ctx context.Context, cc *CommandContext, file string) (*parsedFile, error) {
	finish := cc.StartRun(ctx, "parse", file)

	tokens, err := parser.TokenizeFile(file, cc.Cfg.Encoding)
	if err != nil {
		finish(state.RunResult{Err: err})
		return nil, err
	}

	res := parser.Parse(tokens, cc.ParseOptions()...)
	finish(state.RunResult{Tokens: len(tokens), Nodes: res.Nodes(), Err: res.Err})
	if !res.OK() {
		return nil, parseFailure(file, res.Err)
	}
	cc.Logger.Info("parsed file", "file", file, "tokens", len(tokens), "nodes", res.Nodes())

	doc := &parsedFile{
		ParseOutput: ParseOutput{
			File:   file,
			Status: res.Status.String(),
			Tokens: len(tokens),
			Nodes:  res.Nodes(),
			Tree:   format.Doc(res.Root),
		},
		tree: res.Root,
	}
	for _, c := range res.Comments {
		doc.Comments = append(doc.Comments, c.Text)
	}
	return doc, nil
}
