package commands

import (
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/fixpq/internal/cli/output"
	"github.com/leapstack-labs/fixpq/pkg/format"
	"github.com/leapstack-labs/fixpq/pkg/parser"
)

// FileTokens is the JSON/YAML form of one tokenized file.
type FileTokens struct {
	File   string            `json:"file" yaml:"file"`
	Tokens []format.TokenRow `json:"tokens" yaml:"tokens"`
}

// NewTokensCommand creates the tokens command.
func NewTokensCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tokens <file>...",
		Short: "Print the tokens of SQL files",
		Long: `Tokenize SQL files and print every token with its category and position.

Output adapts to environment:
  - Terminal: table
  - Piped/Scripted: Markdown table

Use --format to override: auto, text, markdown, json, yaml`,
		Example: `  fixpq tokens schema.sql
  fixpq tokens --format json schema.sql | jq '.[0].tokens | length'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTokens(cmd, args)
		},
	}
}

func runTokens(cmd *cobra.Command, files []string) error {
	cc := NewCommandContextWithoutStore(cmd)
	r := cc.Renderer

	docs := make([]FileTokens, 0, len(files))
	for _, file := range files {
		tokens, err := parser.TokenizeFile(file, cc.Cfg.Encoding)
		if err != nil {
			return err
		}
		cc.Logger.Debug("tokenized file", "file", file, "tokens", len(tokens))

		switch r.EffectiveMode() {
		case output.ModeJSON, output.ModeYAML:
			docs = append(docs, FileTokens{File: file, Tokens: format.TokenRows(tokens)})
		case output.ModeMarkdown:
			r.Header(2, file)
			r.Println()
			if err := format.TokensMarkdown(r.Out(), tokens); err != nil {
				return err
			}
			r.Println()
		default:
			r.Header(1, file)
			if err := format.TokensTable(r.Out(), tokens); err != nil {
				return err
			}
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
