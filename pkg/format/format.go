// Package format renders token streams and parse trees for humans and tools.
package format

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/leapstack-labs/fixpq/pkg/token"
)

// TokenRow is the serialized form of a token.
type TokenRow struct {
	Index    int    `json:"index" yaml:"index"`
	Category string `json:"category" yaml:"category"`
	Text     string `json:"text" yaml:"text"`
	Line     int    `json:"line" yaml:"line"`
	Column   int    `json:"column" yaml:"column"`
	Offset   int    `json:"offset" yaml:"offset"`
}

// TokenRows converts tokens to their serialized form.
func TokenRows(tokens []token.Token) []TokenRow {
	rows := make([]TokenRow, len(tokens))
	for i, tok := range tokens {
		rows[i] = TokenRow{
			Index:    i,
			Category: tok.Category.String(),
			Text:     tok.Text,
			Line:     tok.Pos.Line,
			Column:   tok.Pos.Column,
			Offset:   tok.Pos.Offset,
		}
	}
	return rows
}

// TokensTable writes tokens as a table.
func TokensTable(w io.Writer, tokens []token.Token) error {
	if len(tokens) == 0 {
		_, err := fmt.Fprintln(w, "(0 tokens)")
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Category", "Text", "Line", "Column", "Offset"})
	for _, row := range TokenRows(tokens) {
		t.AppendRow(table.Row{row.Index, row.Category, row.Text, row.Line, row.Column, row.Offset})
	}
	t.Render()

	_, err := fmt.Fprintf(w, "(%d tokens)\n", len(tokens))
	return err
}

// TokensMarkdown writes tokens as a markdown table.
func TokensMarkdown(w io.Writer, tokens []token.Token) error {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"#", "Category", "Text", "Line", "Column", "Offset"})
	for _, row := range TokenRows(tokens) {
		t.AppendRow(table.Row{row.Index, row.Category, row.Text, row.Line, row.Column, row.Offset})
	}
	t.RenderMarkdown()
	return nil
}

// TokensJSON writes tokens as an indented JSON array.
func TokensJSON(w io.Writer, tokens []token.Token) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(TokenRows(tokens))
}
