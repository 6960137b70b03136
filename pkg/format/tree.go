package format

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/fixpq/pkg/ast"
)

// TreeDoc is the nested document form of a parse tree.
type TreeDoc struct {
	Kind   string   `json:"kind" yaml:"kind"`
	Text   string   `json:"text,omitempty" yaml:"text,omitempty"`
	Line   int      `json:"line" yaml:"line"`
	Column int      `json:"column" yaml:"column"`
	Left   *TreeDoc `json:"left,omitempty" yaml:"left,omitempty"`
	Right  *TreeDoc `json:"right,omitempty" yaml:"right,omitempty"`
}

// Doc converts a tree to its document form. A nil tree yields nil.
func Doc(n *ast.Node) *TreeDoc {
	if n == nil {
		return nil
	}
	return &TreeDoc{
		Kind:   n.Kind.String(),
		Text:   n.Text,
		Line:   n.Pos.Line,
		Column: n.Pos.Column,
		Left:   Doc(n.Left),
		Right:  Doc(n.Right),
	}
}

// TreeText writes the indented tree dump.
func TreeText(w io.Writer, root *ast.Node) error {
	if root == nil {
		_, err := io.WriteString(w, "(empty tree)\n")
		return err
	}
	return ast.Dump(w, root)
}

// TreeJSON writes the tree as indented JSON.
func TreeJSON(w io.Writer, root *ast.Node) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Doc(root))
}

// TreeYAML writes the tree as YAML.
func TreeYAML(w io.Writer, root *ast.Node) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(Doc(root)); err != nil {
		return err
	}
	return enc.Close()
}
