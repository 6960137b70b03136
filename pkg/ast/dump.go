package ast

import (
	"fmt"
	"io"
	"strings"
)

// Dump writes an indented representation of the tree to w, one node per
// line, with the child slot (L or R) in front of each child.
func Dump(w io.Writer, n *Node) error {
	return dump(w, n, "", "")
}

func dump(w io.Writer, n *Node, indent, slot string) error {
	if n == nil {
		return nil
	}
	var b strings.Builder
	b.WriteString(indent)
	if slot != "" {
		b.WriteString(slot)
		b.WriteString(": ")
	}
	b.WriteString(n.Kind.String())
	if n.Text != "" {
		fmt.Fprintf(&b, " %q", n.Text)
	}
	fmt.Fprintf(&b, " @%s\n", n.Pos)
	if _, err := io.WriteString(w, b.String()); err != nil {
		return err
	}
	if err := dump(w, n.Left, indent+"  ", "L"); err != nil {
		return err
	}
	return dump(w, n.Right, indent+"  ", "R")
}

// String returns the Dump output of n.
func String(n *Node) string {
	var b strings.Builder
	_ = Dump(&b, n)
	return b.String()
}
