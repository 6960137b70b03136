// Package ast defines the binary tree produced by the parser.
//
// Every node exclusively owns its Left and Right children: the structure is
// a strict binary tree with no sharing and no cycles. Moving a subtree means
// detaching it from its old parent before attaching it elsewhere.
package ast

import "github.com/leapstack-labs/fixpq/pkg/token"

// NoSource marks a node that was not produced from a token.
const NoSource = -1

// Node is a single tree node.
type Node struct {
	Kind  Kind
	Text  string
	Pos   token.Position
	Left  *Node
	Right *Node

	// Source is the index of the originating token in the token slice the
	// tree was built from. It does not own the token.
	Source int
}

// New returns a childless node stamped with the position of tok.
func New(kind Kind, tok token.Token, source int) *Node {
	return &Node{Kind: kind, Pos: tok.Pos, Source: source}
}

// IsLeaf reports whether n has no children.
func (n *Node) IsLeaf() bool {
	return n.Left == nil && n.Right == nil
}

// Detach removes and returns both children of n.
func (n *Node) Detach() (left, right *Node) {
	left, right = n.Left, n.Right
	n.Left, n.Right = nil, nil
	return left, right
}
