package parser

import (
	"github.com/leapstack-labs/fixpq/pkg/ast"
	"github.com/leapstack-labs/fixpq/pkg/token"
)

var operatorKinds = map[string]ast.Kind{
	"+": ast.Add,
	"%": ast.Modulo,
	"|": ast.BinaryOr,
	"&": ast.BinaryAnd,
	"/": ast.Divide,
}

var separatorKinds = map[string]ast.Kind{
	";": ast.Semicolon,
	"<": ast.Smaller,
	">": ast.Larger,
	"(": ast.LeftParenthesis,
	")": ast.RightParenthesis,
	".": ast.Dot,
	",": ast.Comma,
}

// ---------- Operators ----------

// reduceOperator builds an operator node with tree as its left operand.
func (p *Parser) reduceOperator(tree, scope *ast.Node, i int) (*ast.Node, int) {
	text := p.tokens[i].Text

	switch text {
	case "=":
		return p.reduceAssign(tree, i)
	case "-":
		n := p.newNode(ast.Subtraction, i)
		n.Left = tree
		if p.peekIs(i+1, token.Operator, "-") {
			return p.reduceInlineComment(n, i)
		}
		return n, p.reduceRight(n, i)
	case "*":
		n := p.newNode(ast.Multiply, i)
		n.Left = tree
		if p.isWildcard(tree, scope) {
			n.Kind = ast.Star
			return n, i + 1
		}
		return n, p.reduceRight(n, i)
	case "/":
		n := p.newNode(ast.Divide, i)
		n.Left = tree
		if p.opensBlockComment(i) {
			return p.reduceBlockComment(n, i)
		}
		return n, p.reduceRight(n, i)
	}

	kind, ok := operatorKinds[text]
	if !ok {
		// Only hand-built token slices can carry an operator outside the
		// table; keep its text rather than guessing a meaning.
		n := p.newNode(ast.Literal, i)
		n.Left = tree
		n.Text = text
		return n, i + 1
	}
	n := p.newNode(kind, i)
	n.Left = tree
	return n, p.reduceRight(n, i)
}

// reduceAssign fuses "=" with an immediately preceding "=", "<" or ">" into
// Equal, SmallerOrEqual or LargerOrEqual. Otherwise it is an Assign. There
// is no right-hand lookahead.
func (p *Parser) reduceAssign(tree *ast.Node, i int) (*ast.Node, int) {
	n := p.newNode(ast.Assign, i)
	n.Left = tree

	if tree == nil || tree.Source != i-1 {
		return n, i + 1
	}
	var promoted ast.Kind
	switch tree.Kind {
	case ast.Assign:
		promoted = ast.Equal
	case ast.Larger:
		promoted = ast.LargerOrEqual
	case ast.Smaller:
		promoted = ast.SmallerOrEqual
	default:
		return n, i + 1
	}

	// The predecessor survives; the new node gives its Left back first so
	// releasing it cannot reach the predecessor.
	n.Left = nil
	p.discard(n)
	tree.Kind = promoted
	return tree, i + 1
}

// isWildcard decides whether "*" is the SELECT wildcard: the nearest node
// built from a keyword, searching the existing tree (or the enclosing scope
// when there is no tree yet), must be a Select.
func (p *Parser) isWildcard(tree, scope *ast.Node) bool {
	root := tree
	if root == nil {
		root = scope
	}
	kw := p.nearestKeyword(root)
	return kw != nil && kw.Kind == ast.Select
}

// nearestKeyword searches right before left for a node built from a
// keyword. The search does not cross a statement boundary (Semicolon).
func (p *Parser) nearestKeyword(n *ast.Node) *ast.Node {
	if n == nil {
		return nil
	}
	if p.isKeywordNode(n) {
		return n
	}
	if n.Kind == ast.Semicolon {
		return nil
	}
	if kw := p.nearestKeyword(n.Right); kw != nil {
		return kw
	}
	return p.nearestKeyword(n.Left)
}

// ---------- Separators ----------

// reduceSeparator builds a separator node with tree as its Left. A
// semicolon ends the statement; the next statement picks it up as Left.
func (p *Parser) reduceSeparator(tree, _ *ast.Node, i int) (*ast.Node, int) {
	text := p.tokens[i].Text
	kind, ok := separatorKinds[text]
	if !ok {
		n := p.newNode(ast.Literal, i)
		n.Left = tree
		n.Text = text
		return n, i + 1
	}

	n := p.newNode(kind, i)
	n.Left = tree
	last := i

	switch kind {
	case ast.Semicolon:
		return n, i + 1
	case ast.Smaller, ast.Larger:
		// "<=" and ">=" arrive as two tokens; let the "=" fuse before the
		// right operand is read.
		if p.peekIs(i+1, token.Operator, "=") {
			n, last = p.reduceAssign(n, i+1)
			last--
		}
	}
	return n, p.reduceRight(n, last)
}
